package forum

// Results is one fetched window of the discussion list together with the
// out-of-band total count and link presence flags of its envelope.
type Results struct {
	Items   []*Discussion
	Total   int
	HasNext bool
	HasPrev bool
}

// Len reports the number of items, tolerating a nil receiver.
func (r *Results) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Items)
}
