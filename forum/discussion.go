package forum

import "time"

// Discussion is a single discussion record as seen by the list view.
// Records are owned by a Store; list state only keeps references.
type Discussion struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	CommentCount int       `json:"commentCount"`
	IsSticky     bool      `json:"isSticky"`
	CreatedAt    time.Time `json:"createdAt"`
	LastPostedAt time.Time `json:"lastPostedAt"`
}

// IDs returns the identifiers of items in order, skipping nil entries.
func IDs(items []*Discussion) []string {
	ids := make([]string, 0, len(items))
	for _, d := range items {
		if d == nil {
			continue
		}
		ids = append(ids, d.ID)
	}
	return ids
}

// IndexOf returns the position of the discussion with id in items, or -1.
func IndexOf(items []*Discussion, id string) int {
	for i, d := range items {
		if d != nil && d.ID == id {
			return i
		}
	}
	return -1
}
