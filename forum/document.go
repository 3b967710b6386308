package forum

import "time"

// ResourceType is the JSON:API type of discussion resources.
const ResourceType = "discussions"

// Document is the API envelope of a discussion list response. The total
// result count travels out of band in the jsonapi member.
type Document struct {
	Links   Links      `json:"links,omitempty"`
	Data    []Resource `json:"data"`
	JSONAPI Meta       `json:"jsonapi"`
}

// Links carries the pagination links of a list response.
type Links struct {
	First string `json:"first,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
}

// Meta is the jsonapi member of the envelope.
type Meta struct {
	Version           string `json:"version,omitempty"`
	TotalResultsCount *int   `json:"totalResultsCount,omitempty"`
}

// Resource is a single discussion resource object.
type Resource struct {
	Type       string     `json:"type"`
	ID         string     `json:"id"`
	Attributes Attributes `json:"attributes"`
}

// Attributes are the serialized discussion fields.
type Attributes struct {
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	CommentCount int       `json:"commentCount"`
	IsSticky     bool      `json:"isSticky"`
	CreatedAt    time.Time `json:"createdAt"`
	LastPostedAt time.Time `json:"lastPostedAt"`
}

// NewResource serializes d.
func NewResource(d *Discussion) Resource {
	return Resource{
		Type: ResourceType,
		ID:   d.ID,
		Attributes: Attributes{
			Title:        d.Title,
			Slug:         d.Slug,
			CommentCount: d.CommentCount,
			IsSticky:     d.IsSticky,
			CreatedAt:    d.CreatedAt,
			LastPostedAt: d.LastPostedAt,
		},
	}
}

// Discussion converts the resource back into a record.
func (r Resource) Discussion() *Discussion {
	return &Discussion{
		ID:           r.ID,
		Title:        r.Attributes.Title,
		Slug:         r.Attributes.Slug,
		CommentCount: r.Attributes.CommentCount,
		IsSticky:     r.Attributes.IsSticky,
		CreatedAt:    r.Attributes.CreatedAt,
		LastPostedAt: r.Attributes.LastPostedAt,
	}
}

// Total returns the out-of-band result count, if the server attached one.
func (d *Document) Total() (int, bool) {
	if d == nil || d.JSONAPI.TotalResultsCount == nil {
		return 0, false
	}
	return *d.JSONAPI.TotalResultsCount, true
}

// Results converts the envelope into list results. Records are returned as
// decoded; callers that deduplicate by id should replace them.
func (d *Document) Results() *Results {
	res := &Results{Items: make([]*Discussion, 0, len(d.Data))}
	for _, r := range d.Data {
		res.Items = append(res.Items, r.Discussion())
	}
	res.Total, _ = d.Total()
	res.HasNext = d.Links.Next != ""
	res.HasPrev = d.Links.Prev != ""
	return res
}
