package store

import (
	"fmt"
	"time"

	"github.com/goliatone/go-discussion-pager/forum"
)

// SampleDiscussions generates n demo discussions, newest activity first,
// the last activity of the first one at newest.
func SampleDiscussions(n int, newest time.Time) []*forum.Discussion {
	out := make([]*forum.Discussion, n)
	for i := range out {
		id := i + 1
		out[i] = &forum.Discussion{
			ID:           fmt.Sprint(id),
			Title:        fmt.Sprintf("Sample discussion %d", id),
			Slug:         fmt.Sprintf("%d-sample-discussion-%d", id, id),
			CommentCount: (id * 7) % 23,
			IsSticky:     id%17 == 0,
			CreatedAt:    newest.Add(-time.Duration(n-i) * 3 * time.Hour),
			LastPostedAt: newest.Add(-time.Duration(i) * 11 * time.Minute),
		}
	}
	return out
}
