package store

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-discussion-pager/forum"
)

// Discussion is the persisted discussion row.
type Discussion struct {
	bun.BaseModel `bun:"table:discussions,alias:d"`

	ID           string    `bun:"id,pk"`
	Title        string    `bun:"title,notnull"`
	Slug         string    `bun:"slug,notnull"`
	CommentCount int       `bun:"comment_count,notnull,default:0"`
	IsSticky     bool      `bun:"is_sticky,notnull,default:false"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	LastPostedAt time.Time `bun:"last_posted_at,notnull"`
}

// Forum converts the row into the shared domain record.
func (d *Discussion) Forum() *forum.Discussion {
	return &forum.Discussion{
		ID:           d.ID,
		Title:        d.Title,
		Slug:         d.Slug,
		CommentCount: d.CommentCount,
		IsSticky:     d.IsSticky,
		CreatedAt:    d.CreatedAt.UTC(),
		LastPostedAt: d.LastPostedAt.UTC(),
	}
}

// FromForum builds a row from a domain record.
func FromForum(d *forum.Discussion) *Discussion {
	return &Discussion{
		ID:           d.ID,
		Title:        d.Title,
		Slug:         d.Slug,
		CommentCount: d.CommentCount,
		IsSticky:     d.IsSticky,
		CreatedAt:    d.CreatedAt,
		LastPostedAt: d.LastPostedAt,
	}
}
