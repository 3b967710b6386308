package store

import (
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-discussion-pager/forum"
)

// sortColumns maps API sort expressions to order clauses.
var sortColumns = map[string]string{
	"-lastPostedAt": "d.last_posted_at DESC",
	"lastPostedAt":  "d.last_posted_at ASC",
	"-commentCount": "d.comment_count DESC",
	"commentCount":  "d.comment_count ASC",
	"-createdAt":    "d.created_at DESC",
	"createdAt":     "d.created_at ASC",
}

const defaultOrder = "d.last_posted_at DESC"

// Window limits the query to [offset, offset+limit).
func Window(offset, limit int) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if offset > 0 {
			q = q.Offset(offset)
		}
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q
	}
}

// Search keeps discussions whose title contains term, case-insensitively.
func Search(term string) repository.SelectCriteria {
	term = strings.TrimSpace(term)
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if term == "" {
			return q
		}
		return q.Where("LOWER(d.title) LIKE ?", "%"+strings.ToLower(term)+"%")
	}
}

// Sticky keeps only sticky, or only non-sticky, discussions.
func Sticky(sticky bool) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("d.is_sticky = ?", sticky)
	}
}

// SortBy orders by an API sort expression. Unknown or empty expressions
// fall back to latest activity first. The id is always a tie breaker so
// windows never overlap.
func SortBy(expr string) repository.SelectCriteria {
	order, ok := sortColumns[expr]
	if !ok {
		order = defaultOrder
	}
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr(order).OrderExpr("d.id ASC")
	}
}

// FromRequest translates list request parameters into criteria.
func FromRequest(req forum.RequestParams) []repository.SelectCriteria {
	criteria := []repository.SelectCriteria{}
	if q, ok := req.Filter["q"].(string); ok {
		criteria = append(criteria, Search(q))
	}
	if raw, ok := req.Filter["sticky"].(string); ok {
		criteria = append(criteria, Sticky(raw == "true" || raw == "1"))
	}
	criteria = append(criteria, SortBy(req.Sort), Window(req.Offset, req.Limit))
	return criteria
}
