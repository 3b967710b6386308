package server

import (
	"context"
	"net/url"
	"strconv"

	"github.com/goliatone/go-discussion-pager/forum"
	"github.com/goliatone/go-discussion-pager/internal/store"
	"github.com/goliatone/go-discussion-pager/repositorycount"
)

const (
	resourceDiscussions = forum.ResourceType
	jsonapiVersion      = "1.0"
	offsetParam         = "page[offset]"
)

// singleDocument is the envelope of a single discussion response.
type singleDocument struct {
	Data    forum.Resource `json:"data"`
	JSONAPI forum.Meta     `json:"jsonapi"`
}

// errorDocument is the envelope of an error response.
type errorDocument struct {
	Errors []errorObject `json:"errors"`
}

type errorObject struct {
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// listDocument serializes a window of the list. The total attached to the
// jsonapi member is the one relayed by the counting lister for this
// request; fallback is used when nothing was relayed.
func listDocument(ctx context.Context, u *url.URL, req forum.RequestParams, records []*store.Discussion, fallback int) forum.Document {
	total, ok := repositorycount.TakeTotal(ctx, resourceDiscussions)
	if !ok {
		total = fallback
	}

	doc := forum.Document{
		Data:    make([]forum.Resource, 0, len(records)),
		JSONAPI: forum.Meta{Version: jsonapiVersion, TotalResultsCount: &total},
	}
	for _, r := range records {
		doc.Data = append(doc.Data, forum.NewResource(r.Forum()))
	}

	doc.Links.First = pageLink(u, 0)
	if req.Limit > 0 && req.Offset+req.Limit < total {
		doc.Links.Next = pageLink(u, req.Offset+req.Limit)
	}
	if req.Offset > 0 {
		doc.Links.Prev = pageLink(u, max(req.Offset-req.Limit, 0))
	}
	return doc
}

// pageLink is the request URL with page[offset] replaced.
func pageLink(u *url.URL, offset int) string {
	q := u.Query()
	if offset > 0 {
		q.Set(offsetParam, strconv.Itoa(offset))
	} else {
		q.Del(offsetParam)
	}
	link := url.URL{Path: u.Path, RawQuery: q.Encode()}
	return link.String()
}
