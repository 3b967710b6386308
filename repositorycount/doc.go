// Package repositorycount relays the total result count of a list query to
// the response serializer of the same request.
//
// # Overview
//
// A list query computes two things: the window of records it returns and
// the number of records the query would match without its offset and limit.
// The second value is needed by the serializer to attach
// jsonapi.totalResultsCount to the document, but the serializer only sees
// the records. CountingLister decorates any go-repository-bun style lister
// and stores the total into a slot carried by the request context.
//
// # Basic Usage
//
//	ctx = repositorycount.WithRelay(r.Context())
//
//	lister := repositorycount.New[*store.Discussion](repo)
//	records, _, err := lister.List(ctx, criteria...)
//
//	if total, ok := repositorycount.TotalFromContext(ctx, lister.Resource()); ok {
//		doc.JSONAPI.TotalResultsCount = &total
//	}
//
// The slot lives as long as the request context, so concurrent requests never
// observe each other's totals. Without WithRelay the decorator is a plain
// pass-through.
package repositorycount
