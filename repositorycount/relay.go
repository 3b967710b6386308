package repositorycount

import (
	"context"
	"sync"
)

type relayContextKey struct{}

// relay is the per-request slot written by CountingLister.
type relay struct {
	mu     sync.Mutex
	totals map[string]int
}

// WithRelay installs an empty total-count slot in ctx. Calling it again on a
// context that already carries one returns ctx unchanged.
func WithRelay(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if relayFromContext(ctx) != nil {
		return ctx
	}
	return context.WithValue(ctx, relayContextKey{}, &relay{totals: map[string]int{}})
}

// RecordTotal stores total for resource. It reports false when ctx carries
// no relay.
func RecordTotal(ctx context.Context, resource string, total int) bool {
	r := relayFromContext(ctx)
	if r == nil {
		return false
	}
	r.mu.Lock()
	r.totals[resource] = total
	r.mu.Unlock()
	return true
}

// TotalFromContext returns the total recorded for resource during this
// request.
func TotalFromContext(ctx context.Context, resource string) (int, bool) {
	r := relayFromContext(ctx)
	if r == nil {
		return 0, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	total, ok := r.totals[resource]
	return total, ok
}

// TakeTotal is TotalFromContext followed by clearing the slot, so a second
// serialization in the same request falls back to its own count.
func TakeTotal(ctx context.Context, resource string) (int, bool) {
	r := relayFromContext(ctx)
	if r == nil {
		return 0, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	total, ok := r.totals[resource]
	delete(r.totals, resource)
	return total, ok
}

func relayFromContext(ctx context.Context) *relay {
	if ctx == nil {
		return nil
	}
	if r, ok := ctx.Value(relayContextKey{}).(*relay); ok {
		return r
	}
	return nil
}
