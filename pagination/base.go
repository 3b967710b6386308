package pagination

import (
	"context"
	"sync"

	"github.com/goliatone/go-discussion-pager/cache"
	"github.com/goliatone/go-discussion-pager/forum"
	"github.com/goliatone/go-discussion-pager/internal/metrics"
)

// BaseState is the plain discussion list: it loads through the store and
// grows by appending pages (load-more).
type BaseState struct {
	store  forum.Store
	window Window

	mu      sync.Mutex
	params  forum.Params
	pages   []*Page
	extra   []*forum.Discussion
	total   int
	loading bool
}

var _ ListState = (*BaseState)(nil)

// NewBaseState creates a list over store using window to size requests.
func NewBaseState(store forum.Store, window Window) *BaseState {
	return &BaseState{store: store, window: window}
}

// Params returns a copy of the current list parameters.
func (b *BaseState) Params() forum.Params {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.params.Clone()
}

// RequestParams derives the API request of the current parameters.
func (b *BaseState) RequestParams() forum.RequestParams {
	return forum.BuildRequestParams(b.Params())
}

// setParams stores params and reports whether they differ from the
// previous ones.
func (b *BaseState) setParams(params forum.Params) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	changed := parameterKey(b.params) != parameterKey(params)
	b.params = params.Clone()
	return changed
}

// RefreshParams implements ListState. Unchanged parameters on a populated
// list are a no-op.
func (b *BaseState) RefreshParams(ctx context.Context, params forum.Params, page int) error {
	if !b.setParams(params) && b.HasItems() {
		return nil
	}
	return b.Refresh(ctx, page)
}

// Refresh implements ListState.
func (b *BaseState) Refresh(ctx context.Context, page int) error {
	b.Clear()
	b.setLoading(true)
	defer b.setLoading(false)

	results, err := b.LoadPage(ctx, page)
	if err != nil {
		return err
	}
	b.ParseResults(page, results)
	return nil
}

// LoadPage implements ListState. The server rendered document, when there
// is one, answers the first load.
func (b *BaseState) LoadPage(ctx context.Context, page int) (*forum.Results, error) {
	if results, ok := b.store.PreloadedDocument(); ok {
		metrics.RecordPageLoad("preloaded")
		return results, nil
	}

	req := b.RequestParams()
	req.Offset, req.Limit = b.window(page)
	metrics.RecordPageLoad("network")
	return b.store.Find(ctx, req)
}

// ParseResults implements ListState.
func (b *BaseState) ParseResults(page int, results *forum.Results) {
	if results == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pages, _ = insertPage(b.pages, newPage(page, results))
	b.total = results.Total
}

// LoadMore appends the page after the last loaded one, if the server
// announced one.
func (b *BaseState) LoadMore(ctx context.Context) error {
	b.mu.Lock()
	if b.loading || len(b.pages) == 0 || !b.pages[len(b.pages)-1].HasNext {
		b.mu.Unlock()
		return nil
	}
	next := b.pages[len(b.pages)-1].Number + 1
	b.loading = true
	b.mu.Unlock()
	defer b.setLoading(false)

	results, err := b.LoadPage(ctx, next)
	if err != nil {
		return err
	}
	b.ParseResults(next, results)
	return nil
}

// AddDiscussion implements ListState. The discussion is shown above the
// loaded pages.
func (b *BaseState) AddDiscussion(d *forum.Discussion) {
	if d == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(d.ID)
	b.extra = append([]*forum.Discussion{d}, b.extra...)
}

// DeleteDiscussion implements ListState.
func (b *BaseState) DeleteDiscussion(d *forum.Discussion) {
	if d == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(d.ID)
}

func (b *BaseState) removeLocked(id string) bool {
	removed := false
	if i := forum.IndexOf(b.extra, id); i >= 0 {
		b.extra = append(b.extra[:i], b.extra[i+1:]...)
		removed = true
	}
	for _, p := range b.pages {
		if i := forum.IndexOf(p.Items, id); i >= 0 {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			removed = true
		}
	}
	return removed
}

// Clear implements ListState.
func (b *BaseState) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pages = nil
	b.extra = nil
	b.total = 0
}

// Pages returns copies of the loaded pages in ascending order.
func (b *BaseState) Pages() []*Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	pages := make([]*Page, len(b.pages))
	for i, page := range b.pages {
		pages[i] = page.clone()
	}
	return pages
}

// Items returns every rendered discussion, real-time additions first.
func (b *BaseState) Items() []*forum.Discussion {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := append([]*forum.Discussion(nil), b.extra...)
	for _, p := range b.pages {
		items = append(items, p.Items...)
	}
	return items
}

// Total returns the total reported by the last load.
func (b *BaseState) Total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.total
}

// HasItems reports whether anything is loaded.
func (b *BaseState) HasItems() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pages) > 0 || len(b.extra) > 0
}

// Loading reports whether a load is in progress.
func (b *BaseState) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

func (b *BaseState) setLoading(v bool) {
	b.mu.Lock()
	b.loading = v
	b.mu.Unlock()
}

func parameterKey(p forum.Params) string {
	req := forum.BuildRequestParams(p)
	return cache.ParameterFingerprint(cache.Request{Include: req.Include, Filter: req.Filter, Sort: req.Sort})
}
