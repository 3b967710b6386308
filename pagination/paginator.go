package pagination

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-discussion-pager/cache"
	"github.com/goliatone/go-discussion-pager/forum"
	"github.com/goliatone/go-discussion-pager/internal/logging"
	"github.com/goliatone/go-discussion-pager/internal/metrics"
	"github.com/goliatone/go-discussion-pager/settings"
)

const (
	// DefaultLeftEdges is how many page buttons are shown before the current one.
	DefaultLeftEdges = 4
	// DefaultRightEdges is how many page buttons are shown after the current one.
	DefaultRightEdges = 5
	// DefaultCacheHitDelay is the pause before a page served from memory resolves.
	DefaultCacheHitDelay = 50 * time.Millisecond
)

// URLState reads and writes the page parameter of the current location.
type URLState interface {
	Page() (int, bool)
	SetPage(n int, replace bool)
	RouteKey() string
	Path() string
}

// BackMarker reports whether the user just came back from a discussion.
type BackMarker interface {
	Consume(routeKey string) bool
}

// SessionCache persists page snapshots across list state teardowns.
type SessionCache interface {
	Save(req cache.Request, page int, results *forum.Results)
	Restore(req cache.Request, page int, resolver cache.Resolver) (*forum.Results, bool)
	Invalidate(req cache.Request, page int)
}

// Viewport scrolls the list back to its top after a page change.
type Viewport interface {
	ScrollToTop()
}

// Paginator decorates a BaseState with numbered pages, a running cache of
// everything fetched for the current parameters and a session cache of
// page snapshots. In load-more mode every operation goes to the base.
//
// Fetches run without holding the lock. Overlapping fetches are not
// cancelled: whichever resolves last is the one rendered.
type Paginator struct {
	base       *BaseState
	paginate   bool
	caching    bool
	leftEdges  int
	rightEdges int
	delay      time.Duration

	url      URLState
	marker   BackMarker
	session  SessionCache
	viewport Viewport
	onChange func()
	logger   *slog.Logger
	prefs    settings.Preferences

	mu            sync.Mutex
	state         PageState
	status        Status
	pages         []*Page
	current       *Page
	running       runningCache
	refreshedOnce bool
}

var _ ListState = (*Paginator)(nil)

// Option customizes a Paginator.
type Option func(*Paginator)

// WithPreferences applies the user's mode preference.
func WithPreferences(prefs settings.Preferences) Option {
	return func(p *Paginator) { p.prefs = prefs }
}

// WithURL mounts the location the page number is mirrored to.
func WithURL(u URLState) Option {
	return func(p *Paginator) { p.url = u }
}

// WithBackMarker mounts the back navigation marker.
func WithBackMarker(m BackMarker) Option {
	return func(p *Paginator) { p.marker = m }
}

// WithSessionCache mounts the session page cache.
func WithSessionCache(c SessionCache) Option {
	return func(p *Paginator) { p.session = c }
}

// WithViewport mounts the scroll target.
func WithViewport(v Viewport) Option {
	return func(p *Paginator) { p.viewport = v }
}

// WithOnChange registers the redraw callback. It is called without the
// lock held.
func WithOnChange(fn func()) Option {
	return func(p *Paginator) { p.onChange = fn }
}

// WithEdges sets the number of page buttons around the current page.
func WithEdges(left, right int) Option {
	return func(p *Paginator) {
		p.leftEdges = left
		p.rightEdges = right
	}
}

// WithCacheHitDelay sets the pause applied to pages served from memory.
func WithCacheHitDelay(d time.Duration) Option {
	return func(p *Paginator) { p.delay = d }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Paginator) { p.logger = logger }
}

// New creates a paginator over store configured from s. Without
// WithPreferences the forum-wide mode applies.
func New(store forum.Store, s settings.Settings, opts ...Option) *Paginator {
	p := &Paginator{
		prefs:      settings.DefaultPreferences(),
		caching:    s.CacheDiscussions,
		leftEdges:  DefaultLeftEdges,
		rightEdges: DefaultRightEdges,
		delay:      DefaultCacheHitDelay,
		logger:     logging.Discard(),
		running:    newRunningCache(),
	}
	p.state.Sizes = Sizes{PerPage: s.PerPage, PerIndexInit: s.PerIndexInit, PerLoadMore: s.PerLoadMore}
	for _, opt := range opts {
		opt(p)
	}
	p.paginate = DetermineMode(s, p.prefs)

	window := FixedWindow(s.PerPage)
	if !p.paginate {
		window = LoadMoreWindow(s.PerIndexInit, s.PerLoadMore)
	}
	p.base = NewBaseState(store, window)
	return p
}

// DetermineMode reports whether numbered pagination is active.
func DetermineMode(s settings.Settings, prefs settings.Preferences) bool {
	return s.Paginate(prefs)
}

// Base returns the decorated list.
func (p *Paginator) Base() *BaseState {
	return p.base
}

// Paginating reports whether numbered mode is active.
func (p *Paginator) Paginating() bool {
	return p.paginate
}

// RefreshParams implements ListState. Returning from a discussion, and the
// first call after construction, honour the page in the URL and may be
// served from the session cache. Any later parameter change starts over at
// page one with a genuine fetch.
func (p *Paginator) RefreshParams(ctx context.Context, params forum.Params, page int) error {
	if !p.paginate {
		return p.base.RefreshParams(ctx, params, page)
	}
	p.base.setParams(params)

	back := p.marker != nil && p.url != nil && p.marker.Consume(p.url.RouteKey())

	p.mu.Lock()
	first := !p.refreshedOnce
	if back || first {
		p.refreshedOnce = true
		p.mu.Unlock()

		target := page
		if n, ok := p.urlPage(); ok {
			target = n
		}
		return p.Refresh(ctx, max(target, 1))
	}
	p.state.bypassSessionOnce = true
	p.mu.Unlock()

	p.syncURL(1)
	p.invalidateSession(1)
	return p.Refresh(ctx, 1)
}

// Refresh implements ListState. A page beyond the last one, typically a
// stale page number in the URL, is replaced by the last page.
func (p *Paginator) Refresh(ctx context.Context, page int) error {
	if !p.paginate {
		return p.base.Refresh(ctx, page)
	}

	target := page
	if target <= 1 {
		if n, ok := p.urlPage(); ok {
			target = n
		}
	}
	target = max(target, 1)

	p.mu.Lock()
	bypass := p.state.bypassSessionOnce
	p.state.bypassSessionOnce = false
	p.mu.Unlock()

	if !bypass {
		if p.restoreFromSession(target) {
			return nil
		}
		if p.servesFromMemory(target) {
			return p.reload(ctx, target)
		}
	}

	p.mu.Lock()
	p.state.InitialLoading = true
	p.state.LoadingPrev = false
	p.state.LoadingNext = false
	p.state.IsRefreshing = true
	if p.status == StatusCold {
		p.status = StatusLoadingInitial
	} else {
		p.status = StatusRefreshing
	}
	p.mu.Unlock()

	p.Clear()
	p.syncURL(target)

	results, err := p.LoadPage(ctx, target)
	if err == nil {
		if last := totalPages(results.Total, p.perPage()); last > 0 && target > last {
			p.logger.Debug("pagination: page out of range", "page", target, "last", last)
			target = last
			p.syncURL(target)
			results, err = p.LoadPage(ctx, target)
		}
	}
	if err != nil {
		p.logger.Debug("pagination: refresh failed", "page", target, "error", err)
		p.finishLoad()
		return err
	}

	p.mu.Lock()
	p.pages = nil
	p.mu.Unlock()
	p.ParseResults(target, results)
	p.finishLoad()
	return nil
}

// restoreFromSession rebuilds target from the session cache without any
// network access.
func (p *Paginator) restoreFromSession(target int) bool {
	if p.session == nil || !p.caching {
		return false
	}
	results, ok := p.session.Restore(p.cacheRequest(), target, p.base.store)
	if !ok {
		return false
	}

	p.mu.Lock()
	p.state.Flags = Flags{}
	p.state.silentRestore = true
	p.pages = nil
	p.mu.Unlock()

	p.syncURL(target)
	metrics.RecordPageLoad("session")
	p.ParseResults(target, results)
	return true
}

// servesFromMemory reports whether the running cache holds target for the
// current parameters.
func (p *Paginator) servesFromMemory(target int) bool {
	if !p.caching {
		return false
	}
	gen := generationOf(p.base.RequestParams())

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running.matches(gen) || p.running.loaded[target] == nil {
		return false
	}
	_, ok := p.running.window(p.state.PerPage*(target-1), p.state.PerPage)
	return ok
}

// reload renders target again from the running cache.
func (p *Paginator) reload(ctx context.Context, target int) error {
	p.mu.Lock()
	p.state.InitialLoading = true
	p.status = StatusLoadingInitial
	p.mu.Unlock()

	results, err := p.LoadPage(ctx, target)
	if err != nil {
		p.finishLoad()
		return err
	}

	p.mu.Lock()
	p.pages = nil
	p.mu.Unlock()
	p.syncURL(target)
	p.ParseResults(target, results)
	p.finishLoad()
	return nil
}

func (p *Paginator) finishLoad() {
	p.mu.Lock()
	p.state.InitialLoading = false
	p.state.IsRefreshing = false
	p.status = p.settledStatusLocked()
	p.mu.Unlock()
	p.notify()
}

func (p *Paginator) settledStatusLocked() Status {
	if p.current == nil {
		return StatusCold
	}
	return StatusReady
}

// LoadPage implements ListState. A page already held by the running cache
// for unchanged parameters resolves from memory after a short delay that
// honours ctx; everything else goes to the store.
func (p *Paginator) LoadPage(ctx context.Context, page int) (*forum.Results, error) {
	if !p.paginate {
		return p.base.LoadPage(ctx, page)
	}
	page = max(page, 1)

	req := p.base.RequestParams()
	gen := generationOf(req)

	p.mu.Lock()
	p.running.adopt(gen)
	p.mu.Unlock()

	if results, ok := p.base.store.PreloadedDocument(); ok {
		p.mu.Lock()
		p.state.InitialLoading = false
		p.state.IsRefreshing = false
		p.state.Total = results.Total
		p.running.total = results.Total
		p.mu.Unlock()
		metrics.RecordPageLoad("preloaded")
		return results, nil
	}

	if results, ok := p.fromMemory(page, gen); ok {
		metrics.RecordPageLoad("memory")
		if err := p.wait(ctx); err != nil {
			return nil, err
		}
		return results, nil
	}

	req.Offset, req.Limit = FixedWindow(p.perPage())(page)
	metrics.RecordPageLoad("network")
	return p.base.store.Find(ctx, req)
}

func (p *Paginator) fromMemory(page int, gen uint64) (*forum.Results, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.caching || p.state.IsRefreshing || !p.running.matches(gen) || p.running.loaded[page] == nil {
		return nil, false
	}
	perPage := p.state.PerPage
	items, ok := p.running.window(perPage*(page-1), perPage)
	if !ok {
		return nil, false
	}
	total := p.running.total
	return &forum.Results{
		Items:   items,
		Total:   total,
		HasPrev: page > 1,
		HasNext: page < totalPages(total, perPage),
	}, true
}

func (p *Paginator) wait(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ParseResults implements ListState. The page is inserted in the page list,
// snapshotted to the session cache and spliced into the running cache. A
// changed parameter set or total resets the running cache first, and the
// page that caused the reset is still spliced into the fresh cache so a
// revisit is served from memory.
func (p *Paginator) ParseResults(page int, results *forum.Results) {
	if !p.paginate {
		p.base.ParseResults(page, results)
		return
	}
	if results == nil {
		return
	}
	page = max(page, 1)
	gen := generationOf(p.base.RequestParams())

	p.mu.Lock()
	p.pages, p.current = insertPage(p.pages, newPage(page, results))
	p.state.Current = page
	p.state.Total = results.Total
	p.state.NeedsReload = false

	if p.caching {
		r := &p.running
		if r.total == 0 || r.total != results.Total || p.state.IsRefreshing || !r.matches(gen) {
			r.reset(results.Total, gen)
			metrics.RunningCacheResets.Inc()
		}
		r.splice(p.state.PerPage*(page-1), results.Items)
		r.loaded[page] = p.current
	}
	p.state.TotalPages = totalPages(p.state.Total, p.state.PerPage)
	if p.status != StatusRefreshing && p.status != StatusLoadingInitial {
		p.status = StatusReady
	}
	snapshot := &forum.Results{Items: results.Items, Total: results.Total}
	p.mu.Unlock()

	if p.session != nil && p.caching {
		p.session.Save(p.cacheRequest(), page, snapshot)
	}
	p.notify()
}

// AddDiscussion implements ListState. The discussion moves to the head of
// the running cache; a new one raises the totals. Page one is dropped from
// both caches and, when it is on screen with the natural ordering, the
// discussion is shown at its top.
func (p *Paginator) AddDiscussion(d *forum.Discussion) {
	if !p.paginate {
		p.base.AddDiscussion(d)
		return
	}
	if d == nil {
		return
	}
	params := p.base.Params()

	p.mu.Lock()
	r := &p.running
	if i := r.indexOf(d.ID); i >= 0 {
		r.removeAt(i)
	} else {
		p.state.Total++
		if r.total > 0 {
			r.total++
		}
		p.state.TotalPages = totalPages(p.state.Total, p.state.PerPage)
	}
	r.prepend(d)
	delete(r.loaded, 1)

	natural := params.Q == "" && !params.HasFilter() && forum.IsDefaultSort(params.Sort)
	if p.state.Current == 1 && natural {
		if first := findPage(p.pages, 1); first != nil && forum.IndexOf(first.Items, d.ID) < 0 {
			first.Items = append([]*forum.Discussion{d}, first.Items...)
			if len(first.Items) > p.state.PerPage {
				first.Items = first.Items[:p.state.PerPage]
			}
			if p.state.Total > p.state.PerPage {
				first.HasNext = true
			}
		}
	}
	p.mu.Unlock()

	p.invalidateSession(1)
	p.notify()
}

// DeleteDiscussion implements ListState. Only the matching entry is
// removed, from the running cache and from every rendered page.
func (p *Paginator) DeleteDiscussion(d *forum.Discussion) {
	if !p.paginate {
		p.base.DeleteDiscussion(d)
		return
	}
	if d == nil {
		return
	}

	var affected []int
	p.mu.Lock()
	removed := false
	if i := p.running.indexOf(d.ID); i >= 0 {
		p.running.removeAt(i)
		if p.running.total > 0 {
			p.running.total--
		}
		removed = true
	}
	for _, page := range p.pages {
		if i := forum.IndexOf(page.Items, d.ID); i >= 0 {
			page.Items = append(page.Items[:i], page.Items[i+1:]...)
			affected = append(affected, page.Number)
			removed = true
		}
	}
	moved := 0
	if removed && p.state.Total > 0 {
		p.state.Total--
		p.state.TotalPages = totalPages(p.state.Total, p.state.PerPage)
		if last := p.state.TotalPages; last > 0 && p.state.Current > last {
			p.retreatLocked(last)
			moved = last
		}
	}
	p.mu.Unlock()

	for _, n := range affected {
		p.invalidateSession(n)
	}
	if moved > 0 {
		p.syncURL(moved)
	}
	p.notify()
}

// retreatLocked shows page n in place of a current page that no longer
// exists. The page is rebuilt from the running cache when it holds it;
// otherwise it is left empty and marked for reload.
func (p *Paginator) retreatLocked(n int) {
	gone := p.state.Current
	p.pages = removePage(p.pages, gone)
	delete(p.running.loaded, gone)
	p.state.Current = n

	perPage := p.state.PerPage
	if p.caching && p.running.loaded[n] != nil {
		if items, ok := p.running.window(perPage*(n-1), perPage); ok {
			p.pages, p.current = insertPage(p.pages, newPage(n, &forum.Results{
				Items:   items,
				Total:   p.running.total,
				HasPrev: n > 1,
			}))
			p.running.loaded[n] = p.current
			return
		}
	}
	p.pages, p.current = insertPage(p.pages, &Page{Number: n, HasPrev: n > 1})
	p.state.NeedsReload = true
}

// ReloadIfStale fetches the current page when a deletion left it marked
// for reload. It does nothing otherwise.
func (p *Paginator) ReloadIfStale(ctx context.Context) error {
	p.mu.Lock()
	stale, page := p.state.NeedsReload, p.state.Current
	p.mu.Unlock()
	if !stale {
		return nil
	}
	return p.Refresh(ctx, page)
}

// Clear implements ListState.
func (p *Paginator) Clear() {
	if !p.paginate {
		p.base.Clear()
		return
	}
	p.mu.Lock()
	p.running = newRunningCache()
	p.pages = nil
	p.current = nil
	p.state.Total = 0
	p.state.TotalPages = 0
	p.state.NeedsReload = false
	p.mu.Unlock()
	p.base.Clear()
}

// LoadMore appends the next page in load-more mode. It does nothing in
// numbered mode.
func (p *Paginator) LoadMore(ctx context.Context) error {
	if p.paginate {
		return nil
	}
	return p.base.LoadMore(ctx)
}

// Page returns the current page number, or 0 before the first load.
func (p *Paginator) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Current
}

// CurrentPage returns a copy of the rendered current page, or nil.
func (p *Paginator) CurrentPage() *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil
	}
	return p.current.clone()
}

// Pages returns copies of the rendered pages in ascending order.
func (p *Paginator) Pages() []*Page {
	if !p.paginate {
		return p.base.Pages()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	pages := make([]*Page, len(p.pages))
	for i, page := range p.pages {
		pages[i] = page.clone()
	}
	return pages
}

// PerPage returns the numbered page size.
func (p *Paginator) PerPage() int {
	return p.perPage()
}

// TotalPages returns ceil(total / per page).
func (p *Paginator) TotalPages() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.TotalPages
}

// Total returns the total number of discussions for the current parameters.
func (p *Paginator) Total() int {
	if !p.paginate {
		return p.base.Total()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Total
}

// State returns a copy of the pagination state.
func (p *Paginator) State() PageState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Status returns the state machine phase.
func (p *Paginator) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// TakeSilentRestore reports whether the rendered page came from the
// session cache, clearing the flag.
func (p *Paginator) TakeSilentRestore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	silent := p.state.silentRestore
	p.state.silentRestore = false
	return silent
}

func (p *Paginator) perPage() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.PerPage
}

func (p *Paginator) cacheRequest() cache.Request {
	req := p.base.RequestParams()
	base := "/"
	if p.url != nil {
		base = p.url.Path()
	}
	return cache.Request{
		Base:    base,
		Include: req.Include,
		Filter:  req.Filter,
		Sort:    req.Sort,
		PerPage: p.perPage(),
	}
}

func (p *Paginator) invalidateSession(page int) {
	if p.session == nil {
		return
	}
	p.session.Invalidate(p.cacheRequest(), page)
}

func (p *Paginator) urlPage() (int, bool) {
	if p.url == nil {
		return 0, false
	}
	return p.url.Page()
}

func (p *Paginator) syncURL(page int) {
	if p.url != nil {
		p.url.SetPage(page, true)
	}
}

func (p *Paginator) notify() {
	if p.onChange != nil {
		p.onChange()
	}
}
