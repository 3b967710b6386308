package pagination

import "context"

type navKind int

const (
	navJump navKind = iota
	navPrev
	navNext
)

// PrevPage shows the page before the current one.
func (p *Paginator) PrevPage(ctx context.Context) error {
	return p.navigate(ctx, p.Page()-1, navPrev)
}

// NextPage shows the page after the current one.
func (p *Paginator) NextPage(ctx context.Context) error {
	return p.navigate(ctx, p.Page()+1, navNext)
}

// FirstPage shows page one.
func (p *Paginator) FirstPage(ctx context.Context) error {
	return p.navigate(ctx, 1, navJump)
}

// LastPage shows the last page.
func (p *Paginator) LastPage(ctx context.Context) error {
	return p.navigate(ctx, p.TotalPages(), navJump)
}

// ToPage shows page n. Targets outside [1, TotalPages], the current page
// and calls made while a load is in progress are ignored.
func (p *Paginator) ToPage(ctx context.Context, n int) error {
	return p.navigate(ctx, n, navJump)
}

func (p *Paginator) navigate(ctx context.Context, target int, kind navKind) error {
	if !p.paginate {
		return nil
	}

	p.mu.Lock()
	if p.state.Busy() || target == p.state.Current || target < 1 || target > p.state.TotalPages {
		p.mu.Unlock()
		return nil
	}
	switch kind {
	case navPrev:
		p.state.LoadingPrev = true
		p.status = StatusLoadingPrev
	case navNext:
		p.state.LoadingNext = true
		p.status = StatusLoadingNext
	default:
		p.state.InitialLoading = true
		p.status = StatusLoadingInitial
	}
	p.mu.Unlock()
	p.notify()

	results, err := p.LoadPage(ctx, target)

	p.mu.Lock()
	switch kind {
	case navPrev:
		p.state.LoadingPrev = false
	case navNext:
		p.state.LoadingNext = false
	default:
		p.state.InitialLoading = false
	}
	if err != nil {
		p.status = p.settledStatusLocked()
		p.mu.Unlock()
		p.logger.Debug("pagination: navigation failed", "page", target, "error", err)
		p.notify()
		return err
	}
	p.status = StatusReady
	p.state.silentRestore = false
	p.mu.Unlock()

	p.ParseResults(target, results)
	p.syncURL(target)
	p.ScrollToTop()
	return nil
}

// PageList returns the page numbers shown as buttons: a window around the
// current page clamped to [1, TotalPages].
func (p *Paginator) PageList() []int {
	p.mu.Lock()
	defer p.mu.Unlock()

	current := max(p.state.Current, 1)
	left := max(current-p.leftEdges, 1)
	right := min(current+p.rightEdges, p.state.TotalPages)

	pages := make([]int, 0, max(right-left+1, 0))
	for i := left; i <= right; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ScrollToTop moves the viewport back to the top of the list.
func (p *Paginator) ScrollToTop() {
	if p.viewport != nil {
		p.viewport.ScrollToTop()
	}
}
