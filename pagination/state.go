package pagination

import (
	"context"

	"github.com/goliatone/go-discussion-pager/forum"
)

// ListState is the behaviour of a discussion list. BaseState implements the
// plain load-more list; Paginator decorates it with numbered pages.
type ListState interface {
	// RefreshParams applies new list parameters and reloads.
	RefreshParams(ctx context.Context, params forum.Params, page int) error
	// Refresh reloads the list starting at page.
	Refresh(ctx context.Context, page int) error
	// LoadPage fetches page without changing the rendered state.
	LoadPage(ctx context.Context, page int) (*forum.Results, error)
	// ParseResults folds a fetched page into the rendered state.
	ParseResults(page int, results *forum.Results)
	// AddDiscussion inserts a discussion announced in real time.
	AddDiscussion(d *forum.Discussion)
	// DeleteDiscussion removes a discussion from the list.
	DeleteDiscussion(d *forum.Discussion)
	// Clear drops all loaded state.
	Clear()
}

// Page is one rendered page of the list.
type Page struct {
	Number  int
	Items   []*forum.Discussion
	HasNext bool
	HasPrev bool
}

func newPage(number int, results *forum.Results) *Page {
	return &Page{
		Number:  number,
		Items:   append([]*forum.Discussion(nil), results.Items...),
		HasNext: results.HasNext,
		HasPrev: results.HasPrev,
	}
}

func (p *Page) clone() *Page {
	cp := *p
	cp.Items = append([]*forum.Discussion(nil), p.Items...)
	return &cp
}

// insertPage adds p to pages keeping them ordered by number. An existing
// page with the same number gets its content replaced instead.
func insertPage(pages []*Page, p *Page) ([]*Page, *Page) {
	for i, existing := range pages {
		if existing.Number == p.Number {
			existing.Items = p.Items
			existing.HasNext = p.HasNext
			existing.HasPrev = p.HasPrev
			return pages, existing
		}
		if existing.Number > p.Number {
			pages = append(pages, nil)
			copy(pages[i+1:], pages[i:])
			pages[i] = p
			return pages, p
		}
	}
	return append(pages, p), p
}

func removePage(pages []*Page, number int) []*Page {
	for i, p := range pages {
		if p.Number == number {
			return append(pages[:i], pages[i+1:]...)
		}
	}
	return pages
}

func findPage(pages []*Page, number int) *Page {
	for _, p := range pages {
		if p.Number == number {
			return p
		}
	}
	return nil
}

// Window maps a page number to the offset and limit of its request.
type Window func(page int) (offset, limit int)

// FixedWindow slices the list into pages of size items.
func FixedWindow(size int) Window {
	return func(page int) (int, int) {
		if page < 1 {
			page = 1
		}
		return size * (page - 1), size
	}
}

// LoadMoreWindow is the load-more layout: a first load of initial items
// followed by loads of more items each.
func LoadMoreWindow(initial, more int) Window {
	return func(page int) (int, int) {
		offset := initial*min(page-1, 1) + more*max(page-2, 0)
		if offset <= 0 {
			return 0, initial
		}
		return offset, more
	}
}

// Status is the phase of the paginator state machine.
type Status int

const (
	StatusCold Status = iota
	StatusLoadingInitial
	StatusReady
	StatusLoadingPrev
	StatusLoadingNext
	StatusRefreshing
)

func (s Status) String() string {
	switch s {
	case StatusCold:
		return "cold"
	case StatusLoadingInitial:
		return "loading-initial"
	case StatusReady:
		return "ready"
	case StatusLoadingPrev:
		return "loading-prev"
	case StatusLoadingNext:
		return "loading-next"
	case StatusRefreshing:
		return "refreshing"
	default:
		return "unknown"
	}
}

// Flags are the loading indicators read by the view.
type Flags struct {
	InitialLoading bool
	LoadingPrev    bool
	LoadingNext    bool
	IsRefreshing   bool
}

// Busy reports whether any load is in progress.
func (f Flags) Busy() bool {
	return f.InitialLoading || f.LoadingPrev || f.LoadingNext || f.IsRefreshing
}

// Sizes are the page sizes of both modes.
type Sizes struct {
	PerPage      int
	PerIndexInit int
	PerLoadMore  int
}

// PageState is the pagination state owned by a Paginator.
type PageState struct {
	Current    int
	TotalPages int
	Total      int
	Sizes
	Flags

	// NeedsReload is set when a deletion moved the list back to a page the
	// running cache does not hold. ReloadIfStale fetches it.
	NeedsReload bool

	// silentRestore is set when the rendered page came from the session
	// cache. Read-then-clear by the next navigation or TakeSilentRestore.
	silentRestore bool
	// bypassSessionOnce skips the session cache for the next Refresh only.
	bypassSessionOnce bool
}

func totalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}
