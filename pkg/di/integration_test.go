package di

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-discussion-pager/forum"
	"github.com/goliatone/go-discussion-pager/pagination"
	"github.com/goliatone/go-discussion-pager/pkg/testsupport"
)

func pageIDs(p *pagination.Paginator) []string {
	page := p.CurrentPage()
	if page == nil {
		return nil
	}
	return forum.IDs(page.Items)
}

func TestIntegration_BackFromDiscussionRestoresPage(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatal(err)
	}
	store := testsupport.NewFakeStore(testsupport.Discussions(45))
	ctx := context.Background()

	list := container.NewPaginator(store, pagination.WithCacheHitDelay(0))
	if err := list.RefreshParams(ctx, forum.Params{}, 1); err != nil {
		t.Fatal(err)
	}
	if err := list.ToPage(ctx, 2); err != nil {
		t.Fatal(err)
	}
	want := pageIDs(list)
	calls := store.CallCount()

	container.OpenDiscussion("/d/25-discussion-25")
	if got := container.History().Location().Path; got != "/d/25-discussion-25" {
		t.Fatalf("location = %s", got)
	}
	container.Back()

	// the list view is rebuilt on return
	restored := container.NewPaginator(store, pagination.WithCacheHitDelay(0))
	if err := restored.RefreshParams(ctx, forum.Params{}, 1); err != nil {
		t.Fatal(err)
	}

	if store.CallCount() != calls {
		t.Errorf("expected no fetch on return, got %d", store.CallCount()-calls)
	}
	if restored.Page() != 2 {
		t.Errorf("Page() = %d, want 2", restored.Page())
	}
	if diff := cmp.Diff(want, pageIDs(restored)); diff != "" {
		t.Errorf("restored page mismatch (-want +got):\n%s", diff)
	}
	if !restored.TakeSilentRestore() {
		t.Error("expected a silent restore")
	}
}

func TestIntegration_FilterChangeStartsOver(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatal(err)
	}
	store := testsupport.NewFakeStore(testsupport.Discussions(45))
	ctx := context.Background()

	list := container.NewPaginator(store, pagination.WithCacheHitDelay(0))
	if err := list.RefreshParams(ctx, forum.Params{}, 1); err != nil {
		t.Fatal(err)
	}
	if err := list.LastPage(ctx); err != nil {
		t.Fatal(err)
	}

	if err := list.RefreshParams(ctx, forum.Params{Q: "discussion 4"}, 1); err != nil {
		t.Fatal(err)
	}
	if list.Page() != 1 || list.Total() != 7 || list.TotalPages() != 1 {
		t.Errorf("unexpected state %+v", list.State())
	}
	if got := container.History().Location().String(); got != "/" {
		t.Errorf("location = %s, want /", got)
	}

	calls := store.Calls()
	last := calls[len(calls)-1]
	if last.Filter["q"] != "discussion 4" || last.Offset != 0 {
		t.Errorf("unexpected request %+v", last)
	}
}

func TestIntegration_CachingDisabledSkipsSession(t *testing.T) {
	config := DefaultConfig()
	config.Settings.CacheDiscussions = false
	container, err := NewContainer(config)
	if err != nil {
		t.Fatal(err)
	}
	store := testsupport.NewFakeStore(testsupport.Discussions(45))
	ctx := context.Background()

	list := container.NewPaginator(store)
	if err := list.RefreshParams(ctx, forum.Params{}, 1); err != nil {
		t.Fatal(err)
	}
	if err := list.ToPage(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := list.ToPage(ctx, 1); err != nil {
		t.Fatal(err)
	}

	if store.CallCount() != 3 {
		t.Errorf("expected every page to be fetched, got %d calls", store.CallCount())
	}
	if len(container.Storage().Keys()) != 0 {
		t.Error("expected no snapshots with caching disabled")
	}
}
