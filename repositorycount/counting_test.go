package repositorycount

import (
	"context"
	"errors"
	"sync"
	"testing"

	repository "github.com/goliatone/go-repository-bun"
)

type testDiscussion struct {
	ID string
}

// mockLister records calls and returns canned results
type mockLister[T any] struct {
	mu      sync.Mutex
	calls   []string
	records []T
	total   int
	err     error
}

func (m *mockLister[T]) recordCall(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, method)
}

func (m *mockLister[T]) List(ctx context.Context, criteria ...repository.SelectCriteria) ([]T, int, error) {
	m.recordCall("List")
	return m.records, m.total, m.err
}

func (m *mockLister[T]) GetByID(ctx context.Context, id string, criteria ...repository.SelectCriteria) (T, error) {
	m.recordCall("GetByID")
	var zero T
	if len(m.records) > 0 {
		return m.records[0], nil
	}
	return zero, m.err
}

func TestCountingLister_RecordsTotal(t *testing.T) {
	base := &mockLister[*testDiscussion]{
		records: []*testDiscussion{{ID: "1"}, {ID: "2"}},
		total:   45,
	}
	lister := New[*testDiscussion](base)
	ctx := WithRelay(context.Background())

	records, total, err := lister.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 2 || total != 45 {
		t.Fatalf("List() = %d records, total %d", len(records), total)
	}

	got, ok := TotalFromContext(ctx, lister.Resource())
	if !ok || got != 45 {
		t.Errorf("TotalFromContext() = %d, %v, want 45, true", got, ok)
	}
	if lister.Resource() != "test_discussion" {
		t.Errorf("Resource() = %q", lister.Resource())
	}
}

func TestCountingLister_WithoutRelay(t *testing.T) {
	var observed []int
	base := &mockLister[*testDiscussion]{total: 3}
	lister := New[*testDiscussion](base, WithResource("discussions"), WithObserver(func(resource string, total int) {
		if resource != "discussions" {
			t.Errorf("unexpected resource %q", resource)
		}
		observed = append(observed, total)
	}))

	if _, _, err := lister.List(context.Background()); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if _, ok := TotalFromContext(context.Background(), "discussions"); ok {
		t.Error("expected no total without a relay")
	}
	if len(observed) != 1 || observed[0] != 3 {
		t.Errorf("observer saw %v", observed)
	}
}

func TestCountingLister_ErrorLeavesSlot(t *testing.T) {
	boom := errors.New("boom")
	base := &mockLister[*testDiscussion]{total: 9, err: boom}
	lister := New[*testDiscussion](base)
	ctx := WithRelay(context.Background())

	if _, _, err := lister.List(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected base error, got %v", err)
	}
	if _, ok := TotalFromContext(ctx, lister.Resource()); ok {
		t.Error("expected a failed list to record nothing")
	}
}

func TestCountingLister_GetByIDPassesThrough(t *testing.T) {
	base := &mockLister[*testDiscussion]{records: []*testDiscussion{{ID: "7"}}}
	lister := New[*testDiscussion](base)

	d, err := lister.GetByID(context.Background(), "7")
	if err != nil || d.ID != "7" {
		t.Fatalf("GetByID() = %v, %v", d, err)
	}
	if len(base.calls) != 1 || base.calls[0] != "GetByID" {
		t.Errorf("unexpected calls %v", base.calls)
	}
}

func TestRelay_IsolatedPerRequest(t *testing.T) {
	a := WithRelay(context.Background())
	b := WithRelay(context.Background())

	RecordTotal(a, "discussions", 10)
	if _, ok := TotalFromContext(b, "discussions"); ok {
		t.Error("expected relays to be independent")
	}
	if WithRelay(a) != a {
		t.Error("expected WithRelay to keep an installed relay")
	}

	if total, ok := TakeTotal(a, "discussions"); !ok || total != 10 {
		t.Errorf("TakeTotal() = %d, %v", total, ok)
	}
	if _, ok := TakeTotal(a, "discussions"); ok {
		t.Error("expected TakeTotal to clear the slot")
	}
	if RecordTotal(context.Background(), "discussions", 1) {
		t.Error("expected RecordTotal without relay to report false")
	}
}

func TestToSnake(t *testing.T) {
	tests := map[string]string{
		"Discussion":       "discussion",
		"DiscussionRecord": "discussion_record",
		"HTTPServer":       "http_server",
		"Page2Result":      "page2_result",
		"Page[int]":        "page",
		"already_snake":    "already_snake",
		"":                 "",
	}
	for in, want := range tests {
		if got := toSnake(in); got != want {
			t.Errorf("toSnake(%q) = %q, want %q", in, got, want)
		}
	}
}
