package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-discussion-pager/forum"
	"github.com/goliatone/go-discussion-pager/pkg/testsupport"
)

func seeded(t *testing.T, n int) *Repository {
	t.Helper()
	db, err := Open(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo, err := Seed(context.Background(), db, testsupport.Discussions(n))
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	return repo
}

func ids(records []*Discussion) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestRepository_ListCountsWithoutWindow(t *testing.T) {
	repo := seeded(t, 45)

	records, total, err := repo.List(context.Background(), FromRequest(forum.RequestParams{Offset: 40, Limit: 20})...)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 45 {
		t.Errorf("total = %d, want 45", total)
	}
	if diff := cmp.Diff([]string{"41", "42", "43", "44", "45"}, ids(records)); diff != "" {
		t.Errorf("window mismatch (-want +got):\n%s", diff)
	}
}

func TestRepository_ListSortAndSearch(t *testing.T) {
	repo := seeded(t, 45)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   forum.RequestParams
		want  []string
		total int
	}{
		{
			name:  "latest activity first by default",
			req:   forum.RequestParams{Limit: 3},
			want:  []string{"1", "2", "3"},
			total: 45,
		},
		{
			name:  "oldest first",
			req:   forum.RequestParams{Sort: "createdAt", Limit: 3},
			want:  []string{"1", "2", "3"},
			total: 45,
		},
		{
			name:  "newest first",
			req:   forum.RequestParams{Sort: "-createdAt", Limit: 3},
			want:  []string{"45", "44", "43"},
			total: 45,
		},
		{
			name:  "search narrows the total",
			req:   forum.RequestParams{Filter: map[string]any{"q": "Discussion 4"}, Limit: 3},
			want:  []string{"4", "40", "41"},
			total: 7,
		},
		{
			name:  "unknown sort falls back",
			req:   forum.RequestParams{Sort: "bogus", Limit: 2},
			want:  []string{"1", "2"},
			total: 45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, total, err := repo.List(ctx, FromRequest(tt.req)...)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if total != tt.total {
				t.Errorf("total = %d, want %d", total, tt.total)
			}
			if diff := cmp.Diff(tt.want, ids(records)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRepository_GetByID(t *testing.T) {
	repo := seeded(t, 3)
	ctx := context.Background()

	d, err := repo.GetByID(ctx, "2")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	want := testsupport.Discussions(3)[1]
	if diff := cmp.Diff(want, d.Forum()); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, forum.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRepository_CustomCriteria(t *testing.T) {
	repo := seeded(t, 10)
	onlyEven := func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("CAST(d.id AS INTEGER) % 2 = 0")
	}

	records, total, err := repo.List(context.Background(), onlyEven, SortBy("createdAt"), Window(0, 2))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if diff := cmp.Diff([]string{"2", "4"}, ids(records)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open("oracle", "dsn"); err == nil {
		t.Error("expected an error for an unknown driver")
	}
}

func TestSampleDiscussions(t *testing.T) {
	newest := testsupport.Epoch
	items := SampleDiscussions(30, newest)
	if len(items) != 30 || !items[0].LastPostedAt.Equal(newest) {
		t.Fatalf("unexpected sample %+v", items[0])
	}
	for i := 1; i < len(items); i++ {
		if !items[i].LastPostedAt.Before(items[i-1].LastPostedAt) {
			t.Fatalf("expected activity to decrease at %d", i)
		}
	}
}
