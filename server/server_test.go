package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-discussion-pager/forum"
	"github.com/goliatone/go-discussion-pager/internal/logging"
	"github.com/goliatone/go-discussion-pager/internal/store"
	"github.com/goliatone/go-discussion-pager/pkg/testsupport"
	"github.com/goliatone/go-discussion-pager/settings"
)

func newTestServer(t *testing.T, n int, s settings.Settings) *httptest.Server {
	t.Helper()
	db, err := store.Open(store.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo, err := store.Seed(context.Background(), db, testsupport.Discussions(n))
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	srv := httptest.NewServer(New(repo, s, WithLogger(logging.Discard())).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getDocument(t *testing.T, url string) (*forum.Document, *http.Response) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var doc forum.Document
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return &doc, resp
}

func TestServer_ListRelaysTotal(t *testing.T) {
	srv := newTestServer(t, 45, settings.Default())

	doc, resp := getDocument(t, srv.URL+"/api/discussions?page[offset]=40")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if total, ok := doc.Total(); !ok || total != 45 {
		t.Errorf("Total() = %d, %v, want 45", total, ok)
	}
	res := doc.Results()
	if diff := cmp.Diff([]string{"41", "42", "43", "44", "45"}, forum.IDs(res.Items)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if res.HasNext || !res.HasPrev {
		t.Errorf("links = %+v", doc.Links)
	}
	if !strings.Contains(doc.Links.Prev, "page%5Boffset%5D=20") {
		t.Errorf("prev link %q", doc.Links.Prev)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestServer_ListSearchAndSort(t *testing.T) {
	srv := newTestServer(t, 45, settings.Default())

	doc, _ := getDocument(t, srv.URL+"/api/discussions?filter[q]=discussion+4&sort=-createdAt&page[limit]=3")
	if total, _ := doc.Total(); total != 7 {
		t.Errorf("total = %d, want 7", total)
	}
	if diff := cmp.Diff([]string{"45", "44", "43"}, forum.IDs(doc.Results().Items)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if doc.Links.Next == "" {
		t.Error("expected a next link")
	}
}

func TestServer_PageLimitFromSettings(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*settings.Settings)
		query string
		want  int
	}{
		{
			name:  "numbered page size",
			mod:   func(s *settings.Settings) { s.PerPage = 10 },
			query: "",
			want:  10,
		},
		{
			name:  "initial load size when pagination is off",
			mod:   func(s *settings.Settings) { s.PaginationOnLoading = false; s.PerIndexInit = 15 },
			query: "",
			want:  15,
		},
		{
			name:  "explicit limit wins",
			mod:   func(s *settings.Settings) { s.PerPage = 10 },
			query: "?page[limit]=5",
			want:  5,
		},
		{
			name:  "default size",
			mod:   func(*settings.Settings) {},
			query: "",
			want:  20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings.Default()
			tt.mod(&s)
			srv := newTestServer(t, 45, s)

			doc, _ := getDocument(t, srv.URL+"/api/discussions"+tt.query)
			if got := len(doc.Data); got != tt.want {
				t.Errorf("items = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestServer_GetDiscussion(t *testing.T) {
	srv := newTestServer(t, 3, settings.Default())

	resp, err := http.Get(srv.URL + "/api/discussions/2")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var doc singleDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Data.ID != "2" || doc.Data.Attributes.Title != "Discussion 2" {
		t.Errorf("unexpected resource %+v", doc.Data)
	}

	missing, err := http.Get(srv.URL + "/api/discussions/404")
	if err != nil {
		t.Fatal(err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", missing.StatusCode)
	}
}

func TestServer_BadRequestAndHealth(t *testing.T) {
	srv := newTestServer(t, 1, settings.Default())

	_, resp := getDocument(t, srv.URL+"/api/discussions?page[offset]=-3")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	for _, path := range []string{"/healthz", "/metrics"} {
		r, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		r.Body.Close()
		if r.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", path, r.StatusCode)
		}
	}
}
