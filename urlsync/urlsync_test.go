package urlsync

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWithPage(t *testing.T) {
	tests := []struct {
		name   string
		search string
		page   int
		want   string
	}{
		{"append to empty", "", 3, "?page=3"},
		{"append after query", "?q=hello+world", 2, "?q=hello+world&page=2"},
		{"replace keeps encoding", "?q=hello+world&page=2", 3, "?q=hello+world&page=3"},
		{"replace percent encoding", "?q=hello%20world&page=2&sort=top", 5, "?q=hello%20world&page=5&sort=top"},
		{"replace leading", "?page=2&q=x", 4, "?page=4&q=x"},
		{"remove only param", "?page=2", 1, ""},
		{"remove trailing", "?q=x&page=2", 1, "?q=x"},
		{"remove leading", "?page=2&q=x", 1, "?q=x"},
		{"remove middle", "?a=1&page=2&b=2", 1, "?a=1&b=2"},
		{"first page without param", "?q=x", 1, "?q=x"},
		{"zero removes", "?page=9", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WithPage(tt.search, tt.page); got != tt.want {
				t.Errorf("WithPage(%q, %d) = %q, want %q", tt.search, tt.page, got, tt.want)
			}
		})
	}
}

func TestPageFromQuery(t *testing.T) {
	tests := []struct {
		search string
		want   int
		ok     bool
	}{
		{"", 0, false},
		{"?page=3", 3, true},
		{"q=x&page=12", 12, true},
		{"?page=0", 0, false},
		{"?page=-2", 0, false},
		{"?page=abc", 0, false},
		{"?pages=2", 0, false},
	}

	for _, tt := range tests {
		got, ok := PageFromQuery(tt.search)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PageFromQuery(%q) = %d, %v; want %d, %v", tt.search, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseLocation(t *testing.T) {
	got := ParseLocation("/t/general?q=a+b&page=2#top")
	want := Location{Path: "/t/general", Search: "?q=a+b&page=2", Hash: "#top"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseLocation() mismatch (-want +got):\n%s", diff)
	}
	if got.String() != "/t/general?q=a+b&page=2#top" {
		t.Errorf("String() = %q", got.String())
	}
}

func TestSyncer_HistoryFallback(t *testing.T) {
	history := NewMemoryHistory("/?q=hello+world&page=2#list")
	s := NewSyncer(history)

	if page, ok := s.Page(); !ok || page != 2 {
		t.Fatalf("Page() = %d, %v; want 2, true", page, ok)
	}

	s.SetPage(3, true)
	s.SetPage(1, false)

	want := []string{"/?q=hello+world&page=3#list", "/?q=hello+world#list"}
	if diff := cmp.Diff(want, history.Entries()); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	if s.RouteKey() != "/?q=hello+world#list" {
		t.Errorf("RouteKey() = %q", s.RouteKey())
	}
}

type recordingRouter struct {
	current string
	calls   []string
	err     error
}

func (r *recordingRouter) Current() string { return r.current }

func (r *recordingRouter) Set(url string, replace bool) error {
	if r.err != nil {
		return r.err
	}
	r.current = url
	mode := "push"
	if replace {
		mode = "replace"
	}
	r.calls = append(r.calls, mode+" "+url)
	return nil
}

func TestSyncer_RouterTakesPrecedence(t *testing.T) {
	history := NewMemoryHistory("/ignored")
	router := &recordingRouter{current: "/all?sort=top"}
	s := NewSyncer(history, WithRouter(router))

	s.SetPage(4, true)

	if diff := cmp.Diff([]string{"replace /all?sort=top&page=4"}, router.calls); diff != "" {
		t.Errorf("router calls mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/ignored"}, history.Entries()); diff != "" {
		t.Errorf("history should be untouched (-want +got):\n%s", diff)
	}
	if s.RouteKey() != "/all?sort=top&page=4" {
		t.Errorf("RouteKey() = %q", s.RouteKey())
	}
}

func TestSyncer_RouterFailureIsSwallowed(t *testing.T) {
	router := &recordingRouter{current: "/", err: errors.New("navigation aborted")}
	s := NewSyncer(nil, WithRouter(router))

	s.SetPage(2, true)

	if router.current != "/" {
		t.Errorf("expected location unchanged, got %q", router.current)
	}
}

func TestMemoryHistory_Back(t *testing.T) {
	h := NewMemoryHistory("/")
	_ = h.PushState("/d/1")
	h.Back()
	h.Back()
	if diff := cmp.Diff([]string{"/"}, h.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}
