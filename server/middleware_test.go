package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-discussion-pager/repositorycount"
	"github.com/goliatone/go-discussion-pager/settings"
)

func TestPageLimit_RewritesQuery(t *testing.T) {
	s := settings.Default()
	s.PerPage = 30

	var seen string
	h := PageLimit(s)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.URL.Query().Get(PageLimitParam)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/discussions?sort=top", nil))
	if seen != "30" {
		t.Errorf("page[limit] = %q, want 30", seen)
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/discussions?page[limit]=20", nil))
	if seen != "20" {
		t.Errorf("page[limit] = %q, want explicit 20 kept", seen)
	}
}

func TestRequestID_PropagatesHeader(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "abc" || rec.Header().Get(RequestIDHeader) != "abc" {
		t.Errorf("request id = %q, header = %q", seen, rec.Header().Get(RequestIDHeader))
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if len(seen) != 36 {
		t.Errorf("expected a generated uuid, got %q", seen)
	}
}

func TestCountRelay_InstallsSlot(t *testing.T) {
	h := CountRelay(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !repositorycount.RecordTotal(r.Context(), "discussions", 1) {
			t.Error("expected a relay in the request context")
		}
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestStatusRecorder(t *testing.T) {
	rec := wrap(httptest.NewRecorder())
	if wrap(rec) != rec {
		t.Error("expected wrap to reuse a recorder")
	}
	rec.WriteHeader(http.StatusTeapot)
	rec.WriteHeader(http.StatusOK)
	_, _ = rec.Write([]byte("hello"))
	if rec.status != http.StatusTeapot || rec.bytes != 5 {
		t.Errorf("status = %d, bytes = %d", rec.status, rec.bytes)
	}
}
