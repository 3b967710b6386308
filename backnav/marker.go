// Package backnav remembers which list route the user left when opening a
// discussion, so that returning to that route restores the page silently
// instead of treating the return as a fresh parameter change.
package backnav

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/goliatone/go-discussion-pager/cache"
	"github.com/goliatone/go-discussion-pager/internal/logging"
)

const (
	// Key is the session storage key of the pending marker.
	Key = "pager:dl:pendingBack"

	// Window is how long a recorded marker stays consumable.
	Window = 10 * time.Minute

	detailPathSegment = "/d/"
)

type record struct {
	T    int64  `json:"t"`
	Base string `json:"base"`
}

// Marker records and consumes the pending back navigation marker.
type Marker struct {
	storage cache.SessionStorage
	now     func() time.Time
	logger  *slog.Logger
}

// Option customizes a Marker.
type Option func(*Marker)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(m *Marker) { m.now = now }
}

// WithLogger sets the logger used for swallowed failures.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Marker) { m.logger = logger }
}

// NewMarker creates a Marker persisted in storage.
func NewMarker(storage cache.SessionStorage, opts ...Option) *Marker {
	m := &Marker{storage: storage, now: time.Now, logger: logging.Discard()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Record stores routeKey as the route to come back to.
func (m *Marker) Record(routeKey string) {
	raw, err := json.Marshal(record{T: m.now().UnixMilli(), Base: routeKey})
	if err != nil {
		m.logger.Debug("back marker: encode failed", "error", err)
		return
	}
	if err := m.storage.SetItem(Key, string(raw)); err != nil {
		m.logger.Debug("back marker: store failed", "error", err)
	}
}

// OnClick records routeKey when href points at a discussion detail view.
// It reports whether a marker was written.
func (m *Marker) OnClick(href, routeKey string) bool {
	if !strings.Contains(href, detailPathSegment) {
		return false
	}
	m.Record(routeKey)
	return true
}

// Consume reports whether a marker for routeKey was recorded within Window.
// A matching marker is deleted so it is honoured once; a stale or foreign
// marker is left in place.
func (m *Marker) Consume(routeKey string) bool {
	raw, ok := m.storage.GetItem(Key)
	if !ok || raw == "" {
		return false
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		m.logger.Debug("back marker: decode failed", "error", err)
		return false
	}

	elapsed := m.now().Sub(time.UnixMilli(rec.T))
	if rec.Base != routeKey || elapsed >= Window {
		return false
	}
	m.storage.RemoveItem(Key)
	return true
}
