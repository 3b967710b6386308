package cache

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/goliatone/go-discussion-pager/forum"
	"github.com/goliatone/go-discussion-pager/internal/logging"
	"github.com/goliatone/go-discussion-pager/internal/metrics"
)

// PageCache stores per-page snapshots in a SessionStorage so a page can be
// rebuilt without a network round trip after the in-memory list state is
// gone. It is best effort: every storage or decoding failure degrades to a
// miss or a no-op and is never returned to the caller.
type PageCache struct {
	cfg     Config
	storage SessionStorage
	keys    KeySerializer
	now     func() time.Time
	random  func() float64
	logger  *slog.Logger
}

// Option customizes a PageCache.
type Option func(*PageCache)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *PageCache) { c.now = now }
}

// WithRandom replaces the source deciding when a write triggers cleanup.
func WithRandom(random func() float64) Option {
	return func(c *PageCache) { c.random = random }
}

// WithLogger sets the logger used for debug diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *PageCache) { c.logger = logger }
}

// WithKeySerializer replaces the canonical key serializer.
func WithKeySerializer(keys KeySerializer) Option {
	return func(c *PageCache) { c.keys = keys }
}

// NewPageCache validates cfg and builds a cache on top of storage.
func NewPageCache(cfg Config, storage SessionStorage, opts ...Option) (*PageCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if storage == nil {
		return nil, errors.New("cache: session storage is required")
	}

	c := &PageCache{
		cfg:     cfg,
		storage: storage,
		keys:    NewDefaultKeySerializer(cfg.Prefix),
		now:     time.Now,
		random:  rand.Float64,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the configuration in use.
func (c *PageCache) Config() Config {
	return c.cfg
}

// BuildKey returns the storage key of req at page.
func (c *PageCache) BuildKey(req Request, page int) string {
	return c.keys.SerializeKey(req, page)
}

// Save stores a snapshot of results for req at page. Empty pages are never
// stored. A quota failure triggers one cleanup and a single retry; if that
// also fails the write is dropped.
func (c *PageCache) Save(req Request, page int, results *forum.Results) {
	if results == nil {
		return
	}
	ids := forum.IDs(results.Items)
	if len(ids) == 0 {
		return
	}

	perPage := req.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	snap := PageSnapshot{
		IDs:       ids,
		Total:     results.Total,
		Timestamp: c.now().UnixMilli(),
		PerPage:   perPage,
	}
	raw, err := snap.encode()
	if err != nil {
		c.debug("encode snapshot", err)
		return
	}

	key := c.BuildKey(req, page)
	if err := c.storage.SetItem(key, raw); err != nil {
		c.debug("save snapshot", err, "key", key)
		if !errors.Is(err, ErrQuotaExceeded) {
			metrics.RecordSessionCache("dropped")
			return
		}
		c.Cleanup()
		if err := c.storage.SetItem(key, raw); err != nil {
			c.debug("save snapshot after cleanup", err, "key", key)
			metrics.RecordSessionCache("dropped")
			return
		}
	}
	metrics.RecordSessionCache("saved")

	if c.random() < c.cfg.CleanupProbability {
		c.Cleanup()
	}
}

// Restore rebuilds the page stored for req at page. It reports a miss when
// the entry is absent, malformed, empty, undated or older than the TTL
// (undated and expired entries are removed, as Cleanup does), and when any
// stored identifier cannot be resolved: partial pages are never returned.
func (c *PageCache) Restore(req Request, page int, resolver Resolver) (*forum.Results, bool) {
	if page < 1 {
		page = 1
	}
	key := c.BuildKey(req, page)
	raw, ok := c.storage.GetItem(key)
	if !ok || raw == "" {
		metrics.RecordSessionCache("miss")
		return nil, false
	}

	snap, err := decodeSnapshot(raw)
	if err != nil {
		c.debug("decode snapshot", err, "key", key)
		metrics.RecordSessionCache("miss")
		return nil, false
	}
	if len(snap.IDs) == 0 {
		metrics.RecordSessionCache("miss")
		return nil, false
	}
	if snap.Timestamp == 0 {
		c.debug("snapshot without timestamp", nil, "key", key)
		c.storage.RemoveItem(key)
		metrics.RecordSessionCache("evicted")
		return nil, false
	}
	if snap.Age(c.now()) > c.cfg.TTL {
		c.storage.RemoveItem(key)
		metrics.RecordSessionCache("expired")
		return nil, false
	}

	items := make([]*forum.Discussion, 0, len(snap.IDs))
	for _, id := range snap.IDs {
		d, ok := resolver.GetByID(id)
		if !ok || d == nil {
			c.debug("resolve snapshot id", forum.ErrNotFound, "key", key, "id", id)
			metrics.RecordSessionCache("unresolved")
			return nil, false
		}
		items = append(items, d)
	}

	perPage := snap.PerPage
	if perPage <= 0 {
		perPage = req.PerPage
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	totalPages := (snap.Total + perPage - 1) / perPage

	metrics.RecordSessionCache("hit")
	return &forum.Results{
		Items:   items,
		Total:   snap.Total,
		HasPrev: page > 1,
		HasNext: page < totalPages,
	}, true
}

// Invalidate removes the snapshot of req at page.
func (c *PageCache) Invalidate(req Request, page int) {
	c.storage.RemoveItem(c.BuildKey(req, page))
}

// Cleanup evicts snapshots older than the TTL and malformed entries, then
// the oldest entries beyond MaxEntries.
func (c *PageCache) Cleanup() {
	type entry struct {
		key string
		ts  int64
	}

	now := c.now()
	var entries []entry
	for _, key := range c.storage.Keys() {
		if !strings.HasPrefix(key, c.cfg.Prefix) {
			continue
		}
		raw, ok := c.storage.GetItem(key)
		if !ok {
			continue
		}
		snap, err := decodeSnapshot(raw)
		if err != nil || snap.Timestamp == 0 {
			c.storage.RemoveItem(key)
			metrics.RecordSessionCache("evicted")
			continue
		}
		if snap.Age(now) > c.cfg.TTL {
			c.storage.RemoveItem(key)
			metrics.RecordSessionCache("evicted")
			continue
		}
		entries = append(entries, entry{key: key, ts: snap.Timestamp})
	}

	if len(entries) <= c.cfg.MaxEntries {
		return
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ts < entries[j].ts })
	for _, e := range entries[:len(entries)-c.cfg.MaxEntries] {
		c.storage.RemoveItem(e.key)
		metrics.RecordSessionCache("evicted")
	}
}

func (c *PageCache) debug(msg string, err error, args ...any) {
	if !c.cfg.Debug {
		return
	}
	c.logger.Debug("page cache: "+msg, append([]any{"error", err}, args...)...)
}
