package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-discussion-pager/backnav"
	"github.com/goliatone/go-discussion-pager/cache"
	"github.com/goliatone/go-discussion-pager/forum"
	"github.com/goliatone/go-discussion-pager/internal/cacheinfra"
	"github.com/goliatone/go-discussion-pager/internal/logging"
	"github.com/goliatone/go-discussion-pager/pagination"
	"github.com/goliatone/go-discussion-pager/repositorycount"
	"github.com/goliatone/go-discussion-pager/settings"
	"github.com/goliatone/go-discussion-pager/toolbar"
	"github.com/goliatone/go-discussion-pager/urlsync"
)

// Config gathers everything the container needs to build a list client.
type Config struct {
	Settings    settings.Settings
	Preferences settings.Preferences
	Storage     cacheinfra.Config
	PageCache   cache.Config
	// StartURL is the first entry of the in-process history.
	StartURL string
	Logger   *slog.Logger
}

// DefaultConfig returns stock settings over a sturdyc session storage,
// starting at the forum index.
func DefaultConfig() Config {
	return Config{
		Settings:    settings.Default(),
		Preferences: settings.DefaultPreferences(),
		Storage:     cacheinfra.DefaultConfig(),
		PageCache:   cache.DefaultConfig(),
		StartURL:    "/",
	}
}

// Container provides dependency injection for the list client. It owns the
// session scoped singletons (storage, page cache, history, back marker)
// that must outlive any single Paginator, so a list torn down and rebuilt
// within the same session finds its snapshots again.
type Container struct {
	config    Config
	logger    *slog.Logger
	storage   *cacheinfra.SturdycStorage
	pageCache *cache.PageCache
	history   *urlsync.MemoryHistory
	url       *urlsync.Syncer
	marker    *backnav.Marker
}

// NewContainer creates a container from config. Invalid settings or cache
// configuration are reported before anything is built.
func NewContainer(config Config) (*Container, error) {
	if err := config.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("di: settings: %w", err)
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	storage, err := cacheinfra.NewSturdycStorage(config.Storage)
	if err != nil {
		return nil, err
	}

	config.PageCache.Debug = config.PageCache.Debug || logger.Enabled(context.Background(), slog.LevelDebug)
	pageCache, err := cache.NewPageCache(config.PageCache, storage, cache.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	start := config.StartURL
	if start == "" {
		start = "/"
	}
	history := urlsync.NewMemoryHistory(start)

	return &Container{
		config:    config,
		logger:    logger,
		storage:   storage,
		pageCache: pageCache,
		history:   history,
		url:       urlsync.NewSyncer(history, urlsync.WithLogger(logger)),
		marker:    backnav.NewMarker(storage, backnav.WithLogger(logger)),
	}, nil
}

// NewContainerWithDefaults creates a container using DefaultConfig.
func NewContainerWithDefaults() (*Container, error) {
	return NewContainer(DefaultConfig())
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() Config {
	return c.config
}

// Storage returns the session storage singleton.
func (c *Container) Storage() cache.SessionStorage {
	return c.storage
}

// PageCache returns the session page cache singleton.
func (c *Container) PageCache() *cache.PageCache {
	return c.pageCache
}

// History returns the in-process history.
func (c *Container) History() *urlsync.MemoryHistory {
	return c.history
}

// URL returns the URL syncer over History.
func (c *Container) URL() *urlsync.Syncer {
	return c.url
}

// Marker returns the back navigation marker.
func (c *Container) Marker() *backnav.Marker {
	return c.marker
}

// NewPaginator builds a list controller over store wired to the container's
// singletons. Extra options are applied last.
func (c *Container) NewPaginator(store forum.Store, opts ...pagination.Option) *pagination.Paginator {
	base := []pagination.Option{
		pagination.WithPreferences(c.config.Preferences),
		pagination.WithURL(c.url),
		pagination.WithBackMarker(c.marker),
		pagination.WithLogger(c.logger),
	}
	if c.config.Settings.CacheDiscussions {
		base = append(base, pagination.WithSessionCache(c.pageCache))
	}
	return pagination.New(store, c.config.Settings, append(base, opts...)...)
}

// NewToolbar builds the toolbar of p positioned per the settings.
func (c *Container) NewToolbar(p *pagination.Paginator) *toolbar.Toolbar {
	return toolbar.New(p, c.config.Settings.Position)
}

// OpenDiscussion follows a link from the list: detail links record the
// current route as the one to come back to, then the history moves on.
func (c *Container) OpenDiscussion(href string) {
	c.marker.OnClick(href, c.url.RouteKey())
	if err := c.history.PushState(href); err != nil {
		c.logger.Debug("open discussion: push failed", "error", err)
	}
}

// Back returns to the previous history entry.
func (c *Container) Back() {
	c.history.Back()
}

// NewCountingLister wraps a server side lister so list totals reach the
// response serializer.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
// Example: NewCountingLister[*store.Discussion](repo)
func NewCountingLister[T any](base repositorycount.Lister[T], opts ...repositorycount.Option) *repositorycount.CountingLister[T] {
	return repositorycount.New(base, opts...)
}
