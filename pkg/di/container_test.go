package di

import (
	"testing"
	"time"

	"github.com/goliatone/go-discussion-pager/cache"
	"github.com/goliatone/go-discussion-pager/forum"
	"github.com/goliatone/go-discussion-pager/internal/cacheinfra"
	"github.com/goliatone/go-discussion-pager/pkg/testsupport"
	"github.com/goliatone/go-discussion-pager/settings"
)

func TestNewContainer(t *testing.T) {
	config := DefaultConfig()
	config.Storage = cacheinfra.Config{
		Capacity:           256,
		NumShards:          4,
		TTL:                time.Hour,
		EvictionPercentage: 10,
		Quota:              64,
	}
	config.StartURL = "/t/general"

	container, err := NewContainer(config)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	if container.Storage() == nil || container.PageCache() == nil || container.Marker() == nil {
		t.Fatal("expected storage, page cache and marker to be built")
	}
	if got := container.History().Location().String(); got != "/t/general" {
		t.Errorf("start location = %q", got)
	}

	stored := container.Config()
	if stored.Storage.Quota != 64 || stored.PageCache.TTL != 30*time.Minute {
		t.Errorf("unexpected stored config %+v", stored)
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	if got := container.URL().Path(); got != "/" {
		t.Errorf("Path() = %q, want /", got)
	}
}

func TestNewContainerInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"storage capacity", func(c *Config) { c.Storage.Capacity = 0 }},
		{"page cache ttl", func(c *Config) { c.PageCache.TTL = 0 }},
		{"settings page size", func(c *Config) { c.Settings.PerPage = 0 }},
		{"settings position", func(c *Config) { c.Settings.Position = "sideways" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)
			if _, err := NewContainer(config); err == nil {
				t.Error("NewContainer() should fail with invalid config")
			}
		})
	}
}

func TestContainerSingletonBehavior(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	if container.PageCache() != container.PageCache() {
		t.Error("PageCache() should return the same instance")
	}
	if container.Storage() != container.Storage() {
		t.Error("Storage() should return the same instance")
	}

	store := testsupport.NewFakeStore(testsupport.Discussions(5))
	a := container.NewPaginator(store)
	b := container.NewPaginator(store)
	if a == b {
		t.Error("NewPaginator() should build a fresh controller every time")
	}
}

func TestContainerPageCacheUsesStorage(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	req := cache.Request{Base: "/", PerPage: 20}
	items := testsupport.Discussions(2)
	container.PageCache().Save(req, 1, &forum.Results{Items: items, Total: 2})

	if _, ok := container.Storage().GetItem(container.PageCache().BuildKey(req, 1)); !ok {
		t.Error("expected the snapshot in the shared storage")
	}
}

func TestContainerToolbarPosition(t *testing.T) {
	config := DefaultConfig()
	config.Settings.Position = settings.PositionBoth
	container, err := NewContainer(config)
	if err != nil {
		t.Fatal(err)
	}

	tb := container.NewToolbar(container.NewPaginator(testsupport.NewFakeStore(nil)))
	if !tb.ShowAbove() || !tb.ShowUnder() {
		t.Error("expected toolbar on both sides")
	}
}
