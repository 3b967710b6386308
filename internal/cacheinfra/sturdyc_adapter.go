package cacheinfra

import (
	"sort"
	"sync"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/goliatone/go-discussion-pager/cache"
)

// Config holds the configuration of the sturdyc backed session storage.
type Config struct {
	// Capacity is the number of entries sturdyc is sized for.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Must be greater than 0 and not above Capacity. Default: 8
	NumShards int

	// TTL bounds the lifetime of a whole browsing session; the page cache
	// applies its own, shorter TTL on top.
	TTL time.Duration

	// EvictionPercentage is what sturdyc evicts if Capacity is ever reached.
	// Must be between 1-100.
	EvictionPercentage int

	// Quota is the maximum number of keys accepted before writes of new keys
	// fail with cache.ErrQuotaExceeded. Must be between 1 and Capacity.
	Quota int

	// EvictionInterval sets how often sturdyc sweeps expired entries.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config suitable for a single user session.
func DefaultConfig() Config {
	return Config{
		Capacity:           1024,
		NumShards:          8,
		TTL:                24 * time.Hour,
		EvictionPercentage: 10,
		Quota:              512,
	}
}

// ToSturdycOptions converts the optional parts of Config to sturdyc options.
// Capacity, NumShards, TTL and EvictionPercentage go to sturdyc.New directly.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}
	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 || c.NumShards > c.Capacity {
		return &ConfigError{Field: "NumShards", Message: "must be between 1 and Capacity"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	if c.Quota <= 0 || c.Quota > c.Capacity {
		return &ConfigError{Field: "Quota", Message: "must be between 1 and Capacity"}
	}
	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// SturdycStorage is a cache.SessionStorage kept in a sturdyc client. It
// behaves like a browser's sessionStorage: string values, a bounded number
// of keys and last-writer-wins semantics across goroutines.
type SturdycStorage struct {
	mu     sync.Mutex
	client *sturdyc.Client[string]
	quota  int
}

var _ cache.SessionStorage = (*SturdycStorage)(nil)

// NewSturdycStorage validates cfg and creates the storage.
func NewSturdycStorage(cfg Config) (*SturdycStorage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[string](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)
	return &SturdycStorage{client: client, quota: cfg.Quota}, nil
}

// GetItem implements cache.SessionStorage.
func (s *SturdycStorage) GetItem(key string) (string, bool) {
	return s.client.Get(key)
}

// SetItem implements cache.SessionStorage. Overwrites always succeed; new
// keys beyond the quota fail with cache.ErrQuotaExceeded.
func (s *SturdycStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.client.Get(key); !exists && len(s.client.ScanKeys()) >= s.quota {
		return cache.ErrQuotaExceeded
	}
	s.client.Set(key, value)
	return nil
}

// RemoveItem implements cache.SessionStorage.
func (s *SturdycStorage) RemoveItem(key string) {
	s.client.Delete(key)
}

// Keys implements cache.SessionStorage. Keys are returned sorted.
func (s *SturdycStorage) Keys() []string {
	keys := s.client.ScanKeys()
	sort.Strings(keys)
	return keys
}
