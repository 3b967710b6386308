package cache

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config exposes the session page cache options.
type Config struct {
	// Prefix namespaces snapshot keys inside the shared session storage.
	Prefix string

	// TTL is the age after which a snapshot is treated as a miss and evicted.
	TTL time.Duration

	// MaxEntries caps the number of snapshots kept after cleanup; the oldest
	// beyond the cap are evicted.
	MaxEntries int

	// CleanupProbability is the chance that a write triggers a cleanup pass.
	CleanupProbability float64

	// Debug logs swallowed cache failures at debug level.
	Debug bool
}

// DefaultConfig returns the stock cache configuration: 30 minute TTL,
// 50 entries, cleanup on roughly one write in ten.
func DefaultConfig() Config {
	return Config{
		Prefix:             DefaultPrefix,
		TTL:                30 * time.Minute,
		MaxEntries:         50,
		CleanupProbability: 0.1,
	}
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Prefix, validation.Required),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.MaxEntries, validation.Required, validation.Min(1)),
		validation.Field(&c.CleanupProbability, validation.Min(0.0), validation.Max(1.0)),
	)
	if err != nil {
		return fmt.Errorf("cache: invalid config: %w", err)
	}
	return nil
}
