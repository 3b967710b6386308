package forum

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a record is not known to the store.
var ErrNotFound = errors.New("forum: record not found")

// Store fetches discussion windows and deduplicates records by id.
// It is the only path the list state uses to reach the network.
type Store interface {
	// Find loads one window of the list described by req.
	Find(ctx context.Context, req RequestParams) (*Results, error)
	// GetByID resolves a record previously loaded in this process.
	GetByID(id string) (*Discussion, bool)
	// PreloadedDocument hands out the server-rendered first page once.
	PreloadedDocument() (*Results, bool)
}
