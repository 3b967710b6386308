package cache

import (
	"errors"

	"github.com/goliatone/go-discussion-pager/forum"
)

// ErrQuotaExceeded is returned by SessionStorage when a write does not fit.
var ErrQuotaExceeded = errors.New("cache: session storage quota exceeded")

// SessionStorage is a per-session string key/value store, the server-side
// equivalent of a browser's sessionStorage. Implementations must be safe for
// use by several goroutines; no coordination beyond last-writer-wins is
// expected.
type SessionStorage interface {
	GetItem(key string) (string, bool)
	SetItem(key, value string) error
	RemoveItem(key string)
	Keys() []string
}

// KeySerializer builds the storage key of a page request.
// Identical logical requests must always produce the same key.
type KeySerializer interface {
	SerializeKey(req Request, page int) string
}

// Resolver resolves stored identifiers back into records.
type Resolver interface {
	GetByID(id string) (*forum.Discussion, bool)
}
