package testsupport

import (
	"sort"
	"sync"

	"github.com/goliatone/go-discussion-pager/cache"
)

// MemoryStorage is a map backed cache.SessionStorage for tests. A positive
// limit bounds the number of keys; writes of new keys beyond it fail with
// cache.ErrQuotaExceeded.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
	limit int
}

// NewMemoryStorage creates an empty storage holding at most limit keys, or
// an unbounded one when limit is zero.
func NewMemoryStorage(limit int) *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string), limit: limit}
}

var _ cache.SessionStorage = (*MemoryStorage)(nil)

func (m *MemoryStorage) GetItem(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok
}

func (m *MemoryStorage) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.items[key]; !exists && m.limit > 0 && len(m.items) >= m.limit {
		return cache.ErrQuotaExceeded
	}
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
}

// Keys returns the stored keys in lexical order.
func (m *MemoryStorage) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of stored keys.
func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
