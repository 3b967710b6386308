package urlsync

import "sync"

// MemoryHistory is an in-process History, used by the terminal client and
// by tests. Entries are kept in the order they were pushed.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
}

// NewMemoryHistory starts a history at url.
func NewMemoryHistory(url string) *MemoryHistory {
	return &MemoryHistory{entries: []string{url}}
}

// Location implements History.
func (h *MemoryHistory) Location() Location {
	h.mu.Lock()
	defer h.mu.Unlock()
	return ParseLocation(h.entries[len(h.entries)-1])
}

// ReplaceState implements History.
func (h *MemoryHistory) ReplaceState(url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries[len(h.entries)-1] = url
	return nil
}

// PushState implements History.
func (h *MemoryHistory) PushState(url string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, url)
	return nil
}

// Back drops the newest entry, keeping at least one.
func (h *MemoryHistory) Back() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) > 1 {
		h.entries = h.entries[:len(h.entries)-1]
	}
}

// Entries returns a copy of the recorded entries.
func (h *MemoryHistory) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}
