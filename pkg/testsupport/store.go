package testsupport

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-discussion-pager/forum"
)

// FakeStore is an in-memory forum.Store that records every Find call.
// GetByID only resolves records that a Find returned, like a client side
// identity map.
type FakeStore struct {
	mu        sync.Mutex
	items     []*forum.Discussion
	known     map[string]*forum.Discussion
	calls     []forum.RequestParams
	preloaded *forum.Results
	err       error
}

var _ forum.Store = (*FakeStore)(nil)

// NewFakeStore creates a store serving items in the given activity order.
func NewFakeStore(items []*forum.Discussion) *FakeStore {
	return &FakeStore{
		items: append([]*forum.Discussion(nil), items...),
		known: make(map[string]*forum.Discussion),
	}
}

// Find implements forum.Store.
func (s *FakeStore) Find(ctx context.Context, req forum.RequestParams) (*forum.Results, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, req)
	if s.err != nil {
		err := s.err
		s.err = nil
		return nil, err
	}

	matched := s.matchLocked(req)
	start := min(req.Offset, len(matched))
	end := len(matched)
	if req.Limit > 0 {
		end = min(start+req.Limit, len(matched))
	}

	page := append([]*forum.Discussion(nil), matched[start:end]...)
	for _, d := range page {
		s.known[d.ID] = d
	}
	return &forum.Results{
		Items:   page,
		Total:   len(matched),
		HasNext: end < len(matched),
		HasPrev: start > 0,
	}, nil
}

func (s *FakeStore) matchLocked(req forum.RequestParams) []*forum.Discussion {
	q, _ := req.Filter["q"].(string)
	q = strings.ToLower(q)

	matched := make([]*forum.Discussion, 0, len(s.items))
	for _, d := range s.items {
		if q == "" || strings.Contains(strings.ToLower(d.Title), q) {
			matched = append(matched, d)
		}
	}

	switch req.Sort {
	case "-commentCount":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CommentCount > matched[j].CommentCount })
	case "-createdAt":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	case "createdAt":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	}
	return matched
}

// GetByID implements forum.Store.
func (s *FakeStore) GetByID(id string) (*forum.Discussion, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.known[id]
	return d, ok
}

// PreloadedDocument implements forum.Store. The document is handed out once.
func (s *FakeStore) PreloadedDocument() (*forum.Results, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.preloaded == nil {
		return nil, false
	}
	results := s.preloaded
	s.preloaded = nil
	for _, d := range results.Items {
		s.known[d.ID] = d
	}
	return results, true
}

// Preload sets the document returned by the next PreloadedDocument call.
func (s *FakeStore) Preload(results *forum.Results) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preloaded = results
}

// Insert adds d at the head of the activity order.
func (s *FakeStore) Insert(d *forum.Discussion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]*forum.Discussion{d}, s.items...)
}

// Remove drops the record with id from the activity order.
func (s *FakeStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.items {
		if d.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Remember makes records resolvable through GetByID without a Find.
func (s *FakeStore) Remember(items ...*forum.Discussion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range items {
		s.known[d.ID] = d
	}
}

// Forget drops every resolvable record, as after a full reload.
func (s *FakeStore) Forget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.known = make(map[string]*forum.Discussion)
}

// FailNext makes the next Find return err.
func (s *FakeStore) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns the recorded Find requests.
func (s *FakeStore) Calls() []forum.RequestParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]forum.RequestParams(nil), s.calls...)
}

// CallCount returns the number of recorded Find requests.
func (s *FakeStore) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}
