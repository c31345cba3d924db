package dashboard

import (
	"context"
	"strings"
	"sync"

	"github.com/goliatone/go-erp-dashboard/components/records"
)

// AnonymousViewer is the user id assumed when a request carries none.
const AnonymousViewer = "anonymous"

// InMemoryFilterStore keeps filter selections per viewer and page.
type InMemoryFilterStore struct {
	mu   sync.RWMutex
	data map[string]records.FilterState
}

var _ FilterStore = (*InMemoryFilterStore)(nil)

// NewInMemoryFilterStore creates an empty filter store.
func NewInMemoryFilterStore() *InMemoryFilterStore {
	return &InMemoryFilterStore{
		data: make(map[string]records.FilterState),
	}
}

// Filter returns the stored selection or the default state.
func (s *InMemoryFilterStore) Filter(_ context.Context, viewer ViewerContext, page string) (records.FilterState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.data[s.key(viewer, page)]; ok {
		return state, nil
	}
	return records.DefaultFilterState(), nil
}

// SaveFilter stores state for a viewer and page.
func (s *InMemoryFilterStore) SaveFilter(_ context.Context, viewer ViewerContext, page string, state records.FilterState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[s.key(viewer, page)] = state.Normalized()
	return nil
}

// ResetFilter drops the stored selection so the default state applies again.
func (s *InMemoryFilterStore) ResetFilter(_ context.Context, viewer ViewerContext, page string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, s.key(viewer, page))
	return nil
}

func (s *InMemoryFilterStore) key(viewer ViewerContext, page string) string {
	user := strings.TrimSpace(viewer.UserID)
	if user == "" {
		user = AnonymousViewer
	}
	return user + "::" + page
}
