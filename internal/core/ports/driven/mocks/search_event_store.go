package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
)

// Ensure MockSearchEventStore implements SearchEventStore
var _ driven.SearchEventStore = (*MockSearchEventStore)(nil)

// MockSearchEventStore is a mock implementation of SearchEventStore for testing
type MockSearchEventStore struct {
	mu     sync.RWMutex
	events []*domain.SearchEvent
}

// NewMockSearchEventStore creates a new MockSearchEventStore
func NewMockSearchEventStore() *MockSearchEventStore {
	return &MockSearchEventStore{}
}

func (m *MockSearchEventStore) Record(ctx context.Context, event *domain.SearchEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockSearchEventStore) ListBySession(ctx context.Context, sessionID string, limit int) ([]*domain.SearchEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.SearchEvent
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].SessionID != sessionID {
			continue
		}
		out = append(out, m.events[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockSearchEventStore) DeleteBySession(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.events[:0]
	for _, e := range m.events {
		if e.SessionID != sessionID {
			kept = append(kept, e)
		}
	}
	m.events = kept
	return nil
}

// All returns every recorded event in insertion order
func (m *MockSearchEventStore) All() []*domain.SearchEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.SearchEvent, len(m.events))
	copy(out, m.events)
	return out
}
