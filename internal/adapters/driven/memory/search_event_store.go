package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SearchEventStore = (*SearchEventStore)(nil)

// DefaultEventCapacity is the number of events kept per session
const DefaultEventCapacity = 100

// SearchEventStore keeps the latest events of each session in memory
type SearchEventStore struct {
	capacity int

	mu     sync.RWMutex
	events map[string][]*domain.SearchEvent
}

// NewSearchEventStore creates a store keeping up to capacity events per session
func NewSearchEventStore(capacity int) *SearchEventStore {
	if capacity <= 0 {
		capacity = DefaultEventCapacity
	}
	return &SearchEventStore{
		capacity: capacity,
		events:   make(map[string][]*domain.SearchEvent),
	}
}

// Record appends an event, dropping the oldest once the session is at capacity
func (s *SearchEventStore) Record(_ context.Context, event *domain.SearchEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *event
	list := append(s.events[event.SessionID], &cp)
	if len(list) > s.capacity {
		list = list[len(list)-s.capacity:]
	}
	s.events[event.SessionID] = list
	return nil
}

// DeleteBySession forgets the events of a session
func (s *SearchEventStore) DeleteBySession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.events, sessionID)
	return nil
}

// Sessions returns the number of sessions with recorded events
func (s *SearchEventStore) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// ListBySession returns up to limit events, newest first
func (s *SearchEventStore) ListBySession(_ context.Context, sessionID string, limit int) ([]*domain.SearchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := s.events[sessionID]
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}

	out := make([]*domain.SearchEvent, 0, limit)
	for i := len(list) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *list[i]
		out = append(out, &cp)
	}
	return out, nil
}
