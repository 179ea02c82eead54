package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driving"
)

// Ensure SessionRegistry implements driving.SessionRegistry
var _ driving.SessionRegistry = (*SessionRegistry)(nil)

// SessionRegistryConfig holds dependencies for a SessionRegistry
type SessionRegistryConfig struct {
	Backend      driven.SearchBackend
	Events       driven.SearchEventStore // optional
	ItemsPerPage int
	// IdleTTL evicts sessions not accessed for this long; zero keeps them
	IdleTTL time.Duration
	Logger  *slog.Logger
}

type registeredSession struct {
	session    *SearchSession
	lastAccess time.Time
}

// SessionRegistry holds one SearchSession per search view
type SessionRegistry struct {
	cfg    SessionRegistryConfig
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*registeredSession
}

// NewSessionRegistry creates an empty registry
func NewSessionRegistry(cfg SessionRegistryConfig) *SessionRegistry {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &SessionRegistry{
		cfg:      cfg,
		logger:   cfg.Logger,
		now:      time.Now,
		sessions: make(map[string]*registeredSession),
	}
}

// Create starts a session and runs its initial unfiltered search
func (r *SessionRegistry) Create(ctx context.Context) (driving.SearchSession, error) {
	session := NewSearchSession(SearchSessionConfig{
		Backend:      r.cfg.Backend,
		Events:       r.cfg.Events,
		ItemsPerPage: r.cfg.ItemsPerPage,
		Logger:       r.logger,
	})

	r.mu.Lock()
	evicted := r.evictIdleLocked()
	r.sessions[session.ID()] = &registeredSession{session: session, lastAccess: r.now()}
	r.mu.Unlock()
	r.releaseEvents(evicted...)

	r.logger.Info("search session created", "session_id", session.ID())

	_, err := session.Search(ctx)
	return session, err
}

// Get returns a session by ID
func (r *SessionRegistry) Get(id string) (driving.SearchSession, error) {
	r.mu.Lock()
	entry, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return nil, domain.ErrNotFound
	}
	if r.isIdle(entry) {
		delete(r.sessions, id)
		r.mu.Unlock()
		r.releaseEvents(id)
		return nil, domain.ErrNotFound
	}
	entry.lastAccess = r.now()
	r.mu.Unlock()
	return entry.session, nil
}

// Delete removes a session and its recorded events
func (r *SessionRegistry) Delete(id string) {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if ok {
		r.releaseEvents(id)
	}
}

// Len returns the number of live sessions
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Events returns the recorded backend calls of a session, newest first
func (r *SessionRegistry) Events(ctx context.Context, id string, limit int) ([]*domain.SearchEvent, error) {
	if _, err := r.Get(id); err != nil {
		return nil, err
	}
	if r.cfg.Events == nil {
		return []*domain.SearchEvent{}, nil
	}
	return r.cfg.Events.ListBySession(ctx, id, limit)
}

// EvictIdle removes every session idle for longer than the TTL and returns
// how many were removed
func (r *SessionRegistry) EvictIdle() int {
	r.mu.Lock()
	evicted := r.evictIdleLocked()
	r.mu.Unlock()
	r.releaseEvents(evicted...)
	return len(evicted)
}

func (r *SessionRegistry) isIdle(entry *registeredSession) bool {
	return r.cfg.IdleTTL > 0 && r.now().Sub(entry.lastAccess) > r.cfg.IdleTTL
}

// evictIdleLocked removes idle sessions and returns their IDs
func (r *SessionRegistry) evictIdleLocked() []string {
	var evicted []string
	for id, entry := range r.sessions {
		if r.isIdle(entry) {
			delete(r.sessions, id)
			evicted = append(evicted, id)
			r.logger.Debug("search session evicted", "session_id", id)
		}
	}
	return evicted
}

// releaseEvents drops the event history of removed sessions. Called without
// the registry lock held since the store may be remote.
func (r *SessionRegistry) releaseEvents(ids ...string) {
	if r.cfg.Events == nil {
		return
	}
	for _, id := range ids {
		if err := r.cfg.Events.DeleteBySession(context.Background(), id); err != nil {
			r.logger.Warn("failed to delete search events", "session_id", id, "error", err)
		}
	}
}
