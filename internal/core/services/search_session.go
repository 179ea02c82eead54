package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driving"
)

// Ensure SearchSession implements driving.SearchSession
var _ driving.SearchSession = (*SearchSession)(nil)

// SearchSessionConfig holds dependencies for a SearchSession
type SearchSessionConfig struct {
	// ID identifies the session; a UUID is generated when empty
	ID      string
	Backend driven.SearchBackend
	// Events is optional
	Events       driven.SearchEventStore
	ItemsPerPage int
	// Filters seeds the initial filter state; the session keeps a copy
	Filters *domain.FilterState
	Logger  *slog.Logger
}

// SearchSession owns the filter state, page window and result set of one
// search view. Every search takes the next sequence number and a response is
// only applied if no newer search was issued while it was in flight.
type SearchSession struct {
	id      string
	backend driven.SearchBackend
	events  driven.SearchEventStore
	logger  *slog.Logger

	mu          sync.Mutex
	filters     *domain.FilterState
	pagination  domain.PaginationState
	view        domain.ViewMode
	results     domain.ResultSet
	facets      domain.Facets
	issued      uint64
	applied     uint64
	lastErr     error
	lastApplied time.Time
}

// NewSearchSession creates a session on page 1 with empty or seeded filters.
// No search is issued until Search or Apply is called.
func NewSearchSession(cfg SearchSessionConfig) *SearchSession {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	filters := domain.NewFilterState()
	if cfg.Filters != nil {
		filters = cfg.Filters.Clone()
	}
	return &SearchSession{
		id:         cfg.ID,
		backend:    cfg.Backend,
		events:     cfg.Events,
		logger:     cfg.Logger.With("session_id", cfg.ID),
		filters:    filters,
		pagination: domain.NewPaginationState(cfg.ItemsPerPage),
		view:       domain.ViewModeList,
		results:    domain.ResultSet{},
		facets:     domain.AggregateFacets(nil),
	}
}

// ID identifies the session
func (s *SearchSession) ID() string {
	return s.id
}

// Search issues the query for the current filter state. On success the
// result set is replaced, facets are recomputed and the page is reset to 1.
// On failure the previous results stay in place and a *domain.SearchError is
// returned. A response overtaken by a newer search is dropped with
// domain.ErrStaleResponse.
func (s *SearchSession) Search(ctx context.Context) (domain.ResultSet, error) {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	params := domain.BuildQuery(s.filters)
	s.mu.Unlock()

	start := time.Now()
	results, err := s.backend.Search(ctx, params)
	took := time.Since(start)

	s.mu.Lock()
	outcome, err := s.applyLocked(seq, results, err)
	s.mu.Unlock()

	s.record(ctx, seq, params, len(results), outcome, err, took)

	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *SearchSession) applyLocked(seq uint64, results domain.ResultSet, err error) (domain.SearchOutcome, error) {
	if seq != s.issued {
		s.logger.Debug("discarding stale search response", "seq", seq, "latest", s.issued)
		return domain.SearchOutcomeStale, domain.ErrStaleResponse
	}

	if err != nil {
		var searchErr *domain.SearchError
		if !errors.As(err, &searchErr) {
			searchErr = domain.NewSearchError(domain.SearchErrorNetwork, err)
		}
		s.lastErr = searchErr
		s.logger.Warn("search failed, keeping previous results", "seq", seq, "error", searchErr)
		return domain.SearchOutcomeFailed, searchErr
	}

	if results == nil {
		results = domain.ResultSet{}
	}
	s.results = results
	s.facets = domain.AggregateFacets(results)
	s.pagination.Reset()
	s.applied = seq
	s.lastErr = nil
	s.lastApplied = time.Now()
	s.logger.Debug("search applied", "seq", seq, "results", len(results))
	return domain.SearchOutcomeApplied, nil
}

func (s *SearchSession) record(ctx context.Context, seq uint64, params domain.QueryParameters, count int, outcome domain.SearchOutcome, err error, took time.Duration) {
	if s.events == nil {
		return
	}

	event := &domain.SearchEvent{
		ID:          uuid.NewString(),
		SessionID:   s.id,
		Sequence:    seq,
		Query:       params.Encode(),
		ResultCount: count,
		Outcome:     outcome,
		Duration:    took,
		CreatedAt:   time.Now(),
	}
	if err != nil && outcome == domain.SearchOutcomeFailed {
		event.Error = err.Error()
	}

	// The caller's context may already be done; the log entry still belongs
	if recErr := s.events.Record(context.WithoutCancel(ctx), event); recErr != nil {
		s.logger.Warn("failed to record search event", "seq", seq, "error", recErr)
	}
}

// Apply runs cmd against the session state. Filter commands are followed by
// exactly one search; pagination and view commands are not.
func (s *SearchSession) Apply(ctx context.Context, cmd domain.Command) error {
	s.mu.Lock()
	err := cmd.Apply(domain.CommandTarget{
		Filters:    s.filters,
		Pagination: &s.pagination,
		View:       &s.view,
		Total:      len(s.results),
	})
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if !cmd.Searches() {
		return nil
	}
	_, err = s.Search(ctx)
	return err
}

// Snapshot returns the current read model
func (s *SearchSession) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.Snapshot{
		SessionID:   s.id,
		Filters:     s.filters.Snapshot(),
		Pagination:  s.pagination,
		TotalPages:  domain.TotalPages(len(s.results), s.pagination.ItemsPerPage),
		TotalItems:  len(s.results),
		Facets:      s.facets,
		Items:       domain.PageOf(s.results, s.pagination).Summaries(),
		ViewMode:    s.view,
		Sequence:    s.applied,
		LastApplied: s.lastApplied,
	}
	if s.lastErr != nil {
		snap.LastError = s.lastErr.Error()
	}
	return snap
}

// Facets returns the facets of the current result set
func (s *SearchSession) Facets() domain.Facets {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.facets
}

// Page returns the objects of the current page
func (s *SearchSession) Page() domain.ResultSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.PageOf(s.results, s.pagination)
}

// Pagination returns the current page window
func (s *SearchSession) Pagination() domain.PaginationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pagination
}

// Filters returns a copy of the current filter state
func (s *SearchSession) Filters() *domain.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Clone()
}
