package driving

import (
	"context"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
)

// SearchSession is one search view: filter state, page window and the
// current result set
type SearchSession interface {
	// ID identifies the session
	ID() string

	// Search re-issues the query for the current filter state
	Search(ctx context.Context) (domain.ResultSet, error)

	// Apply runs a command and, for filter changes, one search
	Apply(ctx context.Context, cmd domain.Command) error

	// Snapshot returns the current read model
	Snapshot() domain.Snapshot

	// Facets returns the facets of the current result set
	Facets() domain.Facets

	// Page returns the objects of the current page
	Page() domain.ResultSet
}

// SessionRegistry tracks the live search sessions of a server
type SessionRegistry interface {
	// Create starts a session and runs its initial search. The session is
	// returned even when the initial search fails.
	Create(ctx context.Context) (SearchSession, error)

	// Get returns a session by ID
	Get(id string) (SearchSession, error)

	// Delete removes a session
	Delete(id string)

	// Events returns the recorded backend calls of a session
	Events(ctx context.Context, id string, limit int) ([]*domain.SearchEvent, error)
}
