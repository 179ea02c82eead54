package driven

import (
	"context"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
)

// SearchEventStore keeps an audit log of backend calls made by search sessions
type SearchEventStore interface {
	// Record appends an event
	Record(ctx context.Context, event *domain.SearchEvent) error

	// ListBySession returns the most recent events of a session, newest first
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*domain.SearchEvent, error)

	// DeleteBySession drops every event of a session that no longer exists
	DeleteBySession(ctx context.Context, sessionID string) error
}
