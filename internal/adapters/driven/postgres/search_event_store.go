package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SearchEventStore = (*SearchEventStore)(nil)

// defaultEventLimit caps ListBySession when no limit is given
const defaultEventLimit = 50

// SearchEventStore implements driven.SearchEventStore using PostgreSQL
type SearchEventStore struct {
	db *DB
}

// NewSearchEventStore creates a new SearchEventStore
func NewSearchEventStore(db *DB) *SearchEventStore {
	return &SearchEventStore{db: db}
}

// Record appends one search event
func (s *SearchEventStore) Record(ctx context.Context, event *domain.SearchEvent) error {
	query := `
		INSERT INTO search_events (id, session_id, seq, query, result_count, outcome, error, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		event.SessionID,
		int64(event.Sequence),
		event.Query,
		event.ResultCount,
		string(event.Outcome),
		NullString(event.Error),
		event.Duration.Milliseconds(),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record search event: %w", err)
	}
	return nil
}

// DeleteBySession removes the events of a session
func (s *SearchEventStore) DeleteBySession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM search_events WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete search events: %w", err)
	}
	return nil
}

// ListBySession returns the events of a session, newest first
func (s *SearchEventStore) ListBySession(ctx context.Context, sessionID string, limit int) ([]*domain.SearchEvent, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}

	query := `
		SELECT id, session_id, seq, query, result_count, outcome, error, duration_ms, created_at
		FROM search_events
		WHERE session_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list search events: %w", err)
	}
	defer rows.Close()

	events := []*domain.SearchEvent{}
	for rows.Next() {
		var event domain.SearchEvent
		var seq, durationMS int64
		var outcome string
		var errStr sql.NullString

		if err := rows.Scan(
			&event.ID,
			&event.SessionID,
			&seq,
			&event.Query,
			&event.ResultCount,
			&outcome,
			&errStr,
			&durationMS,
			&event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan search event: %w", err)
		}

		event.Sequence = uint64(seq)
		event.Outcome = domain.SearchOutcome(outcome)
		event.Error = errStr.String
		event.Duration = time.Duration(durationMS) * time.Millisecond
		events = append(events, &event)
	}
	return events, rows.Err()
}
