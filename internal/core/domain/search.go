package domain

import "time"

// Snapshot is the read model of a search session handed to presentation
// adapters after each mutation
type Snapshot struct {
	SessionID   string          `json:"session_id"`
	Filters     FilterSnapshot  `json:"filters"`
	Pagination  PaginationState `json:"pagination"`
	TotalPages  int             `json:"total_pages"`
	TotalItems  int             `json:"total_items"`
	Facets      Facets          `json:"facets"`
	Items       []ObjectSummary `json:"items"`
	ViewMode    ViewMode        `json:"view_mode"`
	Sequence    uint64          `json:"sequence"`
	LastError   string          `json:"last_error,omitempty"`
	LastApplied time.Time       `json:"last_applied,omitempty"`
}

// SearchOutcome is how a completed backend call ended for the session
type SearchOutcome string

const (
	SearchOutcomeApplied SearchOutcome = "applied" // result set replaced
	SearchOutcomeStale   SearchOutcome = "stale"   // discarded, a newer search was issued
	SearchOutcomeFailed  SearchOutcome = "failed"  // backend error, previous results kept
)

// SearchEvent records one backend call issued by a search session
type SearchEvent struct {
	ID          string        `json:"id"`
	SessionID   string        `json:"session_id"`
	Sequence    uint64        `json:"sequence"`
	Query       string        `json:"query"`
	ResultCount int           `json:"result_count"`
	Outcome     SearchOutcome `json:"outcome"`
	Error       string        `json:"error,omitempty"`
	Duration    time.Duration `json:"duration"`
	CreatedAt   time.Time     `json:"created_at"`
}
