package driven

import (
	"context"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
)

// SearchBackend queries the repository's discovery endpoint
type SearchBackend interface {
	// Search issues one query and returns the decoded result set.
	// Failures are returned as *domain.SearchError.
	Search(ctx context.Context, params domain.QueryParameters) (domain.ResultSet, error)

	// HealthCheck verifies the backend is reachable
	HealthCheck(ctx context.Context) error
}
