package driven

import (
	"context"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
)

// TokenStore persists the client's auth and CSRF tokens under a key
// (one key per client profile)
type TokenStore interface {
	// Get returns the stored tokens; an empty value when none are stored
	Get(ctx context.Context, key string) (*domain.AuthTokens, error)

	// Save replaces the stored tokens
	Save(ctx context.Context, key string, tokens *domain.AuthTokens) error

	// Delete removes the stored tokens
	Delete(ctx context.Context, key string) error
}
