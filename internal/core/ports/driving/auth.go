package driving

import (
	"context"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
)

// AuthService handles login, logout and account registration against the
// repository. Every call names the client whose tokens it reads and writes;
// the key is the TokenStore key of that client.
type AuthService interface {
	// Login authenticates and stores the issued bearer token under key
	Login(ctx context.Context, key string, creds domain.Credentials) (*domain.AuthSession, error)

	// Logout invalidates and forgets the bearer token stored under key
	Logout(ctx context.Context, key string) error

	// Current returns the user of the bearer token stored under key
	Current(ctx context.Context, key string) (*domain.User, error)

	// Register requests an account activation email using key's CSRF token
	Register(ctx context.Context, key string, req domain.RegistrationRequest) error
}
