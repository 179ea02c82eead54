package driven

import (
	"context"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
)

// LoginResult carries the tokens issued by a successful login
type LoginResult struct {
	// BearerToken is the Authorization header value
	BearerToken string
	// CSRFToken is set when the repository rotated the CSRF token
	CSRFToken string
}

// AuthBackend talks to the repository's authentication and registration
// endpoints. Requests rejected together with a fresh CSRF token fail with
// *domain.CSRFError.
type AuthBackend interface {
	// Login exchanges credentials for a bearer token
	Login(ctx context.Context, creds domain.Credentials, csrfToken string) (*LoginResult, error)

	// Status returns the user behind a bearer token
	Status(ctx context.Context, bearerToken string) (*domain.User, error)

	// Logout invalidates the bearer token
	Logout(ctx context.Context, bearerToken, csrfToken string) error

	// Register requests an account activation email. retry marks the second
	// attempt after a CSRF rotation.
	Register(ctx context.Context, req domain.RegistrationRequest, csrfToken string, retry bool) error
}

// TokenParser reads claims from the repository's bearer token.
// This does NOT handle storage - use TokenStore for persistence.
type TokenParser interface {
	ParseToken(bearerToken string) (*domain.TokenClaims, error)
}
