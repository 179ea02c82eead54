package domain

import (
	"regexp"
	"time"
)

// Credentials is a login attempt against the repository
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the repository account (EPerson) of an authenticated session
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// AuthTokens are the credentials the client carries between requests.
// They are passed explicitly to adapters instead of living in ambient storage.
type AuthTokens struct {
	// BearerToken is the value of the Authorization header, "Bearer ..."
	BearerToken string    `json:"bearer_token,omitempty"`
	CSRFToken   string    `json:"csrf_token,omitempty"`
	ExpiresAt   time.Time `json:"expires_at,omitempty"`
}

// IsExpired checks if the bearer token has expired
func (t *AuthTokens) IsExpired() bool {
	return !t.ExpiresAt.IsZero() && time.Now().After(t.ExpiresAt)
}

// TokenClaims are the fields read from the repository's bearer token
type TokenClaims struct {
	// UserID is the EPerson id ("eid" claim)
	UserID    string `json:"eid"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// AuthSession is returned after a successful login
type AuthSession struct {
	User      *User     `json:"user"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// RegistrationRequest asks the repository to email an account activation link
type RegistrationRequest struct {
	Email string `json:"email"`
}

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Validate checks the email has a plausible shape
func (r RegistrationRequest) Validate() error {
	if !emailPattern.MatchString(r.Email) {
		return ErrInvalidInput
	}
	return nil
}
