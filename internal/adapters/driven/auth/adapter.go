package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
)

// Ensure Adapter implements TokenParser
var _ driven.TokenParser = (*Adapter)(nil)

// jwtClaims are the claims the repository puts in its bearer token
type jwtClaims struct {
	EPersonID string `json:"eid"`
	jwt.RegisteredClaims
}

// Adapter reads the repository's bearer tokens.
// With a secret the HMAC signature is verified; without one the claims are
// read as-is, since the signing key normally stays on the server.
type Adapter struct {
	jwtSecret []byte
	now       func() time.Time
}

// NewAdapter creates a new auth adapter. An empty secret disables
// signature verification.
func NewAdapter(jwtSecret string) *Adapter {
	return &Adapter{
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

// ParseToken extracts domain claims from an Authorization header value
func (a *Adapter) ParseToken(bearerToken string) (*domain.TokenClaims, error) {
	tokenString := strings.TrimSpace(strings.TrimPrefix(bearerToken, "Bearer "))
	if tokenString == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims := &jwtClaims{}
	if len(a.jwtSecret) > 0 {
		_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return a.jwtSecret, nil
		}, jwt.WithTimeFunc(a.now))
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrTokenInvalid, err)
		}
		if claims.ExpiresAt != nil && a.now().After(claims.ExpiresAt.Time) {
			return nil, domain.ErrTokenExpired
		}
	}

	out := &domain.TokenClaims{UserID: claims.EPersonID}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return out, nil
}
