package mocks

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
)

// Ensure mocks implement the auth ports
var (
	_ driven.AuthBackend = (*MockAuthBackend)(nil)
	_ driven.TokenParser = (*MockTokenParser)(nil)
)

// MockAuthBackend is a mock implementation of AuthBackend for testing.
// Each method delegates to its Fn field; unset fields fail.
type MockAuthBackend struct {
	LoginFn    func(ctx context.Context, creds domain.Credentials, csrfToken string) (*driven.LoginResult, error)
	StatusFn   func(ctx context.Context, bearerToken string) (*domain.User, error)
	LogoutFn   func(ctx context.Context, bearerToken, csrfToken string) error
	RegisterFn func(ctx context.Context, req domain.RegistrationRequest, csrfToken string, retry bool) error

	// LoginCSRF records the CSRF token sent with each login attempt
	LoginCSRF []string
	// RegisterCSRF records the CSRF token sent with each registration attempt
	RegisterCSRF []string
}

func (m *MockAuthBackend) Login(ctx context.Context, creds domain.Credentials, csrfToken string) (*driven.LoginResult, error) {
	m.LoginCSRF = append(m.LoginCSRF, csrfToken)
	if m.LoginFn == nil {
		return nil, fmt.Errorf("login: %w", domain.ErrServiceUnavailable)
	}
	return m.LoginFn(ctx, creds, csrfToken)
}

func (m *MockAuthBackend) Status(ctx context.Context, bearerToken string) (*domain.User, error) {
	if m.StatusFn == nil {
		return nil, fmt.Errorf("status: %w", domain.ErrServiceUnavailable)
	}
	return m.StatusFn(ctx, bearerToken)
}

func (m *MockAuthBackend) Logout(ctx context.Context, bearerToken, csrfToken string) error {
	if m.LogoutFn == nil {
		return nil
	}
	return m.LogoutFn(ctx, bearerToken, csrfToken)
}

func (m *MockAuthBackend) Register(ctx context.Context, req domain.RegistrationRequest, csrfToken string, retry bool) error {
	m.RegisterCSRF = append(m.RegisterCSRF, csrfToken)
	if m.RegisterFn == nil {
		return fmt.Errorf("register: %w", domain.ErrServiceUnavailable)
	}
	return m.RegisterFn(ctx, req, csrfToken, retry)
}

// MockTokenParser reads base64-encoded JSON claims after the "Bearer " prefix.
// NOT secure - only for testing.
type MockTokenParser struct{}

// NewMockTokenParser creates a new MockTokenParser
func NewMockTokenParser() *MockTokenParser {
	return &MockTokenParser{}
}

// MockBearerToken encodes claims the way MockTokenParser reads them
func MockBearerToken(claims domain.TokenClaims) string {
	data, _ := json.Marshal(claims)
	return "Bearer " + base64.StdEncoding.EncodeToString(data)
}

func (m *MockTokenParser) ParseToken(bearerToken string) (*domain.TokenClaims, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(bearerToken, "Bearer "))
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}
	var claims domain.TokenClaims
	if err := json.Unmarshal(data, &claims); err != nil {
		return nil, domain.ErrTokenInvalid
	}
	return &claims, nil
}
