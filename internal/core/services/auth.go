package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// AuthServiceConfig holds dependencies for the AuthService
type AuthServiceConfig struct {
	Backend driven.AuthBackend
	Tokens  driven.TokenStore
	Parser  driven.TokenParser
	Logger  *slog.Logger
}

// authService implements the AuthService interface
type authService struct {
	backend driven.AuthBackend
	tokens  driven.TokenStore
	parser  driven.TokenParser
	logger  *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(cfg AuthServiceConfig) driving.AuthService {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &authService{
		backend: cfg.Backend,
		tokens:  cfg.Tokens,
		parser:  cfg.Parser,
		logger:  cfg.Logger,
	}
}

// Login authenticates with the stored CSRF token. When the repository
// rejects the attempt and issues a new CSRF token, the token is stored and
// the login retried exactly once.
func (s *authService) Login(ctx context.Context, key string, creds domain.Credentials) (*domain.AuthSession, error) {
	if key == "" || creds.Email == "" || creds.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	stored, err := s.tokens.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokens: %w", err)
	}

	result, err := s.backend.Login(ctx, creds, stored.CSRFToken)
	var csrfErr *domain.CSRFError
	if errors.As(err, &csrfErr) {
		s.logger.Debug("csrf token rotated, retrying login")
		stored.CSRFToken = csrfErr.Token
		if err := s.tokens.Save(ctx, key, stored); err != nil {
			return nil, fmt.Errorf("failed to save csrf token: %w", err)
		}
		result, err = s.backend.Login(ctx, creds, stored.CSRFToken)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login failed: %w", err)
	}

	claims, err := s.parser.ParseToken(result.BearerToken)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	if result.CSRFToken != "" {
		stored.CSRFToken = result.CSRFToken
	}
	stored.BearerToken = result.BearerToken
	stored.ExpiresAt = time.Time{}
	if claims.ExpiresAt > 0 {
		stored.ExpiresAt = time.Unix(claims.ExpiresAt, 0)
	}
	if err := s.tokens.Save(ctx, key, stored); err != nil {
		return nil, fmt.Errorf("failed to save tokens: %w", err)
	}

	user, err := s.backend.Status(ctx, result.BearerToken)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user.ID == "" {
		user.ID = claims.UserID
	}

	s.logger.Info("logged in", "user_id", user.ID)
	return &domain.AuthSession{User: user, ExpiresAt: stored.ExpiresAt}, nil
}

// Logout invalidates the bearer token remotely and forgets it locally.
// The CSRF token is kept for the next login; with none left the entry is
// removed.
func (s *authService) Logout(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	stored, err := s.tokens.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load tokens: %w", err)
	}
	if stored.BearerToken == "" {
		return nil
	}

	if err := s.backend.Logout(ctx, stored.BearerToken, stored.CSRFToken); err != nil {
		// The local token is dropped regardless
		s.logger.Warn("remote logout failed", "error", err)
	}

	if stored.CSRFToken == "" {
		return s.tokens.Delete(ctx, key)
	}
	stored.BearerToken = ""
	stored.ExpiresAt = time.Time{}
	return s.tokens.Save(ctx, key, stored)
}

// Current returns the user of the stored bearer token
func (s *authService) Current(ctx context.Context, key string) (*domain.User, error) {
	if key == "" {
		return nil, domain.ErrUnauthorized
	}
	stored, err := s.tokens.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokens: %w", err)
	}
	if stored.BearerToken == "" {
		return nil, domain.ErrUnauthorized
	}
	if stored.IsExpired() {
		return nil, domain.ErrTokenExpired
	}
	return s.backend.Status(ctx, stored.BearerToken)
}

// Register requests an activation email, retrying once after a CSRF rotation
func (s *authService) Register(ctx context.Context, key string, req domain.RegistrationRequest) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	if err := req.Validate(); err != nil {
		return err
	}

	stored, err := s.tokens.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to load tokens: %w", err)
	}

	err = s.backend.Register(ctx, req, stored.CSRFToken, false)
	var csrfErr *domain.CSRFError
	if errors.As(err, &csrfErr) {
		stored.CSRFToken = csrfErr.Token
		if err := s.tokens.Save(ctx, key, stored); err != nil {
			return fmt.Errorf("failed to save csrf token: %w", err)
		}
		err = s.backend.Register(ctx, req, stored.CSRFToken, true)
	}
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	s.logger.Info("registration requested", "email", req.Email)
	return nil
}
