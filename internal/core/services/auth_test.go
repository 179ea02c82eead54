package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven/mocks"
)

const testKey = "profile-a"

func newTestAuthService() (*mocks.MockAuthBackend, *mocks.MockTokenStore, *authService) {
	backend := &mocks.MockAuthBackend{}
	tokens := mocks.NewMockTokenStore()
	svc := NewAuthService(AuthServiceConfig{
		Backend: backend,
		Tokens:  tokens,
		Parser:  mocks.NewMockTokenParser(),
	}).(*authService)
	return backend, tokens, svc
}

func testBearer(expiresAt time.Time) string {
	return mocks.MockBearerToken(domain.TokenClaims{
		UserID:    "eperson-1",
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: expiresAt.Unix(),
	})
}

func TestAuthService_Login(t *testing.T) {
	backend, tokens, svc := newTestAuthService()
	ctx := context.Background()
	expires := time.Now().Add(time.Hour)
	bearer := testBearer(expires)

	_ = tokens.Save(ctx, testKey, &domain.AuthTokens{CSRFToken: "csrf-1"})
	backend.LoginFn = func(ctx context.Context, creds domain.Credentials, csrf string) (*driven.LoginResult, error) {
		return &driven.LoginResult{BearerToken: bearer, CSRFToken: "csrf-2"}, nil
	}
	backend.StatusFn = func(ctx context.Context, token string) (*domain.User, error) {
		if token != bearer {
			t.Errorf("status called with %q", token)
		}
		return &domain.User{Email: "jane@example.org"}, nil
	}

	session, err := svc.Login(ctx, testKey, domain.Credentials{Email: "jane@example.org", Password: "secret"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.User.ID != "eperson-1" {
		t.Errorf("expected user id from claims, got %q", session.User.ID)
	}
	if session.ExpiresAt.Unix() != expires.Unix() {
		t.Errorf("expected expiry %v, got %v", expires, session.ExpiresAt)
	}
	if len(backend.LoginCSRF) != 1 || backend.LoginCSRF[0] != "csrf-1" {
		t.Errorf("expected one login with stored csrf token, got %v", backend.LoginCSRF)
	}

	stored, _ := tokens.Get(ctx, testKey)
	if stored.BearerToken != bearer {
		t.Error("expected bearer token stored")
	}
	if stored.CSRFToken != "csrf-2" {
		t.Errorf("expected rotated csrf token stored, got %q", stored.CSRFToken)
	}
}

func TestAuthService_Login_CSRFRetryOnce(t *testing.T) {
	backend, tokens, svc := newTestAuthService()
	ctx := context.Background()
	bearer := testBearer(time.Now().Add(time.Hour))

	backend.LoginFn = func(ctx context.Context, creds domain.Credentials, csrf string) (*driven.LoginResult, error) {
		if csrf != "fresh" {
			return nil, &domain.CSRFError{Token: "fresh", StatusCode: 403}
		}
		return &driven.LoginResult{BearerToken: bearer}, nil
	}
	backend.StatusFn = func(ctx context.Context, token string) (*domain.User, error) {
		return &domain.User{ID: "eperson-1"}, nil
	}

	if _, err := svc.Login(ctx, testKey, domain.Credentials{Email: "a@b.c", Password: "p"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backend.LoginCSRF) != 2 || backend.LoginCSRF[1] != "fresh" {
		t.Errorf("expected retry with fresh token, got %v", backend.LoginCSRF)
	}
	stored, _ := tokens.Get(ctx, testKey)
	if stored.CSRFToken != "fresh" {
		t.Errorf("expected fresh csrf token stored, got %q", stored.CSRFToken)
	}
}

func TestAuthService_Login_CSRFRejectedTwice(t *testing.T) {
	backend, _, svc := newTestAuthService()
	backend.LoginFn = func(ctx context.Context, creds domain.Credentials, csrf string) (*driven.LoginResult, error) {
		return nil, &domain.CSRFError{Token: csrf + "x", StatusCode: 403}
	}

	_, err := svc.Login(context.Background(), testKey, domain.Credentials{Email: "a@b.c", Password: "p"})
	if err == nil {
		t.Fatal("expected error")
	}
	if len(backend.LoginCSRF) != 2 {
		t.Errorf("expected exactly two attempts, got %d", len(backend.LoginCSRF))
	}
}

func TestAuthService_Login_Errors(t *testing.T) {
	tests := []struct {
		name    string
		creds   domain.Credentials
		loginFn func(ctx context.Context, creds domain.Credentials, csrf string) (*driven.LoginResult, error)
		wantErr error
	}{
		{
			name:    "empty email",
			creds:   domain.Credentials{Password: "p"},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:  "invalid credentials",
			creds: domain.Credentials{Email: "a@b.c", Password: "wrong"},
			loginFn: func(ctx context.Context, creds domain.Credentials, csrf string) (*driven.LoginResult, error) {
				return nil, domain.ErrInvalidCredentials
			},
			wantErr: domain.ErrInvalidCredentials,
		},
		{
			name:  "unparsable token",
			creds: domain.Credentials{Email: "a@b.c", Password: "p"},
			loginFn: func(ctx context.Context, creds domain.Credentials, csrf string) (*driven.LoginResult, error) {
				return &driven.LoginResult{BearerToken: "Bearer !!!"}, nil
			},
			wantErr: domain.ErrTokenInvalid,
		},
		{
			name:    "backend down",
			creds:   domain.Credentials{Email: "a@b.c", Password: "p"},
			wantErr: domain.ErrServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend, _, svc := newTestAuthService()
			backend.LoginFn = tt.loginFn

			_, err := svc.Login(context.Background(), testKey, tt.creds)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	backend, tokens, svc := newTestAuthService()
	ctx := context.Background()

	var loggedOut string
	backend.LogoutFn = func(ctx context.Context, bearer, csrf string) error {
		loggedOut = bearer
		return errors.New("remote failure is tolerated")
	}
	_ = tokens.Save(ctx, testKey, &domain.AuthTokens{BearerToken: "Bearer t", CSRFToken: "c"})

	if err := svc.Logout(ctx, testKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loggedOut != "Bearer t" {
		t.Errorf("expected remote logout of stored token, got %q", loggedOut)
	}

	stored, _ := tokens.Get(ctx, testKey)
	if stored.BearerToken != "" {
		t.Error("expected bearer token forgotten")
	}
	if stored.CSRFToken != "c" {
		t.Error("expected csrf token kept")
	}

	// second logout has nothing to do
	loggedOut = ""
	if err := svc.Logout(ctx, testKey); err != nil || loggedOut != "" {
		t.Errorf("expected no-op, got err=%v remote=%q", err, loggedOut)
	}
}

func TestAuthService_Current(t *testing.T) {
	backend, tokens, svc := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Current(ctx, testKey); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}

	_ = tokens.Save(ctx, testKey, &domain.AuthTokens{BearerToken: "Bearer t", ExpiresAt: time.Now().Add(-time.Minute)})
	if _, err := svc.Current(ctx, testKey); !errors.Is(err, domain.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}

	_ = tokens.Save(ctx, testKey, &domain.AuthTokens{BearerToken: "Bearer t", ExpiresAt: time.Now().Add(time.Hour)})
	backend.StatusFn = func(ctx context.Context, token string) (*domain.User, error) {
		return &domain.User{ID: "eperson-1"}, nil
	}
	user, err := svc.Current(ctx, testKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "eperson-1" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestAuthService_Register(t *testing.T) {
	backend, _, svc := newTestAuthService()
	ctx := context.Background()

	var retries []bool
	backend.RegisterFn = func(ctx context.Context, req domain.RegistrationRequest, csrf string, retry bool) error {
		retries = append(retries, retry)
		if !retry {
			return &domain.CSRFError{Token: "fresh", StatusCode: 403}
		}
		return nil
	}

	if err := svc.Register(ctx, testKey, domain.RegistrationRequest{Email: "jane@example.org"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(retries) != 2 || retries[0] || !retries[1] {
		t.Errorf("expected first attempt then one retry, got %v", retries)
	}
	if backend.RegisterCSRF[1] != "fresh" {
		t.Errorf("expected retry with fresh token, got %v", backend.RegisterCSRF)
	}

	if err := svc.Register(ctx, testKey, domain.RegistrationRequest{Email: "not-an-email"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_KeysAreIsolated(t *testing.T) {
	backend, tokens, svc := newTestAuthService()
	ctx := context.Background()
	bearer := testBearer(time.Now().Add(time.Hour))

	backend.LoginFn = func(ctx context.Context, creds domain.Credentials, csrf string) (*driven.LoginResult, error) {
		return &driven.LoginResult{BearerToken: bearer}, nil
	}
	backend.StatusFn = func(ctx context.Context, token string) (*domain.User, error) {
		return &domain.User{ID: "eperson-1"}, nil
	}

	if _, err := svc.Login(ctx, "client-a", domain.Credentials{Email: "a@b.c", Password: "p"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.Current(ctx, "client-b"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected another key to be logged out, got %v", err)
	}
	if err := svc.Logout(ctx, "client-b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, _ := tokens.Get(ctx, "client-a")
	if stored.BearerToken != bearer {
		t.Error("expected logout of another key to leave the token in place")
	}

	if _, err := svc.Current(ctx, ""); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for empty key, got %v", err)
	}
	if _, err := svc.Login(ctx, "", domain.Credentials{Email: "a@b.c", Password: "p"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for empty key, got %v", err)
	}
}

func TestAuthService_LogoutWithoutCSRFDeletesEntry(t *testing.T) {
	_, tokens, svc := newTestAuthService()
	ctx := context.Background()

	_ = tokens.Save(ctx, testKey, &domain.AuthTokens{BearerToken: "Bearer t"})
	if err := svc.Logout(ctx, testKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tokens.Len() != 0 {
		t.Errorf("expected entry removed, %d left", tokens.Len())
	}
}
