package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/sercha-discover/internal/adapters/driven/secrets"
	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TokenStore = (*TokenStore)(nil)

const tokenPrefix = "discover:tokens:"

// TokenStore implements driven.TokenStore using Redis.
// Tokens are encrypted at rest and expire with the bearer token.
type TokenStore struct {
	client    *redis.Client
	encryptor *secrets.Encryptor
}

// NewTokenStore creates a new Redis-backed TokenStore
func NewTokenStore(client *redis.Client, encryptor *secrets.Encryptor) *TokenStore {
	return &TokenStore{client: client, encryptor: encryptor}
}

// Connect parses a redis:// URL and pings the server
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// Get returns the tokens stored under key, or empty tokens if none are stored
func (s *TokenStore) Get(ctx context.Context, key string) (*domain.AuthTokens, error) {
	data, err := s.client.Get(ctx, tokenPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return &domain.AuthTokens{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tokens: %w", err)
	}

	var tokens domain.AuthTokens
	if err := s.encryptor.Decrypt(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to decrypt tokens: %w", err)
	}
	return &tokens, nil
}

// Save stores tokens under key. A known bearer expiry becomes the key TTL;
// an already expired bearer token is dropped and only the CSRF token kept.
func (s *TokenStore) Save(ctx context.Context, key string, tokens *domain.AuthTokens) error {
	stored := *tokens
	var ttl time.Duration
	if !stored.ExpiresAt.IsZero() {
		ttl = time.Until(stored.ExpiresAt)
		if ttl <= 0 {
			stored.BearerToken = ""
			stored.ExpiresAt = time.Time{}
			ttl = 0
		}
	}

	data, err := s.encryptor.Encrypt(stored)
	if err != nil {
		return fmt.Errorf("failed to encrypt tokens: %w", err)
	}

	if err := s.client.Set(ctx, tokenPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

// Delete removes the tokens stored under key
func (s *TokenStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, tokenPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}
