// Package memory holds process-local stores used when no Redis or
// PostgreSQL is configured.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore keeps auth tokens in a map
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]domain.AuthTokens
}

// NewTokenStore creates an empty TokenStore
func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]domain.AuthTokens)}
}

// Get returns a copy of the stored tokens, or empty tokens
func (s *TokenStore) Get(_ context.Context, key string) (*domain.AuthTokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.tokens[key]
	return &t, nil
}

// Save stores a copy of tokens
func (s *TokenStore) Save(_ context.Context, key string, tokens *domain.AuthTokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[key] = *tokens
	return nil
}

// Delete forgets the tokens under key
func (s *TokenStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, key)
	return nil
}
