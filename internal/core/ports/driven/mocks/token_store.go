package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
)

// Ensure MockTokenStore implements TokenStore
var _ driven.TokenStore = (*MockTokenStore)(nil)

// MockTokenStore is a mock implementation of TokenStore for testing
type MockTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]domain.AuthTokens
}

// NewMockTokenStore creates a new MockTokenStore
func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{tokens: make(map[string]domain.AuthTokens)}
}

func (m *MockTokenStore) Get(ctx context.Context, key string) (*domain.AuthTokens, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t := m.tokens[key]
	return &t, nil
}

func (m *MockTokenStore) Save(ctx context.Context, key string, tokens *domain.AuthTokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[key] = *tokens
	return nil
}

func (m *MockTokenStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, key)
	return nil
}

// Len returns the number of stored entries
func (m *MockTokenStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tokens)
}
