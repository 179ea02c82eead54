package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
)

// Ensure MockSearchBackend implements SearchBackend
var _ driven.SearchBackend = (*MockSearchBackend)(nil)

// MockSearchBackend is an in-memory SearchBackend for testing.
// It filters its objects the way the repository applies "equals" facet
// filters and matches the query against title and abstract.
type MockSearchBackend struct {
	mu      sync.RWMutex
	objects domain.ResultSet
	calls   []domain.QueryParameters
	err     error

	// SearchFn, when set, replaces the built-in filtering
	SearchFn func(ctx context.Context, params domain.QueryParameters) (domain.ResultSet, error)
}

// NewMockSearchBackend creates a MockSearchBackend serving objects
func NewMockSearchBackend(objects ...domain.IndexedObject) *MockSearchBackend {
	return &MockSearchBackend{objects: objects}
}

// SetObjects replaces the indexed objects
func (m *MockSearchBackend) SetObjects(objects ...domain.IndexedObject) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = objects
}

// SetError makes every following search fail with err (nil to clear)
func (m *MockSearchBackend) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the parameters of every search received
func (m *MockSearchBackend) Calls() []domain.QueryParameters {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.QueryParameters, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockSearchBackend) Search(ctx context.Context, params domain.QueryParameters) (domain.ResultSet, error) {
	m.mu.Lock()
	m.calls = append(m.calls, params)
	fn := m.SearchFn
	err := m.err
	objects := m.objects
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, params)
	}
	if err != nil {
		return nil, err
	}

	results := domain.ResultSet{}
	for _, obj := range objects {
		if matches(obj, params) {
			results = append(results, obj)
		}
	}
	return results, nil
}

func (m *MockSearchBackend) HealthCheck(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.err
}

func matches(obj domain.IndexedObject, params domain.QueryParameters) bool {
	for _, p := range params {
		switch p.Key {
		case "f.author":
			author, _ := obj.Metadata.Value(domain.FieldAuthor)
			if !inFilter(p.Value, author) {
				return false
			}
		case "f.subject":
			subject, _ := obj.Metadata.Value(domain.FieldSubject)
			if !inFilter(p.Value, subject) {
				return false
			}
		case "f.type":
			if !inFilter(p.Value, obj.Type) {
				return false
			}
		case "f.dateIssued":
			issued, _ := obj.Metadata.Value(domain.FieldDateIssued)
			bucket, err := domain.DecadeBucket(issued)
			if err != nil || !inFilter(p.Value, bucket) {
				return false
			}
		case domain.ParamHasFile:
			want := strings.HasPrefix(p.Value, "true")
			if obj.HasFile != want {
				return false
			}
		case domain.ParamQuery:
			title, _ := obj.Metadata.Value(domain.FieldTitle)
			abstract, _ := obj.Metadata.Value(domain.FieldAbstract)
			q := strings.ToLower(p.Value)
			if !strings.Contains(strings.ToLower(title), q) && !strings.Contains(strings.ToLower(abstract), q) {
				return false
			}
		}
	}
	return true
}

// inFilter checks value against a "v1,v2,...,equals" filter
func inFilter(filter, value string) bool {
	list := "," + strings.TrimSuffix(filter, ",equals") + ","
	return strings.Contains(list, ","+value+",")
}
