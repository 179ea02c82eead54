package dspace

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
)

const searchFixture = `{
  "_embedded": {
    "searchResult": {
      "_embedded": {
        "objects": [
          {"_embedded": {"indexableObject": {
            "id": "item-1", "type": "Article", "hasFile": true,
            "metadata": {
              "dc.contributor.author": [{"value": "Doe, Jane"}],
              "dc.date.issued": [{"value": "1994-03-01"}],
              "dc.title": [{"value": "Coastal erosion"}]
            }
          }}},
          {"_embedded": {"indexableObject": {"uuid": "item-2", "type": "Thesis"}}}
        ]
      }
    }
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(DefaultConfig(server.URL + "/"))
}

func TestSearch_Success(t *testing.T) {
	var gotPath, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchFixture))
	})

	filters := domain.NewFilterState()
	_ = filters.Toggle(domain.DimensionAuthor, "Doe, Jane", true)
	params := domain.BuildQuery(filters)

	results, err := client.Search(context.Background(), params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != searchPath {
		t.Errorf("expected path %s, got %s", searchPath, gotPath)
	}
	if gotQuery != params.Encode() {
		t.Errorf("expected query %q, got %q", params.Encode(), gotQuery)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	first := results[0]
	if first.ID != "item-1" || first.Type != "Article" || !first.HasFile {
		t.Errorf("unexpected first result: %+v", first)
	}
	if author, _ := first.Metadata.Value(domain.FieldAuthor); author != "Doe, Jane" {
		t.Errorf("expected author Doe, Jane, got %q", author)
	}
	if results[1].ID != "item-2" {
		t.Errorf("expected uuid fallback item-2, got %q", results[1].ID)
	}
	if results[1].Metadata == nil {
		t.Error("expected empty metadata map, got nil")
	}
}

func TestSearch_EmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"_embedded":{"searchResult":{"_embedded":{"objects":[]}}}}`))
	})

	results, err := client.Search(context.Background(), domain.BuildQuery(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil result set, got %v", results)
	}
}

func TestSearch_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		kind   domain.SearchErrorKind
	}{
		{"server error", http.StatusInternalServerError, `oops`, domain.SearchErrorStatus},
		{"bad request", http.StatusBadRequest, `{}`, domain.SearchErrorStatus},
		{"invalid json", http.StatusOK, `{"_embedded":`, domain.SearchErrorMalformed},
		{"missing path", http.StatusOK, `{"_embedded":{}}`, domain.SearchErrorMalformed},
		{"missing object", http.StatusOK, `{"_embedded":{"searchResult":{"_embedded":{"objects":[{"_embedded":{}}]}}}}`, domain.SearchErrorMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Search(context.Background(), domain.BuildQuery(nil))
			if !errors.Is(err, domain.ErrSearchFailed) {
				t.Fatalf("expected ErrSearchFailed, got %v", err)
			}

			var searchErr *domain.SearchError
			if !errors.As(err, &searchErr) {
				t.Fatalf("expected *SearchError, got %T", err)
			}
			if searchErr.Kind != tt.kind {
				t.Errorf("expected kind %v, got %v", tt.kind, searchErr.Kind)
			}
			if tt.kind == domain.SearchErrorStatus && searchErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, searchErr.StatusCode)
			}
		})
	}
}

func TestSearch_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client := NewClient(Config{BaseURL: server.URL, Timeout: time.Second})
	_, err := client.Search(context.Background(), domain.BuildQuery(nil))

	var searchErr *domain.SearchError
	if !errors.As(err, &searchErr) || searchErr.Kind != domain.SearchErrorNetwork {
		t.Fatalf("expected network SearchError, got %v", err)
	}
}

func TestHealthCheck(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	if err := down.HealthCheck(context.Background()); err == nil {
		t.Error("expected error for unavailable repository")
	}
}
