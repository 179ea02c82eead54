package dspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
	"github.com/custodia-labs/sercha-discover/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.SearchBackend = (*Client)(nil)

const searchPath = "/api/discover/search/objects"

// searchResponse mirrors the HAL envelope of the discovery endpoint.
// Pointers distinguish a missing level from an empty one.
type searchResponse struct {
	Embedded *struct {
		SearchResult *struct {
			Embedded *struct {
				Objects *[]searchHit `json:"objects"`
			} `json:"_embedded"`
		} `json:"searchResult"`
	} `json:"_embedded"`
}

type searchHit struct {
	Embedded struct {
		IndexableObject *indexableObject `json:"indexableObject"`
	} `json:"_embedded"`
}

type indexableObject struct {
	ID       string          `json:"id"`
	UUID     string          `json:"uuid"`
	Type     string          `json:"type"`
	Metadata domain.Metadata `json:"metadata"`
	HasFile  bool            `json:"hasFile"`
}

// Search issues a discovery query. The request is unauthenticated.
func (c *Client) Search(ctx context.Context, params domain.QueryParameters) (domain.ResultSet, error) {
	url := fmt.Sprintf("%s%s?%s", c.baseURL, searchPath, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, domain.NewSearchError(domain.SearchErrorNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.NewSearchError(domain.SearchErrorNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.SearchError{
			Kind:       domain.SearchErrorStatus,
			StatusCode: resp.StatusCode,
			Err:        readError(resp),
		}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, domain.NewSearchError(domain.SearchErrorMalformed, err)
	}

	return decodeResultSet(body)
}

var (
	errMissingResultPath = errors.New("response has no _embedded.searchResult._embedded.objects")
	errMissingObject     = errors.New("search hit has no _embedded.indexableObject")
)

func decodeResultSet(body searchResponse) (domain.ResultSet, error) {
	if body.Embedded == nil || body.Embedded.SearchResult == nil ||
		body.Embedded.SearchResult.Embedded == nil || body.Embedded.SearchResult.Embedded.Objects == nil {
		return nil, domain.NewSearchError(domain.SearchErrorMalformed, errMissingResultPath)
	}

	hits := *body.Embedded.SearchResult.Embedded.Objects
	results := make(domain.ResultSet, 0, len(hits))
	for i, hit := range hits {
		obj := hit.Embedded.IndexableObject
		if obj == nil {
			return nil, domain.NewSearchError(domain.SearchErrorMalformed, fmt.Errorf("hit %d: %w", i, errMissingObject))
		}
		id := obj.ID
		if id == "" {
			id = obj.UUID
		}
		metadata := obj.Metadata
		if metadata == nil {
			metadata = domain.Metadata{}
		}
		results = append(results, domain.IndexedObject{
			ID:       id,
			Type:     obj.Type,
			Metadata: metadata,
			HasFile:  obj.HasFile,
		})
	}
	return results, nil
}
