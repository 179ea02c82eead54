package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/custodia-labs/sercha-discover/internal/core/domain"
)

func parseSearchFlags(t *testing.T, args ...string) (*domain.FilterState, error) {
	t.Helper()
	var filters *domain.FilterState
	cmd := searchCommand()
	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		var err error
		filters, err = filtersFromFlags(c)
		return err
	}
	err := cmd.Run(context.Background(), append([]string{"search"}, args...))
	return filters, err
}

func TestFiltersFromFlags(t *testing.T) {
	filters, err := parseSearchFlags(t,
		"--query", "climate",
		"--author", "Doe, Jane",
		"--author", "Abe, Al",
		"--item-type", "Thesis",
		"--date-range", "1990-1999",
		"--has-file", "no",
	)
	require.NoError(t, err)

	assert.Equal(t, "climate", filters.QueryTerm())
	assert.Equal(t, []string{"Abe, Al", "Doe, Jane"}, filters.Selected(domain.DimensionAuthor))
	assert.Equal(t, []string{"Thesis"}, filters.Selected(domain.DimensionItemType))
	assert.Equal(t, []string{"1990-1999"}, filters.Selected(domain.DimensionDateRange))
	assert.Empty(t, filters.Selected(domain.DimensionSubject))
	require.NotNil(t, filters.HasFile())
	assert.False(t, *filters.HasFile())
}

func TestFiltersFromFlags_InvalidHasFile(t *testing.T) {
	_, err := parseSearchFlags(t, "--has-file", "maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseHasFile(t *testing.T) {
	v, err := parseHasFile("")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = parseHasFile("YES")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.True(t, *v)

	v, err = parseHasFile("false")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, *v)
}

func testSnapshot(view domain.ViewMode) domain.Snapshot {
	return domain.Snapshot{
		TotalItems: 12,
		TotalPages: 2,
		Pagination: domain.PaginationState{CurrentPage: 2, ItemsPerPage: 10},
		ViewMode:   view,
		Items: []domain.ObjectSummary{
			{ID: "a1", Type: "Thesis", Title: "Coastal erosion", Author: "Doe, Jane", Issued: "1995-06-01", HasFile: true},
			{ID: "a2", Type: "Article"},
		},
		Facets: domain.Facets{
			Authors:    []domain.FacetEntry{{Key: "Doe, Jane", Count: 7}, {Key: "Abe, Al", Count: 5}},
			DateRanges: []domain.FacetEntry{{Key: "1990-1999", Count: 12}},
			HasFile:    domain.HasFileCounts{Yes: 8, No: 4},
		},
	}
}

func TestRenderSnapshot_List(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderSnapshot(&buf, testSnapshot(domain.ViewModeList), domain.NewFilterState()))

	out := buf.String()
	assert.Contains(t, out, "12 results, page 2 of 2")
	assert.Contains(t, out, "Coastal erosion [Thesis]")
	assert.Contains(t, out, "Doe, Jane (1995-06-01)")
	assert.Contains(t, out, "id: a1, file: yes")
	assert.Contains(t, out, "- [Article]")
	assert.Contains(t, out, "Author: Doe, Jane (7), Abe, Al (5)")
	assert.Contains(t, out, "Date: 1990-1999 (12)")
	assert.NotContains(t, out, "Type: ")
	assert.Contains(t, out, "Has file: yes (8), no (4)")
}

func TestRenderSnapshot_Grid(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderSnapshot(&buf, testSnapshot(domain.ViewModeGrid), nil))

	out := buf.String()
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Coastal erosion")
	assert.NotContains(t, out, "id: a1")
}

func TestRenderSnapshot_MarksSelectedFacets(t *testing.T) {
	filters := domain.NewFilterState()
	require.NoError(t, filters.Toggle(domain.DimensionAuthor, "Doe, Jane", true))
	require.NoError(t, filters.Toggle(domain.DimensionItemType, "Doe, Jane", true))

	var buf bytes.Buffer
	require.NoError(t, renderSnapshot(&buf, testSnapshot(domain.ViewModeList), filters))

	out := buf.String()
	assert.Contains(t, out, "Author: *Doe, Jane (7), Abe, Al (5)")
	assert.Contains(t, out, "Date: 1990-1999 (12)")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
