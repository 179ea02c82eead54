package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// FacetEntry is one value of a facet dimension with the number of objects
// in the current result set that produce it
type FacetEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// HasFileCounts tallies objects with and without an attached file
type HasFileCounts struct {
	Yes int `json:"yes"`
	No  int `json:"no"`
}

// Facets holds the distributions derived from one result set
type Facets struct {
	Authors    []FacetEntry  `json:"authors"`
	ItemTypes  []FacetEntry  `json:"item_types"`
	DateRanges []FacetEntry  `json:"date_ranges"`
	HasFile    HasFileCounts `json:"has_file"`
}

// AggregateFacets tallies every facet dimension over the whole result set.
// Objects missing a value are left out of that dimension only, and so are
// objects whose issued date carries no readable year.
func AggregateFacets(rs ResultSet) Facets {
	authors := make(map[string]int)
	types := make(map[string]int)
	decades := make(map[string]int)
	var hasFile HasFileCounts

	for _, obj := range rs {
		if author, ok := obj.Metadata.Value(FieldAuthor); ok && author != "" {
			authors[author]++
		}
		if obj.Type != "" {
			types[obj.Type]++
		}
		if issued, ok := obj.Metadata.Value(FieldDateIssued); ok {
			if bucket, err := DecadeBucket(issued); err == nil {
				decades[bucket]++
			}
		}
		if obj.HasFile {
			hasFile.Yes++
		} else {
			hasFile.No++
		}
	}

	return Facets{
		Authors:    facetEntries(authors),
		ItemTypes:  facetEntries(types),
		DateRanges: facetEntries(decades),
		HasFile:    hasFile,
	}
}

// facetEntries orders tallies by count descending, then key ascending
func facetEntries(counts map[string]int) []FacetEntry {
	entries := make([]FacetEntry, 0, len(counts))
	for key, count := range counts {
		entries = append(entries, FacetEntry{Key: key, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// DecadeBucket maps an issued date to its decade, "1990-1999" for "1995-06-01".
// The value must start with a four digit year; YYYY, YYYY-MM, YYYY-MM-DD and
// RFC 3339 timestamps all qualify.
func DecadeBucket(issued string) (string, error) {
	year, err := parseYear(issued)
	if err != nil {
		return "", err
	}
	start := (year / 10) * 10
	return fmt.Sprintf("%d-%d", start, start+9), nil
}

func parseYear(value string) (int, error) {
	value = strings.TrimSpace(value)
	if len(value) < 4 {
		return 0, fmt.Errorf("%w: %q", ErrDateParse, value)
	}
	if len(value) > 4 && value[4] >= '0' && value[4] <= '9' {
		return 0, fmt.Errorf("%w: %q", ErrDateParse, value)
	}
	for i := 0; i < 4; i++ {
		if value[i] < '0' || value[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrDateParse, value)
		}
	}
	year, err := strconv.Atoi(value[:4])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrDateParse, value)
	}
	return year, nil
}
