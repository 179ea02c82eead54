package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// Backend query parameter names and fixed values
const (
	ParamSort          = "sort"
	ParamConfiguration = "configuration"
	ParamEmbed         = "embed"
	ParamQuery         = "query"
	ParamHasFile       = "f.has_content_in_original_bundle"

	DefaultSort          = "score"
	DefaultConfiguration = "default"
	EmbedItem            = "item"

	// filterOperator is appended to every facet filter value list
	filterOperator = "equals"
)

var filterParams = map[Dimension]string{
	DimensionAuthor:    "f.author",
	DimensionSubject:   "f.subject",
	DimensionDateRange: "f.dateIssued",
	DimensionItemType:  "f.type",
}

// FilterParam returns the backend parameter name for a dimension
func FilterParam(dim Dimension) (string, error) {
	name, ok := filterParams[dim]
	if !ok {
		return "", ErrUnknownDimension
	}
	return name, nil
}

// QueryParam is one key/value pair of a backend query
type QueryParam struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// QueryParameters is the flattened, ordered form of a backend query
type QueryParameters []QueryParam

// Get returns the first value for key
func (q QueryParameters) Get(key string) (string, bool) {
	for _, p := range q {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Has reports whether key is present
func (q QueryParameters) Has(key string) bool {
	_, ok := q.Get(key)
	return ok
}

// Values returns every value for key in order
func (q QueryParameters) Values(key string) []string {
	var values []string
	for _, p := range q {
		if p.Key == key {
			values = append(values, p.Value)
		}
	}
	return values
}

// Encode renders the parameters as a URL query string, keeping their order
func (q QueryParameters) Encode() string {
	var sb strings.Builder
	for i, p := range q {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

// BuildQuery turns a filter state into backend query parameters.
// It is pure: equal states always produce identical parameters.
func BuildQuery(f *FilterState) QueryParameters {
	if f == nil {
		f = NewFilterState()
	}
	params := QueryParameters{
		{Key: ParamSort, Value: DefaultSort},
		{Key: ParamConfiguration, Value: DefaultConfiguration},
	}

	for _, dim := range Dimensions {
		values := f.Selected(dim)
		if len(values) == 0 {
			continue
		}
		name, err := FilterParam(dim)
		if err != nil {
			continue
		}
		params = append(params, QueryParam{
			Key:   name,
			Value: strings.Join(values, ",") + "," + filterOperator,
		})
	}

	if hasFile := f.HasFile(); hasFile != nil {
		params = append(params, QueryParam{
			Key:   ParamHasFile,
			Value: strconv.FormatBool(*hasFile) + "," + filterOperator,
		})
	}

	if term := strings.TrimSpace(f.QueryTerm()); term != "" {
		params = append(params,
			QueryParam{Key: ParamEmbed, Value: EmbedItem},
			QueryParam{Key: ParamQuery, Value: term},
		)
	}

	return params
}
