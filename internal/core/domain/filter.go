package domain

import "sort"

// Dimension names a multi-valued facet the user can filter on
type Dimension string

const (
	DimensionAuthor    Dimension = "author"
	DimensionSubject   Dimension = "subject"
	DimensionDateRange Dimension = "dateRange"
	DimensionItemType  Dimension = "itemType"
)

// Dimensions lists the set-valued dimensions in query order
var Dimensions = []Dimension{
	DimensionAuthor,
	DimensionSubject,
	DimensionDateRange,
	DimensionItemType,
}

// IsValid checks if the dimension is one of the known facet dimensions
func (d Dimension) IsValid() bool {
	switch d {
	case DimensionAuthor, DimensionSubject, DimensionDateRange, DimensionItemType:
		return true
	}
	return false
}

// FilterState holds the user's facet selections and free-text term.
// It knows nothing about the backend; the search session re-searches after
// each mutation. The zero value is ready to use.
type FilterState struct {
	queryTerm string
	hasFile   *bool
	selected  map[Dimension]map[string]struct{}
}

// NewFilterState creates an empty FilterState
func NewFilterState() *FilterState {
	return &FilterState{selected: make(map[Dimension]map[string]struct{})}
}

// Toggle adds value to (selected=true) or removes it from the dimension's set.
// Repeating the same toggle is a no-op.
func (f *FilterState) Toggle(dim Dimension, value string, selected bool) error {
	if !dim.IsValid() {
		return ErrUnknownDimension
	}
	if f.selected == nil {
		f.selected = make(map[Dimension]map[string]struct{})
	}
	set := f.selected[dim]
	if selected {
		if set == nil {
			set = make(map[string]struct{})
			f.selected[dim] = set
		}
		set[value] = struct{}{}
		return nil
	}
	delete(set, value)
	return nil
}

// IsSelected reports whether value is selected in the dimension.
// A nil FilterState selects nothing.
func (f *FilterState) IsSelected(dim Dimension, value string) bool {
	if f == nil {
		return false
	}
	_, ok := f.selected[dim][value]
	return ok
}

// Selected returns the dimension's selected values in ascending order
func (f *FilterState) Selected(dim Dimension) []string {
	set := f.selected[dim]
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// SetHasFile replaces the has-file constraint; nil removes it
func (f *FilterState) SetHasFile(value *bool) {
	if value == nil {
		f.hasFile = nil
		return
	}
	v := *value
	f.hasFile = &v
}

// HasFile returns the has-file constraint, nil when unset
func (f *FilterState) HasFile() *bool {
	if f.hasFile == nil {
		return nil
	}
	v := *f.hasFile
	return &v
}

// SetQueryTerm replaces the free-text term as typed
func (f *FilterState) SetQueryTerm(term string) {
	f.queryTerm = term
}

// QueryTerm returns the free-text term as typed
func (f *FilterState) QueryTerm() string {
	return f.queryTerm
}

// Reset clears every facet selection and the has-file constraint.
// The free-text term is kept.
func (f *FilterState) Reset() {
	f.selected = make(map[Dimension]map[string]struct{})
	f.hasFile = nil
}

// Clone returns a deep copy
func (f *FilterState) Clone() *FilterState {
	c := NewFilterState()
	c.queryTerm = f.queryTerm
	c.SetHasFile(f.hasFile)
	for dim, set := range f.selected {
		if len(set) == 0 {
			continue
		}
		cs := make(map[string]struct{}, len(set))
		for v := range set {
			cs[v] = struct{}{}
		}
		c.selected[dim] = cs
	}
	return c
}

// FilterSnapshot is the serialisable view of a FilterState
type FilterSnapshot struct {
	QueryTerm string   `json:"query_term"`
	Author    []string `json:"author"`
	Subject   []string `json:"subject"`
	DateRange []string `json:"date_range"`
	ItemType  []string `json:"item_type"`
	HasFile   *bool    `json:"has_file"`
}

// Snapshot returns the serialisable view of the filter state
func (f *FilterState) Snapshot() FilterSnapshot {
	return FilterSnapshot{
		QueryTerm: f.queryTerm,
		Author:    f.Selected(DimensionAuthor),
		Subject:   f.Selected(DimensionSubject),
		DateRange: f.Selected(DimensionDateRange),
		ItemType:  f.Selected(DimensionItemType),
		HasFile:   f.HasFile(),
	}
}
