package domain

import "fmt"

// ViewMode is how the result page is laid out
type ViewMode string

const (
	ViewModeList ViewMode = "list"
	ViewModeGrid ViewMode = "grid"
)

// IsValid checks if the view mode is known
func (v ViewMode) IsValid() bool {
	return v == ViewModeList || v == ViewModeGrid
}

// CommandTarget is the mutable state of a search session a command acts on
type CommandTarget struct {
	Filters    *FilterState
	Pagination *PaginationState
	View       *ViewMode
	// Total is the size of the current result set
	Total int
}

// Command is one user edit of a search session.
// Commands that change filters are followed by exactly one search.
type Command interface {
	Apply(t CommandTarget) error
	Searches() bool
}

// ToggleFacet selects or deselects a facet value
type ToggleFacet struct {
	Dimension Dimension
	Value     string
	Selected  bool
}

func (c ToggleFacet) Apply(t CommandTarget) error {
	return t.Filters.Toggle(c.Dimension, c.Value, c.Selected)
}

func (c ToggleFacet) Searches() bool { return true }

// SetHasFile replaces the has-file constraint; nil clears it
type SetHasFile struct {
	Value *bool
}

func (c SetHasFile) Apply(t CommandTarget) error {
	t.Filters.SetHasFile(c.Value)
	return nil
}

func (c SetHasFile) Searches() bool { return true }

// SetQueryTerm replaces the free-text term and searches
type SetQueryTerm struct {
	Term string
}

func (c SetQueryTerm) Apply(t CommandTarget) error {
	t.Filters.SetQueryTerm(c.Term)
	return nil
}

func (c SetQueryTerm) Searches() bool { return true }

// ResetFilters clears all facet selections, keeping the term
type ResetFilters struct{}

func (ResetFilters) Apply(t CommandTarget) error {
	t.Filters.Reset()
	return nil
}

func (ResetFilters) Searches() bool { return true }

// PageAction is a pagination move
type PageAction string

const (
	PageNext     PageAction = "next"
	PagePrevious PageAction = "previous"
	PageGoTo     PageAction = "goto"
)

// Paginate moves the page window without searching
type Paginate struct {
	Action PageAction
	Page   int
}

func (c Paginate) Apply(t CommandTarget) error {
	total := TotalPages(t.Total, t.Pagination.ItemsPerPage)
	switch c.Action {
	case PageNext:
		t.Pagination.Next(total)
	case PagePrevious:
		t.Pagination.Previous(total)
	case PageGoTo:
		t.Pagination.GoTo(c.Page, total)
	default:
		return fmt.Errorf("%w: page action %q", ErrInvalidInput, c.Action)
	}
	return nil
}

func (c Paginate) Searches() bool { return false }

// SetItemsPerPage changes the page size
type SetItemsPerPage struct {
	ItemsPerPage int
}

func (c SetItemsPerPage) Apply(t CommandTarget) error {
	return t.Pagination.SetItemsPerPage(c.ItemsPerPage, t.Total)
}

func (c SetItemsPerPage) Searches() bool { return false }

// SetViewMode switches between list and grid layout
type SetViewMode struct {
	Mode ViewMode
}

func (c SetViewMode) Apply(t CommandTarget) error {
	if !c.Mode.IsValid() {
		return fmt.Errorf("%w: view mode %q", ErrInvalidInput, c.Mode)
	}
	*t.View = c.Mode
	return nil
}

func (c SetViewMode) Searches() bool { return false }

// CommandRequest is the wire form of a Command
type CommandRequest struct {
	Type         string     `json:"type"`
	Dimension    Dimension  `json:"dimension,omitempty"`
	Value        string     `json:"value,omitempty"`
	Selected     bool       `json:"selected,omitempty"`
	HasFile      *bool      `json:"has_file,omitempty"`
	Term         string     `json:"term,omitempty"`
	Action       PageAction `json:"action,omitempty"`
	Page         int        `json:"page,omitempty"`
	ItemsPerPage int        `json:"items_per_page,omitempty"`
	ViewMode     ViewMode   `json:"view_mode,omitempty"`
}

// Command types accepted in CommandRequest.Type
const (
	CommandToggleFacet     = "toggle_facet"
	CommandSetHasFile      = "set_has_file"
	CommandSetQueryTerm    = "set_query_term"
	CommandResetFilters    = "reset_filters"
	CommandPaginate        = "paginate"
	CommandSetItemsPerPage = "set_items_per_page"
	CommandSetViewMode     = "set_view_mode"
)

// Command converts the request into its Command
func (r CommandRequest) Command() (Command, error) {
	switch r.Type {
	case CommandToggleFacet:
		if !r.Dimension.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, r.Dimension)
		}
		return ToggleFacet{Dimension: r.Dimension, Value: r.Value, Selected: r.Selected}, nil
	case CommandSetHasFile:
		return SetHasFile{Value: r.HasFile}, nil
	case CommandSetQueryTerm:
		return SetQueryTerm{Term: r.Term}, nil
	case CommandResetFilters:
		return ResetFilters{}, nil
	case CommandPaginate:
		return Paginate{Action: r.Action, Page: r.Page}, nil
	case CommandSetItemsPerPage:
		return SetItemsPerPage{ItemsPerPage: r.ItemsPerPage}, nil
	case CommandSetViewMode:
		return SetViewMode{Mode: r.ViewMode}, nil
	}
	return nil, fmt.Errorf("%w: command type %q", ErrInvalidInput, r.Type)
}
