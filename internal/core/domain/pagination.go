package domain

// DefaultItemsPerPage is the page size of a new search session
const DefaultItemsPerPage = 10

// PaginationState is the current page window over a result set
type PaginationState struct {
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
}

// NewPaginationState starts at page 1. Non-positive sizes fall back to
// DefaultItemsPerPage.
func NewPaginationState(itemsPerPage int) PaginationState {
	if itemsPerPage <= 0 {
		itemsPerPage = DefaultItemsPerPage
	}
	return PaginationState{CurrentPage: 1, ItemsPerPage: itemsPerPage}
}

// TotalPages is ceil(total/itemsPerPage), never less than 1
func TotalPages(total, itemsPerPage int) int {
	if itemsPerPage <= 0 || total <= 0 {
		return 1
	}
	return (total + itemsPerPage - 1) / itemsPerPage
}

// PageOf returns the contiguous slice of rs for the state's current page.
// A page beyond the result set yields an empty slice.
func PageOf(rs ResultSet, p PaginationState) ResultSet {
	if p.ItemsPerPage <= 0 || p.CurrentPage < 1 {
		return ResultSet{}
	}
	start := (p.CurrentPage - 1) * p.ItemsPerPage
	if start >= len(rs) {
		return ResultSet{}
	}
	end := start + p.ItemsPerPage
	if end > len(rs) {
		end = len(rs)
	}
	return rs[start:end]
}

// Clamp moves the current page into [1, totalPages]
func (p *PaginationState) Clamp(totalPages int) {
	if totalPages < 1 {
		totalPages = 1
	}
	if p.CurrentPage > totalPages {
		p.CurrentPage = totalPages
	}
	if p.CurrentPage < 1 {
		p.CurrentPage = 1
	}
}

// Next advances one page; a no-op on the last page
func (p *PaginationState) Next(totalPages int) {
	p.GoTo(p.CurrentPage+1, totalPages)
}

// Previous goes back one page; a no-op on the first page
func (p *PaginationState) Previous(totalPages int) {
	p.GoTo(p.CurrentPage-1, totalPages)
}

// GoTo jumps to page n, clamped into [1, totalPages]
func (p *PaginationState) GoTo(n, totalPages int) {
	p.CurrentPage = n
	p.Clamp(totalPages)
}

// Reset returns to the first page
func (p *PaginationState) Reset() {
	p.CurrentPage = 1
}

// SetItemsPerPage changes the page size and clamps the current page
func (p *PaginationState) SetItemsPerPage(n, total int) error {
	if n <= 0 {
		return ErrInvalidInput
	}
	p.ItemsPerPage = n
	p.Clamp(TotalPages(total, n))
	return nil
}
