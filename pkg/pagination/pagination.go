package pagination

// Page size bounds applied to every listing
const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Pagination describes the page returned to the caller
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// PaginationParams is the page a caller asked for
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination is the first page at the default size
func DefaultPagination() *PaginationParams {
	return &PaginationParams{Page: 1, PerPage: DefaultPerPage}
}

// Validate clamps the page to at least 1 and the size to 1..MaxPerPage,
// replacing a missing size with the default
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	switch {
	case p.PerPage < 1:
		p.PerPage = DefaultPerPage
	case p.PerPage > MaxPerPage:
		p.PerPage = MaxPerPage
	}
}

// Offset is the number of rows before the requested page
func (p *PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PerPage
}

// NewPagination describes page out of total rows split perPage at a time
func NewPagination(page, perPage int, total int64) *Pagination {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if page < 1 {
		page = 1
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	return &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}

// PaginatedResult is one page of items with its description
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewPaginatedResult wraps items, rendering an empty page as [] rather than null
func NewPaginatedResult[T any](items []T, pagination *Pagination) *PaginatedResult[T] {
	if items == nil {
		items = []T{}
	}
	return &PaginatedResult[T]{
		Items:      items,
		Pagination: pagination,
	}
}
