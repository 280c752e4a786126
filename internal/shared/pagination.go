package shared

import "math"

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// ListPage wraps list results with their pagination envelope.
type ListPage[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// EmptyPage returns a zero-result page keeping the requested page/per_page.
// Used by listings that degrade when their backing source is unavailable.
func EmptyPage[T any](page, perPage int) ListPage[T] {
	return ListPage[T]{Items: []T{}, Pagination: NewPagination(page, perPage, 0)}
}
