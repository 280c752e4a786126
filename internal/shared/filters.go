package shared

// ListFilters carries the common list query parameters.
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string
}

const (
	// DefaultPerPage is the page size used when a request carries none.
	DefaultPerPage = 20
	// MaxPerPage caps the page size a request may ask for.
	MaxPerPage = 100
)

// Normalize clamps paging input before it reaches a repository. A missing
// or non-positive limit becomes the default page size rather than an
// unbounded listing, so the rows returned always match the envelope's
// per_page.
func (f ListFilters) Normalize() ListFilters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPerPage
	}
	if f.Limit > MaxPerPage {
		f.Limit = MaxPerPage
	}
	return f
}

// Offset computes the row offset for the current page.
func (f ListFilters) Offset() int {
	offset := (f.Page - 1) * f.Limit
	if offset < 0 {
		return 0
	}
	return offset
}

// SortOrder resolves the ORDER BY clause against an allow-list of columns.
// Unsupported input silently falls back to the provided default.
func SortOrder(sortBy, sortDir, fallback string, allowed map[string]string) string {
	col, ok := allowed[sortBy]
	if !ok {
		return fallback
	}
	dir := "ASC"
	if sortDir == "desc" {
		dir = "DESC"
	}
	return col + " " + dir
}
