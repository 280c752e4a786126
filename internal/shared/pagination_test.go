package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 45, p.Total)
	assert.Equal(t, 3, p.TotalPages)

	p = NewPagination(0, 0, 5)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.PerPage)
	assert.Equal(t, 1, p.TotalPages)
}

func TestEmptyPage(t *testing.T) {
	page := EmptyPage[string](3, 10)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Equal(t, 3, page.Pagination.Page)
	assert.Equal(t, 0, page.Pagination.Total)
	assert.Equal(t, 0, page.Pagination.TotalPages)
}

func TestSortOrder(t *testing.T) {
	allowed := map[string]string{"name": "name", "created_at": "created_at"}

	assert.Equal(t, "name DESC", SortOrder("name", "desc", "created_at DESC", allowed))
	assert.Equal(t, "name ASC", SortOrder("name", "", "created_at DESC", allowed))
	// Unknown columns fall back, never reach the query.
	assert.Equal(t, "created_at DESC", SortOrder("name; DROP TABLE x", "asc", "created_at DESC", allowed))
}

func TestNormalize(t *testing.T) {
	f := ListFilters{}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, DefaultPerPage, f.Limit)

	// A request without a limit must never turn into an unbounded listing.
	f = ListFilters{Page: 2, Limit: 0}.Normalize()
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, DefaultPerPage, f.Limit)

	f = ListFilters{Page: -1, Limit: 10_000}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, MaxPerPage, f.Limit)

	f = ListFilters{Page: 4, Limit: 50, Search: "truck"}.Normalize()
	assert.Equal(t, 4, f.Page)
	assert.Equal(t, 50, f.Limit)
	assert.Equal(t, "truck", f.Search)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 40, ListFilters{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, 0, ListFilters{Page: 0, Limit: 20}.Offset())
}
