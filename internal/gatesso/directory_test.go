package gatesso

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iec-msi/quotation-backend/internal/shared"
)

type stubRow struct {
	values []any
}

func (r stubRow) Scan(dest ...any) error {
	for i := range dest {
		switch d := dest[i].(type) {
		case *uuid.UUID:
			*d = r.values[i].(uuid.UUID)
		case *string:
			*d = r.values[i].(string)
		case **string:
			if r.values[i] == nil {
				*d = nil
			} else {
				s := r.values[i].(string)
				*d = &s
			}
		}
	}
	return nil
}

type stubLink struct {
	rows    []stubRow
	err     error
	queries []string
}

func (s *stubLink) Query(ctx context.Context, rowDef, remoteSQL string, fn func(RowScanner) error) error {
	s.queries = append(s.queries, remoteSQL)
	if s.err != nil {
		return s.err
	}
	for _, row := range s.rows {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

func testDirectory(link Querier) *Directory {
	return NewDirectory(link, NewNameCache(nil, 0), slog.Default())
}

func TestListEmployeesDegradesToEmptyPage(t *testing.T) {
	link := &stubLink{err: ErrRemoteUnavailable}
	dir := testDirectory(link)

	page, err := dir.ListEmployees(context.Background(), shared.ListFilters{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Pagination.Total)
	assert.Equal(t, 0, page.Pagination.TotalPages)
}

func TestListEmployeesReturnsRemoteRows(t *testing.T) {
	id1, id2 := uuid.New(), uuid.New()
	link := &stubLink{rows: []stubRow{
		{values: []any{id1, "Andi Wijaya", "andi@example.com", "Sales"}},
		{values: []any{id2, "Budi Santoso", nil, nil}},
	}}
	dir := testDirectory(link)

	page, err := dir.ListEmployees(context.Background(), shared.ListFilters{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Pagination.Total)
	assert.Equal(t, "Andi Wijaya", page.Items[0].Name)
	assert.Nil(t, page.Items[1].Email)
}

func TestListEmployeesEscapesSearchTerm(t *testing.T) {
	link := &stubLink{}
	dir := testDirectory(link)

	_, err := dir.ListEmployees(context.Background(), shared.ListFilters{Search: "o'brien"})
	require.NoError(t, err)
	require.Len(t, link.queries, 1)
	assert.Contains(t, link.queries[0], "'%o''brien%'")
	assert.NotContains(t, link.queries[0], "'%o'brien%'")
}

func TestListEmployeesPaginatesLocally(t *testing.T) {
	rows := make([]stubRow, 0, 5)
	for i := 0; i < 5; i++ {
		rows = append(rows, stubRow{values: []any{uuid.New(), "Employee", nil, nil}})
	}
	dir := testDirectory(&stubLink{rows: rows})

	page, err := dir.ListEmployees(context.Background(), shared.ListFilters{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 5, page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)
}

func TestEmployeeNameDegradesToNil(t *testing.T) {
	dir := testDirectory(&stubLink{err: ErrRemoteUnavailable})

	name, err := dir.EmployeeName(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, name)
}

func TestEmployeeNamePropagatesQueryErrors(t *testing.T) {
	// A malformed remote query has no fallback and must surface unchanged.
	schemaErr := errors.New(`ERROR: column "name" does not exist`)
	dir := testDirectory(&stubLink{err: schemaErr})

	_, err := dir.EmployeeName(context.Background(), uuid.New())
	assert.ErrorIs(t, err, schemaErr)
}

func TestEmployeeNameNilIDSkipsLookup(t *testing.T) {
	link := &stubLink{}
	dir := testDirectory(link)

	name, err := dir.EmployeeName(context.Background(), uuid.Nil)
	require.NoError(t, err)
	assert.Nil(t, name)
	assert.Empty(t, link.queries)
}

func TestGetEmployeeNotFound(t *testing.T) {
	dir := testDirectory(&stubLink{})

	_, err := dir.GetEmployee(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGetEmployeeRemoteUnavailableSurfaces(t *testing.T) {
	dir := testDirectory(&stubLink{err: ErrRemoteUnavailable})

	_, err := dir.GetEmployee(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRemoteUnavailable)
}

func TestListCompaniesDegradesToEmptyPage(t *testing.T) {
	dir := testDirectory(&stubLink{err: ErrRemoteUnavailable})

	page, err := dir.ListCompanies(context.Background(), shared.ListFilters{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Pagination.Total)
}
