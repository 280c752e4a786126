package gatesso

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/iec-msi/quotation-backend/internal/shared"
)

const (
	employeeRowDef = "id uuid, name text, email text, position text"
	companyRowDef  = "id uuid, name text, code text"
	nameRowDef     = "name text"
)

// Directory reads employees and companies from gate_sso with the degradation
// rules the rest of the system relies on: listings return empty pages when
// the link is down, single-name enrichment returns nil.
type Directory struct {
	link   Querier
	cache  *NameCache
	logger *slog.Logger
}

func NewDirectory(link Querier, cache *NameCache, logger *slog.Logger) *Directory {
	return &Directory{link: link, cache: cache, logger: logger}
}

// ListEmployees lists sales employees. The whole result depends on the
// remote source, so an unavailable link yields an empty page with zero
// total instead of an error.
func (d *Directory) ListEmployees(ctx context.Context, f shared.ListFilters) (shared.ListPage[Employee], error) {
	f = f.Normalize()
	remote := `SELECT id, name, email, position FROM employees WHERE deleted_at IS NULL`
	if f.Search != "" {
		pattern := QuoteLiteral("%" + f.Search + "%")
		remote += fmt.Sprintf(` AND (name ILIKE %s OR email ILIKE %s)`, pattern, pattern)
	}
	remote += ` ORDER BY name ASC`

	var all []Employee
	err := d.link.Query(ctx, employeeRowDef, remote, func(row RowScanner) error {
		var e Employee
		if err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Position); err != nil {
			return err
		}
		all = append(all, e)
		return nil
	})
	if errors.Is(err, ErrRemoteUnavailable) {
		d.logWarn("employee listing degraded", err)
		return shared.EmptyPage[Employee](f.Page, f.Limit), nil
	}
	if err != nil {
		return shared.ListPage[Employee]{}, err
	}

	for _, e := range all {
		d.cache.SetEmployeeName(ctx, e.ID, e.Name)
	}
	return paginate(all, f), nil
}

// GetEmployee fetches a single employee. Unlike listings there is no
// degraded answer for a point read, so link failures surface to the caller.
func (d *Directory) GetEmployee(ctx context.Context, id uuid.UUID) (*Employee, error) {
	remote := fmt.Sprintf(
		`SELECT id, name, email, position FROM employees WHERE deleted_at IS NULL AND id = %s`,
		QuoteLiteral(id.String()),
	)
	var found *Employee
	err := d.link.Query(ctx, employeeRowDef, remote, func(row RowScanner) error {
		var e Employee
		if err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Position); err != nil {
			return err
		}
		found = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, shared.ErrNotFound
	}
	d.cache.SetEmployeeName(ctx, found.ID, found.Name)
	return found, nil
}

// EmployeeName resolves a display name for enrichment. Cache first, then the
// link; when the link is unavailable the enrichment degrades to nil rather
// than failing the surrounding request.
func (d *Directory) EmployeeName(ctx context.Context, id uuid.UUID) (*string, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	if name, ok := d.cache.EmployeeName(ctx, id); ok {
		return &name, nil
	}

	remote := fmt.Sprintf(
		`SELECT name FROM employees WHERE deleted_at IS NULL AND id = %s`,
		QuoteLiteral(id.String()),
	)
	var name *string
	err := d.link.Query(ctx, nameRowDef, remote, func(row RowScanner) error {
		var n string
		if err := row.Scan(&n); err != nil {
			return err
		}
		name = &n
		return nil
	})
	if errors.Is(err, ErrRemoteUnavailable) {
		d.logWarn("employee name enrichment degraded", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if name != nil {
		d.cache.SetEmployeeName(ctx, id, *name)
	}
	return name, nil
}

// ListCompanies lists companies with the same degradation rule as employees.
func (d *Directory) ListCompanies(ctx context.Context, f shared.ListFilters) (shared.ListPage[Company], error) {
	f = f.Normalize()
	remote := `SELECT id, name, code FROM companies WHERE deleted_at IS NULL`
	if f.Search != "" {
		pattern := QuoteLiteral("%" + f.Search + "%")
		remote += fmt.Sprintf(` AND (name ILIKE %s OR code ILIKE %s)`, pattern, pattern)
	}
	remote += ` ORDER BY name ASC`

	var all []Company
	err := d.link.Query(ctx, companyRowDef, remote, func(row RowScanner) error {
		var c Company
		if err := row.Scan(&c.ID, &c.Name, &c.Code); err != nil {
			return err
		}
		all = append(all, c)
		return nil
	})
	if errors.Is(err, ErrRemoteUnavailable) {
		d.logWarn("company listing degraded", err)
		return shared.EmptyPage[Company](f.Page, f.Limit), nil
	}
	if err != nil {
		return shared.ListPage[Company]{}, err
	}

	for _, c := range all {
		d.cache.SetCompanyName(ctx, c.ID, c.Name)
	}
	return paginate(all, f), nil
}

// CompanyName resolves a company display name for enrichment, degrading to
// nil when the link is down.
func (d *Directory) CompanyName(ctx context.Context, id uuid.UUID) (*string, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	if name, ok := d.cache.CompanyName(ctx, id); ok {
		return &name, nil
	}

	remote := fmt.Sprintf(
		`SELECT name FROM companies WHERE deleted_at IS NULL AND id = %s`,
		QuoteLiteral(id.String()),
	)
	var name *string
	err := d.link.Query(ctx, nameRowDef, remote, func(row RowScanner) error {
		var n string
		if err := row.Scan(&n); err != nil {
			return err
		}
		name = &n
		return nil
	})
	if errors.Is(err, ErrRemoteUnavailable) {
		d.logWarn("company name enrichment degraded", err)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if name != nil {
		d.cache.SetCompanyName(ctx, id, *name)
	}
	return name, nil
}

// WarmEmployeeNames refreshes the cached directory. Used by the background
// warmup job so enrichment keeps answering during short outages.
func (d *Directory) WarmEmployeeNames(ctx context.Context) (int, error) {
	remote := `SELECT id, name, email, position FROM employees WHERE deleted_at IS NULL`
	count := 0
	err := d.link.Query(ctx, employeeRowDef, remote, func(row RowScanner) error {
		var e Employee
		if err := row.Scan(&e.ID, &e.Name, &e.Email, &e.Position); err != nil {
			return err
		}
		d.cache.SetEmployeeName(ctx, e.ID, e.Name)
		count++
		return nil
	})
	return count, err
}

func (d *Directory) logWarn(msg string, err error) {
	if d.logger != nil {
		d.logger.Warn(msg, slog.Any("error", err))
	}
}

func paginate[T any](all []T, f shared.ListFilters) shared.ListPage[T] {
	f = f.Normalize()
	page, limit := f.Page, f.Limit
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	items := make([]T, 0, end-start)
	items = append(items, all[start:end]...)
	return shared.ListPage[T]{Items: items, Pagination: shared.NewPagination(page, limit, len(all))}
}
