package quotations

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/iec-msi/quotation-backend/internal/shared"
)

// EmployeeDirectory resolves sales employee display names through the
// gate_sso link. Implementations degrade to nil when the link is down.
type EmployeeDirectory interface {
	EmployeeName(ctx context.Context, id uuid.UUID) (*string, error)
}

// CustomerDirectory resolves customer display names from the local database.
type CustomerDirectory interface {
	CustomerName(ctx context.Context, id uuid.UUID) (*string, error)
}

// enrichConcurrency bounds the per-row enrichment fan-out. The per-row fetch
// pattern itself is kept; only its wall-clock cost is contained.
const enrichConcurrency = 4

// Composer assembles the full quotation read model: header, the three child
// collections, and display-name enrichment.
type Composer struct {
	repo      Repository
	customers CustomerDirectory
	employees EmployeeDirectory
}

func NewComposer(repo Repository, customers CustomerDirectory, employees EmployeeDirectory) *Composer {
	return &Composer{repo: repo, customers: customers, employees: employees}
}

// Get composes a single quotation. Returns shared.ErrNotFound when the id
// does not resolve to a non-deleted row.
func (c *Composer) Get(ctx context.Context, id uuid.UUID) (*QuotationDetail, error) {
	header, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &QuotationDetail{Quotation: *header}
	if detail.Items, err = c.repo.ItemsByQuotationID(ctx, id); err != nil {
		return nil, fmt.Errorf("quotations: compose items: %w", err)
	}
	if detail.Accessories, err = c.repo.AccessoriesByQuotationID(ctx, id); err != nil {
		return nil, fmt.Errorf("quotations: compose accessories: %w", err)
	}
	if detail.Specifications, err = c.repo.SpecificationsByQuotationID(ctx, id); err != nil {
		return nil, fmt.Errorf("quotations: compose specifications: %w", err)
	}
	if err = c.enrich(ctx, detail); err != nil {
		return nil, err
	}
	return detail, nil
}

// List composes a page of quotations. Each row's enrichment is fetched
// individually, concurrently up to enrichConcurrency.
func (c *Composer) List(ctx context.Context, f shared.ListFilters) (shared.ListPage[QuotationDetail], error) {
	f = f.Normalize()
	headers, total, err := c.repo.List(ctx, f)
	if err != nil {
		return shared.ListPage[QuotationDetail]{}, err
	}

	details := make([]QuotationDetail, len(headers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i := range headers {
		g.Go(func() error {
			details[i] = QuotationDetail{Quotation: headers[i]}
			return c.enrich(gctx, &details[i])
		})
	}
	if err := g.Wait(); err != nil {
		return shared.ListPage[QuotationDetail]{}, err
	}

	return shared.ListPage[QuotationDetail]{
		Items:      details,
		Pagination: shared.NewPagination(f.Page, f.Limit, total),
	}, nil
}

func (c *Composer) enrich(ctx context.Context, detail *QuotationDetail) error {
	if detail.CustomerID != nil && c.customers != nil {
		name, err := c.customers.CustomerName(ctx, *detail.CustomerID)
		if err != nil {
			return fmt.Errorf("quotations: enrich customer name: %w", err)
		}
		detail.CustomerName = name
	}
	if detail.SalesEmployeeID != nil && c.employees != nil {
		// Degrades to nil on remote outage inside the directory.
		name, err := c.employees.EmployeeName(ctx, *detail.SalesEmployeeID)
		if err != nil {
			return fmt.Errorf("quotations: enrich employee name: %w", err)
		}
		detail.SalesEmployeeName = name
	}
	return nil
}
