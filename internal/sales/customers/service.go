package customers

import (
	"context"

	"github.com/google/uuid"

	"github.com/iec-msi/quotation-backend/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, f shared.ListFilters) (shared.ListPage[Customer], error) {
	f = f.Normalize()
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return shared.ListPage[Customer]{}, err
	}
	return shared.ListPage[Customer]{
		Items:      items,
		Pagination: shared.NewPagination(f.Page, f.Limit, total),
	}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// CustomerName resolves a display name for quotation enrichment. A missing
// or soft-deleted customer yields nil, not an error.
func (s *Service) CustomerName(ctx context.Context, id uuid.UUID) (*string, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	return s.repo.NameByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateCustomerRequest, actor uuid.UUID) (*Customer, error) {
	id, err := s.repo.Create(ctx, Customer{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		City:      req.City,
		NPWP:      req.NPWP,
		CreatedBy: actor,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest, actor uuid.UUID) (*Customer, error) {
	updates := map[string]any{}
	set := func(col string, v any, present bool) {
		if present {
			updates[col] = v
		}
	}
	set("name", req.Name, req.Name != nil)
	set("email", req.Email, req.Email != nil)
	set("phone", req.Phone, req.Phone != nil)
	set("address", req.Address, req.Address != nil)
	set("city", req.City, req.City != nil)
	set("npwp", req.NPWP, req.NPWP != nil)
	if len(updates) == 0 {
		return nil, shared.ErrNothingToUpdate
	}
	updates["updated_by"] = actor

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, shared.ErrNotFound
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Remove(ctx context.Context, id, actor uuid.UUID) (bool, error) {
	return s.repo.Remove(ctx, id, actor)
}

func (s *Service) Restore(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Restore(ctx, id)
}
