package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iec-msi/quotation-backend/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, f shared.ListFilters) (shared.ListPage[Product], error) {
	f = f.Normalize()
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return shared.ListPage[Product]{}, err
	}
	return shared.ListPage[Product]{
		Items:      items,
		Pagination: shared.NewPagination(f.Page, f.Limit, total),
	}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateProductRequest, actor uuid.UUID) (*Product, error) {
	if err := s.checkCode(ctx, req.Code, uuid.Nil); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, Product{
		Code:        req.Code,
		Name:        req.Name,
		Segment:     req.Segment,
		Model:       req.Model,
		Engine:      req.Engine,
		WheelCount:  req.WheelCount,
		Volume:      req.Volume,
		Horsepower:  req.Horsepower,
		MarketPrice: req.MarketPrice,
		Image:       req.Image,
		CreatedBy:   actor,
	})
	if err != nil {
		return nil, translateUnique(err, req.Code)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest, actor uuid.UUID) (*Product, error) {
	if req.Code != nil {
		if err := s.checkCode(ctx, *req.Code, id); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{}
	set := func(col string, v any, present bool) {
		if present {
			updates[col] = v
		}
	}
	set("code", req.Code, req.Code != nil)
	set("name", req.Name, req.Name != nil)
	set("segment", req.Segment, req.Segment != nil)
	set("model", req.Model, req.Model != nil)
	set("engine", req.Engine, req.Engine != nil)
	set("wheel_count", req.WheelCount, req.WheelCount != nil)
	set("volume", req.Volume, req.Volume != nil)
	set("horsepower", req.Horsepower, req.Horsepower != nil)
	set("market_price", req.MarketPrice, req.MarketPrice != nil)
	set("image", req.Image, req.Image != nil)
	if len(updates) == 0 {
		return nil, shared.ErrNothingToUpdate
	}
	updates["updated_by"] = actor

	code := ""
	if req.Code != nil {
		code = *req.Code
	}
	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, translateUnique(err, code)
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

func (s *Service) checkCode(ctx context.Context, code string, exclude uuid.UUID) error {
	taken, err := s.repo.CodeTaken(ctx, code, exclude)
	if err != nil {
		return err
	}
	if taken {
		return &shared.DuplicateError{Entity: "componen_product", Field: "code", Value: code}
	}
	return nil
}

// translateUnique maps a unique-constraint violation raced past the
// existence check onto the same duplicate error the check produces.
func translateUnique(err error, code string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return &shared.DuplicateError{Entity: "componen_product", Field: "code", Value: code}
	}
	return err
}
