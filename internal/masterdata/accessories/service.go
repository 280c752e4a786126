package accessories

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

func (s *Service) List(ctx context.Context, f shared.ListFilters) (shared.ListPage[Accessory], error) {
	f = f.Normalize()
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return shared.ListPage[Accessory]{}, err
	}
	return shared.ListPage[Accessory]{
		Items:      items,
		Pagination: shared.NewPagination(f.Page, f.Limit, total),
	}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*AccessoryDetail, error) {
	accessory, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := s.repo.IslandDetailsByAccessoryID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &AccessoryDetail{Accessory: *accessory, IslandDetails: details}, nil
}

func (s *Service) Create(ctx context.Context, req CreateAccessoryRequest, actor uuid.UUID) (*AccessoryDetail, error) {
	if err := s.checkPartNumber(ctx, req.PartNumber, uuid.Nil); err != nil {
		return nil, err
	}

	var id uuid.UUID
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		id, err = repo.Create(ctx, Accessory{
			Name:        req.Name,
			PartNumber:  req.PartNumber,
			Price:       req.Price,
			Description: req.Description,
			CreatedBy:   actor,
		})
		if err != nil {
			return translateUnique(err, req.PartNumber)
		}
		return repo.InsertIslandDetails(ctx, id, buildIslandDetails(id, req.IslandDetails))
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Update applies a partial update. IslandDetails, when present, replaces the
// whole collection inside the same transaction as the header change.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateAccessoryRequest, actor uuid.UUID) (*AccessoryDetail, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	if req.PartNumber != nil {
		if err := s.checkPartNumber(ctx, *req.PartNumber, id); err != nil {
			return nil, err
		}
	}

	updates := map[string]any{}
	set := func(col string, v any, present bool) {
		if present {
			updates[col] = v
		}
	}
	set("name", req.Name, req.Name != nil)
	set("part_number", req.PartNumber, req.PartNumber != nil)
	set("price", req.Price, req.Price != nil)
	set("description", req.Description, req.Description != nil)
	if len(updates) == 0 && req.IslandDetails == nil {
		return nil, shared.ErrNothingToUpdate
	}
	if len(updates) > 0 {
		updates["updated_by"] = actor
	}

	partNumber := ""
	if req.PartNumber != nil {
		partNumber = *req.PartNumber
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if len(updates) > 0 {
			if _, err := repo.Update(ctx, id, updates); err != nil {
				return translateUnique(err, partNumber)
			}
		}
		if req.IslandDetails != nil {
			return repo.ReplaceIslandDetails(ctx, id, buildIslandDetails(id, *req.IslandDetails))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *Service) Remove(ctx context.Context, id, actor uuid.UUID) (bool, error) {
	return s.repo.Remove(ctx, id, actor)
}

func (s *Service) Restore(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.repo.Restore(ctx, id)
}

func (s *Service) checkPartNumber(ctx context.Context, partNumber string, exclude uuid.UUID) error {
	taken, err := s.repo.PartNumberTaken(ctx, partNumber, exclude)
	if err != nil {
		return err
	}
	if taken {
		return &shared.DuplicateError{Entity: "accessory", Field: "part_number", Value: partNumber}
	}
	return nil
}

func translateUnique(err error, partNumber string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return &shared.DuplicateError{Entity: "accessory", Field: "part_number", Value: partNumber}
	}
	return err
}

func buildIslandDetails(accessoryID uuid.UUID, reqs []IslandDetailRequest) []IslandDetail {
	details := make([]IslandDetail, 0, len(reqs))
	for _, req := range reqs {
		quantity := 0
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		details = append(details, IslandDetail{
			AccessoryID: accessoryID,
			Island:      req.Island,
			Quantity:    quantity,
			Description: req.Description,
		})
	}
	return details
}
