package bankaccounts

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

func (s *Service) List(ctx context.Context, f shared.ListFilters) (shared.ListPage[BankAccount], error) {
	f = f.Normalize()
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return shared.ListPage[BankAccount]{}, err
	}
	return shared.ListPage[BankAccount]{
		Items:      items,
		Pagination: shared.NewPagination(f.Page, f.Limit, total),
	}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*BankAccount, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateBankAccountRequest, actor uuid.UUID) (*BankAccount, error) {
	id, err := s.repo.Create(ctx, BankAccount{
		BankName:    req.BankName,
		AccountName: req.AccountName,
		AccountNo:   req.AccountNo,
		Branch:      req.Branch,
		Description: req.Description,
		CreatedBy:   actor,
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateBankAccountRequest, actor uuid.UUID) (*BankAccount, error) {
	updates := map[string]any{}
	set := func(col string, v any, present bool) {
		if present {
			updates[col] = v
		}
	}
	set("bank_name", req.BankName, req.BankName != nil)
	set("account_name", req.AccountName, req.AccountName != nil)
	set("account_no", req.AccountNo, req.AccountNo != nil)
	set("branch", req.Branch, req.Branch != nil)
	set("description", req.Description, req.Description != nil)
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
