package quotations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iec-msi/quotation-backend/internal/shared"
)

type Service struct {
	repo      Repository
	validator *Validator
	composer  *Composer
	audit     *shared.AuditLogger
	logger    *slog.Logger
}

func NewService(repo Repository, validator *Validator, composer *Composer, audit *shared.AuditLogger, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		validator: validator,
		composer:  composer,
		audit:     audit,
		logger:    logger,
	}
}

// Create persists a new quotation with its child collections. A quotation
// created directly in submit status gets its number inside the same
// transaction that inserts the row.
func (s *Service) Create(ctx context.Context, req CreateQuotationRequest, actor uuid.UUID) (*QuotationDetail, error) {
	if err := s.checkReferences(ctx, req.Items, req.Accessories); err != nil {
		return nil, err
	}

	header := Quotation{
		CustomerID:        req.CustomerID,
		SalesEmployeeID:   req.SalesEmployeeID,
		QuotationDate:     req.QuotationDate,
		ValidityDate:      req.ValidityDate,
		GrandTotal:        req.GrandTotal,
		Tax:               req.Tax,
		DeliveryFee:       req.DeliveryFee,
		OtherCharges:      req.OtherCharges,
		PaymentPercentage: req.PaymentPercentage,
		PaymentNominal:    req.PaymentNominal,
		GrandTotalBefore:  req.GrandTotalBefore,
		MutationType:      req.MutationType,
		MutationNominal:   req.MutationNominal,
		Description:       req.Description,
		ShippingTerms:     req.ShippingTerms,
		BankName:          req.BankName,
		BankAccountName:   req.BankAccountName,
		BankAccountNo:     req.BankAccountNo,
		Status:            req.Status,
		Properties:        req.Properties,
		CreatedBy:         actor,
	}
	if header.PaymentNominal == nil {
		header.PaymentNominal = paymentNominal(req.GrandTotal, req.PaymentPercentage)
	}

	var id uuid.UUID
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if header.Status == StatusSubmit {
			number, err := repo.NextNumber(ctx, time.Now())
			if err != nil {
				return err
			}
			header.ManageQuotationNo = &number
		}

		var err error
		if id, err = repo.Create(ctx, header); err != nil {
			return fmt.Errorf("quotations: create header: %w", err)
		}
		if err := repo.InsertItems(ctx, id, buildItems(id, req.Items), actor); err != nil {
			return err
		}
		if err := repo.InsertAccessories(ctx, id, buildAccessories(id, req.Accessories), actor); err != nil {
			return err
		}
		return repo.InsertSpecifications(ctx, id, buildSpecifications(id, req.Specifications), actor)
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "create", id)
	return s.composer.Get(ctx, id)
}

// Update applies a partial update. Only fields present in the request are
// touched; child slices, when present, replace their whole collection.
// Returns (nil, nil) when the quotation does not exist or the request
// carried nothing to change; both are no-op signals the caller checks.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateQuotationRequest, actor uuid.UUID) (*QuotationDetail, error) {
	existing, err := s.repo.Get(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var items []ItemRequest
	var accessories []AccessoryRequest
	if req.Items != nil {
		items = *req.Items
	}
	if req.Accessories != nil {
		accessories = *req.Accessories
	}
	if err := s.checkReferences(ctx, items, accessories); err != nil {
		return nil, err
	}

	updates := headerUpdates(req, actor)
	hasChildren := req.Items != nil || req.Accessories != nil || req.Specifications != nil
	if len(updates) == 0 && !hasChildren {
		return nil, nil
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		// Assign the number exactly once: on the transition into submit
		// while none exists. The pre-transaction read is only a fast path;
		// the decision is re-made on a read taken after NextNumber holds
		// the year lock, so a concurrent submit of the same draft cannot
		// rewrite a number assigned in between.
		if req.Status != nil && *req.Status == StatusSubmit && existing.ManageQuotationNo == nil {
			number, err := repo.NextNumber(ctx, time.Now())
			if err != nil {
				return err
			}
			current, err := repo.Get(ctx, id)
			if err != nil {
				return err
			}
			if current.ManageQuotationNo == nil {
				updates["manage_quotation_no"] = number
			}
		}

		if len(updates) > 0 {
			if _, err := repo.Update(ctx, id, updates); err != nil {
				return fmt.Errorf("quotations: update header: %w", err)
			}
		}
		if req.Items != nil {
			if err := repo.ReplaceItems(ctx, id, buildItems(id, *req.Items), actor); err != nil {
				return err
			}
		}
		if req.Accessories != nil {
			if err := repo.ReplaceAccessories(ctx, id, buildAccessories(id, *req.Accessories), actor); err != nil {
				return err
			}
		}
		if req.Specifications != nil {
			if err := repo.ReplaceSpecifications(ctx, id, buildSpecifications(id, *req.Specifications), actor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, actor, "update", id)
	return s.composer.Get(ctx, id)
}

// Remove soft-deletes a quotation. Returns false when no live row matched.
func (s *Service) Remove(ctx context.Context, id, actor uuid.UUID) (bool, error) {
	removed, err := s.repo.Remove(ctx, id, actor)
	if err != nil {
		return false, err
	}
	if removed {
		s.recordAudit(ctx, actor, "delete", id)
	}
	return removed, nil
}

// Restore reverses a soft delete, clearing the deletion audit fields.
func (s *Service) Restore(ctx context.Context, id, actor uuid.UUID) (bool, error) {
	restored, err := s.repo.Restore(ctx, id)
	if err != nil {
		return false, err
	}
	if restored {
		s.recordAudit(ctx, actor, "restore", id)
	}
	return restored, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*QuotationDetail, error) {
	return s.composer.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f shared.ListFilters) (shared.ListPage[QuotationDetail], error) {
	return s.composer.List(ctx, f)
}

// ValidateComponenProductIDs exposes the validator for callers that want
// the structured result rather than the rejection.
func (s *Service) ValidateComponenProductIDs(ctx context.Context, items []ItemRequest) (ValidationResult, error) {
	return s.validator.ValidateComponenProductIDs(ctx, items)
}

func (s *Service) checkReferences(ctx context.Context, items []ItemRequest, accessories []AccessoryRequest) error {
	if len(items) > 0 {
		result, err := s.validator.ValidateComponenProductIDs(ctx, items)
		if err != nil {
			return err
		}
		if !result.IsValid {
			return &shared.ReferentialError{Entity: "componen_product", InvalidIDs: result.InvalidIDs}
		}
	}
	if len(accessories) > 0 {
		result, err := s.validator.ValidateAccessoryIDs(ctx, accessories)
		if err != nil {
			return err
		}
		if !result.IsValid {
			return &shared.ReferentialError{Entity: "accessory", InvalidIDs: result.InvalidIDs}
		}
	}
	return nil
}

func (s *Service) recordAudit(ctx context.Context, actor uuid.UUID, action string, id uuid.UUID) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor,
		Action:   "quotation." + action,
		Entity:   "manage_quotation",
		EntityID: id.String(),
	})
	if err != nil && s.logger != nil {
		s.logger.Warn("audit record failed", slog.String("action", action), slog.Any("error", err))
	}
}

func headerUpdates(req UpdateQuotationRequest, actor uuid.UUID) map[string]any {
	updates := map[string]any{}
	set := func(col string, v any, present bool) {
		if present {
			updates[col] = v
		}
	}
	set("customer_id", req.CustomerID, req.CustomerID != nil)
	set("sales_employee_id", req.SalesEmployeeID, req.SalesEmployeeID != nil)
	set("manage_quotation_date", req.QuotationDate, req.QuotationDate != nil)
	set("validity_date", req.ValidityDate, req.ValidityDate != nil)
	set("grand_total", req.GrandTotal, req.GrandTotal != nil)
	set("tax", req.Tax, req.Tax != nil)
	set("delivery_fee", req.DeliveryFee, req.DeliveryFee != nil)
	set("other_charges", req.OtherCharges, req.OtherCharges != nil)
	set("payment_percentage", req.PaymentPercentage, req.PaymentPercentage != nil)
	set("payment_nominal", req.PaymentNominal, req.PaymentNominal != nil)
	set("grand_total_before", req.GrandTotalBefore, req.GrandTotalBefore != nil)
	set("mutation_type", req.MutationType, req.MutationType != nil)
	set("mutation_nominal", req.MutationNominal, req.MutationNominal != nil)
	set("description", req.Description, req.Description != nil)
	set("shipping_terms", req.ShippingTerms, req.ShippingTerms != nil)
	set("bank_name", req.BankName, req.BankName != nil)
	set("bank_account_name", req.BankAccountName, req.BankAccountName != nil)
	set("bank_account_no", req.BankAccountNo, req.BankAccountNo != nil)
	set("status", req.Status, req.Status != nil)
	if req.Properties != nil {
		updates["properties"] = *req.Properties
	}
	if len(updates) > 0 {
		updates["updated_by"] = actor
	}
	return updates
}

func buildItems(quotationID uuid.UUID, reqs []ItemRequest) []Item {
	items := make([]Item, 0, len(reqs))
	for _, req := range reqs {
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		total := decimal.NewFromFloat(req.UnitPrice).
			Mul(decimal.NewFromInt(int64(quantity)))
		items = append(items, Item{
			QuotationID:       quotationID,
			ComponenProductID: req.ComponenProductID,
			Quantity:          quantity,
			UnitPrice:         req.UnitPrice,
			TotalPrice:        total.InexactFloat64(),
			Description:       req.Description,
		})
	}
	return items
}

func buildAccessories(quotationID uuid.UUID, reqs []AccessoryRequest) []ItemAccessory {
	accessories := make([]ItemAccessory, 0, len(reqs))
	for _, req := range reqs {
		quantity := 1
		if req.Quantity != nil {
			quantity = *req.Quantity
		}
		accessories = append(accessories, ItemAccessory{
			QuotationID: quotationID,
			ItemID:      req.ItemID,
			AccessoryID: req.AccessoryID,
			Quantity:    quantity,
			Description: req.Description,
		})
	}
	return accessories
}

func buildSpecifications(quotationID uuid.UUID, reqs []SpecificationRequest) []Specification {
	specs := make([]Specification, 0, len(reqs))
	for _, req := range reqs {
		specs = append(specs, Specification{
			QuotationID:       quotationID,
			ComponenProductID: req.ComponenProductID,
			Label:             req.Label,
			Value:             req.Value,
		})
	}
	return specs
}

func paymentNominal(grandTotal, percentage *float64) *float64 {
	if grandTotal == nil || percentage == nil {
		return nil
	}
	nominal := decimal.NewFromFloat(*grandTotal).
		Mul(decimal.NewFromFloat(*percentage)).
		Div(decimal.NewFromInt(100)).
		InexactFloat64()
	return &nominal
}
