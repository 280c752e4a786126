package quotations

import (
	"context"

	"github.com/google/uuid"
)

// Validator checks that foreign references in quotation payloads resolve to
// live rows. Null references are intentionally absent and skip the check;
// the FK constraint with ON DELETE SET NULL remains a backstop, but the
// decision to reject belongs to the caller of these results.
type Validator struct {
	repo Repository
}

func NewValidator(repo Repository) *Validator {
	return &Validator{repo: repo}
}

// ValidateComponenProductIDs checks item references against non-deleted
// componen products.
func (v *Validator) ValidateComponenProductIDs(ctx context.Context, items []ItemRequest) (ValidationResult, error) {
	refs := make([]*uuid.UUID, 0, len(items))
	for _, item := range items {
		refs = append(refs, item.ComponenProductID)
	}
	return v.check(ctx, refs, v.repo.LiveComponenProductIDs)
}

// ValidateAccessoryIDs checks accessory references against non-deleted
// accessories.
func (v *Validator) ValidateAccessoryIDs(ctx context.Context, accessories []AccessoryRequest) (ValidationResult, error) {
	refs := make([]*uuid.UUID, 0, len(accessories))
	for _, acc := range accessories {
		refs = append(refs, acc.AccessoryID)
	}
	return v.check(ctx, refs, v.repo.LiveAccessoryIDs)
}

func (v *Validator) check(ctx context.Context, refs []*uuid.UUID, lookup func(context.Context, []uuid.UUID) (map[uuid.UUID]bool, error)) (ValidationResult, error) {
	ids := make([]uuid.UUID, 0, len(refs))
	seen := make(map[uuid.UUID]bool, len(refs))
	for _, ref := range refs {
		if ref == nil || *ref == uuid.Nil {
			continue
		}
		if !seen[*ref] {
			seen[*ref] = true
			ids = append(ids, *ref)
		}
	}
	if len(ids) == 0 {
		return ValidationResult{IsValid: true, InvalidIDs: []uuid.UUID{}}, nil
	}

	live, err := lookup(ctx, ids)
	if err != nil {
		return ValidationResult{}, err
	}

	invalid := []uuid.UUID{}
	for _, id := range ids {
		if !live[id] {
			invalid = append(invalid, id)
		}
	}
	return ValidationResult{IsValid: len(invalid) == 0, InvalidIDs: invalid}, nil
}
