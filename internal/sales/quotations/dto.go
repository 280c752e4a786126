package quotations

import (
	"time"

	"github.com/google/uuid"
)

type ItemRequest struct {
	ComponenProductID *uuid.UUID `json:"componen_product_id,omitempty"`
	Quantity          *int       `json:"quantity,omitempty" validate:"omitempty,gte=1"`
	UnitPrice         float64    `json:"unit_price" validate:"gte=0"`
	Description       *string    `json:"description,omitempty"`
}

type AccessoryRequest struct {
	ItemID      *uuid.UUID `json:"manage_quotation_item_id,omitempty"`
	AccessoryID *uuid.UUID `json:"accessory_id,omitempty"`
	Quantity    *int       `json:"quantity,omitempty" validate:"omitempty,gte=1"`
	Description *string    `json:"description,omitempty"`
}

type SpecificationRequest struct {
	ComponenProductID *uuid.UUID `json:"componen_product_id,omitempty"`
	Label             string     `json:"label" validate:"required,max=255"`
	Value             *string    `json:"value,omitempty"`
}

type CreateQuotationRequest struct {
	CustomerID        *uuid.UUID             `json:"customer_id,omitempty"`
	SalesEmployeeID   *uuid.UUID             `json:"sales_employee_id,omitempty"`
	QuotationDate     *time.Time             `json:"manage_quotation_date,omitempty"`
	ValidityDate      *time.Time             `json:"validity_date,omitempty"`
	GrandTotal        *float64               `json:"grand_total,omitempty" validate:"omitempty,gte=0"`
	Tax               *float64               `json:"tax,omitempty" validate:"omitempty,gte=0"`
	DeliveryFee       *float64               `json:"delivery_fee,omitempty" validate:"omitempty,gte=0"`
	OtherCharges      *float64               `json:"other_charges,omitempty" validate:"omitempty,gte=0"`
	PaymentPercentage *float64               `json:"payment_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	PaymentNominal    *float64               `json:"payment_nominal,omitempty" validate:"omitempty,gte=0"`
	GrandTotalBefore  *float64               `json:"grand_total_before,omitempty"`
	MutationType      *MutationType          `json:"mutation_type,omitempty" validate:"omitempty,oneof=plus minus"`
	MutationNominal   *float64               `json:"mutation_nominal,omitempty"`
	Description       *string                `json:"description,omitempty"`
	ShippingTerms     *string                `json:"shipping_terms,omitempty"`
	BankName          *string                `json:"bank_name,omitempty"`
	BankAccountName   *string                `json:"bank_account_name,omitempty"`
	BankAccountNo     *string                `json:"bank_account_no,omitempty"`
	Status            Status                 `json:"status" validate:"required,oneof=draft submit"`
	Properties        map[string]any         `json:"properties,omitempty"`
	Items             []ItemRequest          `json:"items,omitempty" validate:"dive"`
	Accessories       []AccessoryRequest     `json:"accessories,omitempty" validate:"dive"`
	Specifications    []SpecificationRequest `json:"specifications,omitempty" validate:"dive"`
}

// UpdateQuotationRequest is a partial update: only non-nil fields are
// touched, absent is not null. Child slices are full replacements of their
// collection when present.
type UpdateQuotationRequest struct {
	CustomerID        *uuid.UUID              `json:"customer_id,omitempty"`
	SalesEmployeeID   *uuid.UUID              `json:"sales_employee_id,omitempty"`
	QuotationDate     *time.Time              `json:"manage_quotation_date,omitempty"`
	ValidityDate      *time.Time              `json:"validity_date,omitempty"`
	GrandTotal        *float64                `json:"grand_total,omitempty" validate:"omitempty,gte=0"`
	Tax               *float64                `json:"tax,omitempty" validate:"omitempty,gte=0"`
	DeliveryFee       *float64                `json:"delivery_fee,omitempty" validate:"omitempty,gte=0"`
	OtherCharges      *float64                `json:"other_charges,omitempty" validate:"omitempty,gte=0"`
	PaymentPercentage *float64                `json:"payment_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	PaymentNominal    *float64                `json:"payment_nominal,omitempty" validate:"omitempty,gte=0"`
	GrandTotalBefore  *float64                `json:"grand_total_before,omitempty"`
	MutationType      *MutationType           `json:"mutation_type,omitempty" validate:"omitempty,oneof=plus minus"`
	MutationNominal   *float64                `json:"mutation_nominal,omitempty"`
	Description       *string                 `json:"description,omitempty"`
	ShippingTerms     *string                 `json:"shipping_terms,omitempty"`
	BankName          *string                 `json:"bank_name,omitempty"`
	BankAccountName   *string                 `json:"bank_account_name,omitempty"`
	BankAccountNo     *string                 `json:"bank_account_no,omitempty"`
	Status            *Status                 `json:"status,omitempty" validate:"omitempty,oneof=draft submit"`
	Properties        *map[string]any         `json:"properties,omitempty"`
	Items             *[]ItemRequest          `json:"items,omitempty" validate:"omitempty,dive"`
	Accessories       *[]AccessoryRequest     `json:"accessories,omitempty" validate:"omitempty,dive"`
	Specifications    *[]SpecificationRequest `json:"specifications,omitempty" validate:"omitempty,dive"`
}

// ValidationResult reports foreign references that failed to resolve. It
// does not enforce anything; callers decide whether to reject.
type ValidationResult struct {
	IsValid    bool        `json:"is_valid"`
	InvalidIDs []uuid.UUID `json:"invalid_ids"`
}
