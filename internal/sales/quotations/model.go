package quotations

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusSubmit Status = "submit"
)

type MutationType string

const (
	MutationPlus  MutationType = "plus"
	MutationMinus MutationType = "minus"
)

// Quotation is the manage_quotations header row. The quotation number stays
// nil until the document transitions to submit and is immutable afterwards.
// Bank fields are a denormalized snapshot taken when the quotation was
// written, not a live reference.
type Quotation struct {
	ID                uuid.UUID      `json:"id" db:"id"`
	ManageQuotationNo *string        `json:"manage_quotation_no" db:"manage_quotation_no"`
	CustomerID        *uuid.UUID     `json:"customer_id" db:"customer_id"`
	SalesEmployeeID   *uuid.UUID     `json:"sales_employee_id" db:"sales_employee_id"`
	QuotationDate     *time.Time     `json:"manage_quotation_date" db:"manage_quotation_date"`
	ValidityDate      *time.Time     `json:"validity_date" db:"validity_date"`
	GrandTotal        *float64       `json:"grand_total" db:"grand_total"`
	Tax               *float64       `json:"tax" db:"tax"`
	DeliveryFee       *float64       `json:"delivery_fee" db:"delivery_fee"`
	OtherCharges      *float64       `json:"other_charges" db:"other_charges"`
	PaymentPercentage *float64       `json:"payment_percentage" db:"payment_percentage"`
	PaymentNominal    *float64       `json:"payment_nominal" db:"payment_nominal"`
	GrandTotalBefore  *float64       `json:"grand_total_before" db:"grand_total_before"`
	MutationType      *MutationType  `json:"mutation_type" db:"mutation_type"`
	MutationNominal   *float64       `json:"mutation_nominal" db:"mutation_nominal"`
	Description       *string        `json:"description" db:"description"`
	ShippingTerms     *string        `json:"shipping_terms" db:"shipping_terms"`
	BankName          *string        `json:"bank_name" db:"bank_name"`
	BankAccountName   *string        `json:"bank_account_name" db:"bank_account_name"`
	BankAccountNo     *string        `json:"bank_account_no" db:"bank_account_no"`
	Status            Status         `json:"status" db:"status"`
	Properties        map[string]any `json:"properties" db:"properties"`
	IsDelete          bool           `json:"is_delete" db:"is_delete"`
	DeletedAt         *time.Time     `json:"deleted_at" db:"deleted_at"`
	DeletedBy         *uuid.UUID     `json:"deleted_by" db:"deleted_by"`
	CreatedBy         uuid.UUID      `json:"created_by" db:"created_by"`
	CreatedAt         time.Time      `json:"created_at" db:"created_at"`
	UpdatedBy         *uuid.UUID     `json:"updated_by" db:"updated_by"`
	UpdatedAt         time.Time      `json:"updated_at" db:"updated_at"`
}

// Item is a manage_quotation_items row. The collection is value-replaced:
// updates swap the whole set, rows are never patched individually.
type Item struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	QuotationID       uuid.UUID  `json:"manage_quotation_id" db:"manage_quotation_id"`
	ComponenProductID *uuid.UUID `json:"componen_product_id" db:"componen_product_id"`
	Quantity          int        `json:"quantity" db:"quantity"`
	UnitPrice         float64    `json:"unit_price" db:"unit_price"`
	TotalPrice        float64    `json:"total_price" db:"total_price"`
	Description       *string    `json:"description" db:"description"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// ItemWithProduct carries an item plus display fields joined live from the
// componen product table. A soft-deleted product leaves them all nil while
// the item itself (and its stored componen_product_id) stays visible.
type ItemWithProduct struct {
	Item
	ProductCode  *string  `json:"product_code" db:"product_code"`
	Segment      *string  `json:"segment" db:"segment"`
	Model        *string  `json:"model" db:"model"`
	Engine       *string  `json:"engine" db:"engine"`
	WheelCount   *int     `json:"wheel_count" db:"wheel_count"`
	Volume       *string  `json:"volume" db:"volume"`
	Horsepower   *string  `json:"horsepower" db:"horsepower"`
	MarketPrice  *float64 `json:"market_price" db:"market_price"`
	ProductName  *string  `json:"product_name" db:"product_name"`
	ProductImage *string  `json:"product_image" db:"product_image"`
}

// ItemAccessory is a manage_quotation_accessories row, optionally scoped to
// a line item. Value-replaced like items.
type ItemAccessory struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	QuotationID uuid.UUID  `json:"manage_quotation_id" db:"manage_quotation_id"`
	ItemID      *uuid.UUID `json:"manage_quotation_item_id" db:"manage_quotation_item_id"`
	AccessoryID *uuid.UUID `json:"accessory_id" db:"accessory_id"`
	Quantity    int        `json:"quantity" db:"quantity"`
	Description *string    `json:"description" db:"description"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// AccessoryWithDetails joins an item accessory to the live accessory row.
type AccessoryWithDetails struct {
	ItemAccessory
	AccessoryName  *string  `json:"accessory_name" db:"accessory_name"`
	PartNumber     *string  `json:"part_number" db:"part_number"`
	AccessoryPrice *float64 `json:"accessory_price" db:"accessory_price"`
}

// Specification is a manage_quotation_specifications label/value row,
// optionally scoped to a componen product. Value-replaced.
type Specification struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	QuotationID       uuid.UUID  `json:"manage_quotation_id" db:"manage_quotation_id"`
	ComponenProductID *uuid.UUID `json:"componen_product_id" db:"componen_product_id"`
	Label             string     `json:"label" db:"label"`
	Value             *string    `json:"value" db:"value"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// QuotationDetail is the composed read model: header, the three child
// collections, and display names enriched partly locally (customer) and
// partly through the gate_sso link (sales employee).
type QuotationDetail struct {
	Quotation
	CustomerName      *string                `json:"customer_name"`
	SalesEmployeeName *string                `json:"sales_employee_name"`
	Items             []ItemWithProduct      `json:"items"`
	Accessories       []AccessoryWithDetails `json:"accessories"`
	Specifications    []Specification        `json:"specifications"`
}
