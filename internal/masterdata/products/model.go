package products

import (
	"time"

	"github.com/google/uuid"
)

// Product is a componen_products row. The code is unique among non-deleted
// rows; Image is an opaque URL string, not a managed upload.
type Product struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Code        string     `json:"code" db:"code"`
	Name        string     `json:"name" db:"name"`
	Segment     *string    `json:"segment" db:"segment"`
	Model       *string    `json:"model" db:"model"`
	Engine      *string    `json:"engine" db:"engine"`
	WheelCount  *int       `json:"wheel_count" db:"wheel_count"`
	Volume      *string    `json:"volume" db:"volume"`
	Horsepower  *string    `json:"horsepower" db:"horsepower"`
	MarketPrice *float64   `json:"market_price" db:"market_price"`
	Image       *string    `json:"image" db:"image"`
	IsDelete    bool       `json:"is_delete" db:"is_delete"`
	DeletedAt   *time.Time `json:"deleted_at" db:"deleted_at"`
	DeletedBy   *uuid.UUID `json:"deleted_by" db:"deleted_by"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedBy   *uuid.UUID `json:"updated_by" db:"updated_by"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
