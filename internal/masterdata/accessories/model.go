package accessories

import (
	"time"

	"github.com/google/uuid"
)

// Accessory is an accessories row. The part number is unique among
// non-deleted rows.
type Accessory struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	PartNumber  string     `json:"part_number" db:"part_number"`
	Price       *float64   `json:"price" db:"price"`
	Description *string    `json:"description" db:"description"`
	IsDelete    bool       `json:"is_delete" db:"is_delete"`
	DeletedAt   *time.Time `json:"deleted_at" db:"deleted_at"`
	DeletedBy   *uuid.UUID `json:"deleted_by" db:"deleted_by"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedBy   *uuid.UUID `json:"updated_by" db:"updated_by"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IslandDetail is an accessories_island_details row: per-island stock or
// allocation attached to an accessory. The collection is value-replaced on
// update, rows are never patched individually.
type IslandDetail struct {
	ID          uuid.UUID `json:"id" db:"id"`
	AccessoryID uuid.UUID `json:"accessory_id" db:"accessory_id"`
	Island      string    `json:"island" db:"island"`
	Quantity    int       `json:"quantity" db:"quantity"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// AccessoryDetail is the composed read model: the accessory plus its island
// details.
type AccessoryDetail struct {
	Accessory
	IslandDetails []IslandDetail `json:"island_details"`
}
