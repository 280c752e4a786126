package customers

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a customers row.
type Customer struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Name      string     `json:"name" db:"name"`
	Email     *string    `json:"email" db:"email"`
	Phone     *string    `json:"phone" db:"phone"`
	Address   *string    `json:"address" db:"address"`
	City      *string    `json:"city" db:"city"`
	NPWP      *string    `json:"npwp" db:"npwp"`
	IsDelete  bool       `json:"is_delete" db:"is_delete"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
	DeletedBy *uuid.UUID `json:"deleted_by" db:"deleted_by"`
	CreatedBy uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedBy *uuid.UUID `json:"updated_by" db:"updated_by"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateCustomerRequest struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty" validate:"omitempty,max=100"`
	NPWP    *string `json:"npwp,omitempty" validate:"omitempty,max=50"`
}

type UpdateCustomerRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty" validate:"omitempty,max=100"`
	NPWP    *string `json:"npwp,omitempty" validate:"omitempty,max=50"`
}
