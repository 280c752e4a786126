package bankaccounts

import (
	"time"

	"github.com/google/uuid"
)

// BankAccount is a bank_accounts row. Quotations copy its display fields as
// a snapshot at write time; editing an account never rewrites history.
type BankAccount struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	BankName    string     `json:"bank_name" db:"bank_name"`
	AccountName string     `json:"account_name" db:"account_name"`
	AccountNo   string     `json:"account_no" db:"account_no"`
	Branch      *string    `json:"branch" db:"branch"`
	Description *string    `json:"description" db:"description"`
	IsDelete    bool       `json:"is_delete" db:"is_delete"`
	DeletedAt   *time.Time `json:"deleted_at" db:"deleted_at"`
	DeletedBy   *uuid.UUID `json:"deleted_by" db:"deleted_by"`
	CreatedBy   uuid.UUID  `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedBy   *uuid.UUID `json:"updated_by" db:"updated_by"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateBankAccountRequest struct {
	BankName    string  `json:"bank_name" validate:"required,max=255"`
	AccountName string  `json:"account_name" validate:"required,max=255"`
	AccountNo   string  `json:"account_no" validate:"required,max=100"`
	Branch      *string `json:"branch,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
}

type UpdateBankAccountRequest struct {
	BankName    *string `json:"bank_name,omitempty" validate:"omitempty,max=255"`
	AccountName *string `json:"account_name,omitempty" validate:"omitempty,max=255"`
	AccountNo   *string `json:"account_no,omitempty" validate:"omitempty,max=100"`
	Branch      *string `json:"branch,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
}
