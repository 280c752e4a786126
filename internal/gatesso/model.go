package gatesso

import "github.com/google/uuid"

// Employee is a sales employee row from the gate_sso directory. Employees
// are never stored locally; every read goes through the link.
type Employee struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    *string   `json:"email,omitempty"`
	Position *string   `json:"position,omitempty"`
}

// Company is a company row from the gate_sso directory.
type Company struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code *string   `json:"code,omitempty"`
}
