package shared

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates the requested entity does not resolve to a
	// non-deleted row.
	ErrNotFound = errors.New("not found")
	// ErrNothingToUpdate indicates an update carried no recognized fields.
	ErrNothingToUpdate = errors.New("nothing to update")
)

// DuplicateError reports a uniqueness violation detected before (or by) the
// database constraint.
type DuplicateError struct {
	Entity string
	Field  string
	Value  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

// Code returns a machine-readable identifier for the violated rule.
func (e *DuplicateError) Code() string {
	return "DUPLICATE_" + e.Entity + "_" + e.Field
}

// ReferentialError reports foreign references that do not resolve to live
// rows. The caller decides whether to reject; the validator only reports.
type ReferentialError struct {
	Entity     string
	InvalidIDs []uuid.UUID
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%d invalid %s reference(s)", len(e.InvalidIDs), e.Entity)
}
