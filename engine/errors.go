/*
errors.go - Centralized error types for the validation engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  These cover the structural, fail-fast tier only: malformed input a caller
  should never have passed. Business-rule violations (over-allocation,
  over-budget) are NEVER errors - they come back as ValidationOutcome and
  BudgetValidationResult values so callers can block, warn, or log.

ERROR CATEGORIES:
  1. Invalid input - nil snapshot, empty identity, non-finite numbers
  2. Not found - store-level lookups for entities that don't exist
  3. Duplicate name - store-level uniqueness violation on the name join key

USAGE:
  Wrapping packages test with the helpers:

    if engine.IsInvalidInput(err) {
        // 400-class problem, the caller sent garbage
    }

SEE ALSO:
  - pipeline.go: Separates structural errors from validation outcomes
  - store.go: Store implementations return NotFoundError
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidInput is returned when a caller passes structurally invalid
	// input: nil snapshot, empty resource name, NaN/Inf numbers. This is a
	// programmer-error class, not a recoverable runtime path.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned by stores when a referenced record doesn't exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName is returned by stores when a write would give two
	// resources the same display name. Names are the allocation join key,
	// so the roster layer and the database both enforce uniqueness.
	ErrDuplicateName = errors.New("duplicate resource name")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InvalidInputError reports which field was malformed and why.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundError reports which kind of record was missing.
type NotFoundError struct {
	Kind string // "resource", "allocation", "cost center", "leave"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsInvalidInput returns true if the error is the fail-fast structural class.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// errNilSnapshot is the shared structural error for a missing state snapshot.
func errNilSnapshot() error {
	return &InvalidInputError{Field: "snapshot", Reason: "must not be nil"}
}
