/*
errors.go - Centralized error types for the pos engine

PURPOSE:
  All expected, recoverable error conditions in one place. Every kind is
  reported back to the caller synchronously; none are fatal to the process.

ERROR CATEGORIES:
  1. Sale errors - stock, quantity and event-state rejections
  2. Catalog errors - validation and referential-integrity rejections
  3. Store errors - persistence-layer failures (abort without partial commit)

USAGE:
  Callers match with errors.Is / errors.As:

    if errors.Is(err, pos.ErrInsufficientStock) { ... }

    var short *pos.InsufficientStockError
    if errors.As(err, &short) { ... short.Remaining ... }

SEE ALSO:
  - register.go: produces the sale errors
  - catalog.go: produces the validation errors
  - store/sqlite: wraps failures in PersistenceError
*/
package pos

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInsufficientStock is returned when a sale would overdraw an
	// ingredient's remaining quantity. Recoverable by restocking or
	// reducing the requested quantity.
	ErrInsufficientStock = errors.New("insufficient ingredients")

	// ErrNoActiveEvent is returned in fixed-event-cost mode when no event
	// is active. Recoverable by starting an event.
	ErrNoActiveEvent = errors.New("no active event")

	// ErrEventActive is returned when starting an event while one is
	// already active.
	ErrEventActive = errors.New("an event is already active")

	// ErrInvalidQuantity is returned for a requested sale quantity < 1.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrNothingToUndo is returned when undo is requested with no last
	// sale present. Purely informational.
	ErrNothingToUndo = errors.New("no sale to undo")

	// ErrDanglingReference is returned when an ingredient deletion is
	// blocked because a product recipe still references it.
	ErrDanglingReference = errors.New("ingredient is referenced by a product recipe")

	// ErrValidation is returned for save-time validation failures.
	ErrValidation = errors.New("validation failed")

	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrProductInactive    = errors.New("product is inactive")
	ErrSaleNotFound       = errors.New("sale not found")

	// ErrPersistence indicates a storage-layer failure. The in-progress
	// operation is aborted without partially committing.
	ErrPersistence = errors.New("persistence failure")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientStockError reports which ingredient fell short and by how much.
type InsufficientStockError struct {
	IngredientID   IngredientID
	IngredientName string
	Required       decimal.Decimal
	Remaining      decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	name := e.IngredientName
	if name == "" {
		name = string(e.IngredientID)
	}
	return fmt.Sprintf("insufficient stock of %s: required %s, remaining %s",
		name, e.Required, e.Remaining)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// DanglingReferenceError lists the products whose recipes still reference
// the ingredient being deleted.
type DanglingReferenceError struct {
	IngredientID IngredientID
	Products     []string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("ingredient %s is used by: %s",
		e.IngredientID, strings.Join(e.Products, ", "))
}

func (e *DanglingReferenceError) Unwrap() error { return ErrDanglingReference }

// ValidationError reports a single rejected field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// PersistenceError wraps a storage-layer failure with the failed operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid caller input or
// a recoverable business-rule rejection.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrNoActiveEvent) ||
		errors.Is(err, ErrEventActive) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrNothingToUndo) ||
		errors.Is(err, ErrDanglingReference) ||
		errors.Is(err, ErrProductInactive) ||
		errors.Is(err, ErrValidation)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrIngredientNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrSaleNotFound)
}
