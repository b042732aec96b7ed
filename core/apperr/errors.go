// Package apperr holds the error taxonomy shared by every inventory and
// ledger operation. Typed errors unwrap to a sentinel so callers can test
// with errors.Is and inspect details with errors.As.
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors.
var (
	ErrValidation         = errors.New("backoffice: validation failed")
	ErrInsufficientStock  = errors.New("backoffice: insufficient stock")
	ErrIncompatibleUnit   = errors.New("backoffice: incompatible unit")
	ErrNotFound           = errors.New("backoffice: not found")
	ErrConcurrencyAnomaly = errors.New("backoffice: concurrent modification")
)

// ValidationError reports a missing or invalid input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Message)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation is shorthand for &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}.
func Validation(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// InsufficientStockError is returned when production needs more of a
// component than is on hand.
type InsufficientStockError struct {
	IngredientID string
	Name         string
	Required     decimal.Decimal
	Available    decimal.Decimal
	Unit         string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (%s): need %s %s, have %s %s",
		e.Name, e.IngredientID, e.Required.String(), e.Unit, e.Available.String(), e.Unit)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// IncompatibleUnitError is returned for conversions across unit families.
type IncompatibleUnitError struct {
	From string
	To   string
}

func (e *IncompatibleUnitError) Error() string {
	return fmt.Sprintf("cannot convert %q to %q", e.From, e.To)
}

func (e *IncompatibleUnitError) Unwrap() error { return ErrIncompatibleUnit }

// NotFoundError reports a missing entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound is shorthand for &NotFoundError{Entity: entity, ID: id}.
func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}
