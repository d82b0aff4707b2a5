package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on with errors.Is.
var (
	// ErrAlreadyExists signals a uniqueness violation, e.g. a second
	// cashback for the same payment.
	ErrAlreadyExists = errors.New("already exists")
	// ErrStaleTransition signals a guarded status update that matched
	// zero rows because another writer got there first.
	ErrStaleTransition = errors.New("stale status transition")
)

// ValidationError covers bad input, illegal state transitions and
// business-rule violations. User-correctable.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

func NewForbiddenError(format string, args ...any) *ForbiddenError {
	return &ForbiddenError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError is a validation error specific to stock checks.
type InsufficientStockError struct {
	VariantID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %s: requested %d, available %d",
		e.VariantID, e.Requested, e.Available)
}

// ExternalServiceError covers cache or ledger failures.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("external service %s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// DatabaseError wraps unclassified persistence failures at the
// repository boundary.
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database: %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	var se *InsufficientStockError
	return errors.As(err, &ve) || errors.As(err, &se)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

func IsInsufficientStock(err error) bool {
	var se *InsufficientStockError
	return errors.As(err, &se)
}
