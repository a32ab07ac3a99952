package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation     = errors.New("validation failed")
	ErrNotFound       = errors.New("not found")
	ErrPersistence    = errors.New("persistence failed")
	ErrPartialWrite   = errors.New("order partially written")
	ErrAuthorization  = errors.New("access denied")
	ErrAuthentication = errors.New("invalid credentials")
)

// ValidationError reports malformed input on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// MissingRequiredOptionError names every mandatory option group left unanswered.
type MissingRequiredOptionError struct {
	Groups []string
}

func (e *MissingRequiredOptionError) Error() string {
	return "missing required option: " + strings.Join(e.Groups, ", ")
}

func (e *MissingRequiredOptionError) Unwrap() error { return ErrValidation }

// PersistenceError wraps a store failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// PartialWriteError is returned when the item write of an order fails after its
// header was written. The surrounding transaction is rolled back.
type PartialWriteError struct {
	OrderID string
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("order %s: item write failed after header write: %v", e.OrderID, e.Err)
}

func (e *PartialWriteError) Unwrap() []error { return []error{ErrPartialWrite, e.Err} }
