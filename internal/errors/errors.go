// Package errors defines the error taxonomy surfaced by the fee services:
// validation, not-found and conflict domain errors, and store errors mapped to
// a stable category so callers never inspect driver codes.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a DomainError.
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
)

// DomainError is returned by the fee services for caller-correctable failures.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is matches another DomainError with the same code, so wrapped instances of a
// sentinel still satisfy errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind
}

// Validation builds a validation error with a formatted message.
func Validation(code, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing entity with its identifier.
func NotFound(entity string, id interface{}) *DomainError {
	return &DomainError{
		Kind:    KindNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %v not found", entity, id),
	}
}

// Conflict builds a conflict error with a formatted message.
func Conflict(code, format string, args ...interface{}) *DomainError {
	return &DomainError{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

// StoreCategory is the stable classification of an underlying store failure.
type StoreCategory string

const (
	StoreSchemaMismatch      StoreCategory = "schema_mismatch"
	StoreUniqueViolation     StoreCategory = "unique_violation"
	StoreNotNullViolation    StoreCategory = "not_null_violation"
	StoreInvalidNumeric      StoreCategory = "invalid_numeric"
	StoreForeignKeyViolation StoreCategory = "foreign_key_violation"
	StoreUnavailable         StoreCategory = "unavailable"
	StoreUnknown             StoreCategory = "unknown"
)

// StoreError wraps a connectivity or constraint failure from the store.
type StoreError struct {
	Category StoreCategory
	Err      error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error (%s): %v", e.Category, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// KindOf returns the kind of the first DomainError in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

func IsValidation(err error) bool { k, ok := KindOf(err); return ok && k == KindValidation }
func IsNotFound(err error) bool   { k, ok := KindOf(err); return ok && k == KindNotFound }
func IsConflict(err error) bool   { k, ok := KindOf(err); return ok && k == KindConflict }

// StoreCategoryOf returns the category of the first StoreError in err's chain.
func StoreCategoryOf(err error) (StoreCategory, bool) {
	var se *StoreError
	if stderrors.As(err, &se) {
		return se.Category, true
	}
	return "", false
}
