package validation

import (
	"fmt"
	"sort"
	"strings"

	apperrors "feeengine/internal/errors"
)

// Validator defines validation methods
type Validator struct {
	Errors map[string]string
}

// New creates a new validator
func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

// Valid checks if there are any validation errors
func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// AddError adds an error to the validator. The first error for a field wins.
func (v *Validator) AddError(field, message string) {
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}

// Check adds an error if the condition is false
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.AddError(field, message)
	}
}

// Required checks if a value is present
func (v *Validator) Required(field string, value interface{}) {
	if value == nil {
		v.AddError(field, "is required")
		return
	}

	switch val := value.(type) {
	case string:
		v.Check(strings.TrimSpace(val) != "", field, "is required")
	case *string:
		v.Check(val != nil && strings.TrimSpace(*val) != "", field, "is required")
	case *float64:
		v.Check(val != nil, field, "is required")
	case uint:
		v.Check(val != 0, field, "is required")
	}
}

// MaxLength checks if a string has at most n characters
func (v *Validator) MaxLength(field string, value string, n int) {
	v.Check(len(value) <= n, field, fmt.Sprintf("must not be more than %d characters long", n))
}

// Min checks if a number is at least min
func (v *Validator) Min(field string, value float64, min float64) {
	v.Check(value >= min, field, fmt.Sprintf("must be at least %v", min))
}

// In checks if value is one of the allowed values
func (v *Validator) In(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.AddError(field, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
}

// Fields returns the fields with errors in sorted order.
func (v *Validator) Fields() []string {
	fields := make([]string, 0, len(v.Errors))
	for f := range v.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Err returns nil when valid, otherwise a validation DomainError listing every
// failing field.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	parts := make([]string, 0, len(v.Errors))
	for _, f := range v.Fields() {
		parts = append(parts, f+" "+v.Errors[f])
	}
	return apperrors.Validation("VALIDATION_FAILED", "%s", strings.Join(parts, "; "))
}
