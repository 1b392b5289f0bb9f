package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_IsMatchesWrappedSentinel(t *testing.T) {
	err := fmt.Errorf("create: %w", &DomainError{Kind: KindValidation, Code: "NAME_REQUIRED", Message: "other text"})

	assert.True(t, stderrors.Is(err, ErrNameRequired))
	assert.False(t, stderrors.Is(err, ErrInvalidNumeric))
	assert.True(t, IsValidation(err))
	assert.False(t, IsConflict(err))
}

func TestNotFound(t *testing.T) {
	err := NotFound("fee structure", 42)

	assert.Equal(t, "fee structure 42 not found", err.Error())
	assert.True(t, IsNotFound(err))
}

func TestStoreCategoryOf(t *testing.T) {
	err := fmt.Errorf("insert rule: %w", &StoreError{Category: StoreUniqueViolation, Err: stderrors.New("dup")})

	cat, ok := StoreCategoryOf(err)
	assert.True(t, ok)
	assert.Equal(t, StoreUniqueViolation, cat)

	_, ok = StoreCategoryOf(stderrors.New("plain"))
	assert.False(t, ok)
}
