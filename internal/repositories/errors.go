package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	apperrors "feeengine/internal/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrFeeStructureNotFound = errors.New("fee structure not found")
	ErrFeeRuleNotFound      = errors.New("fee rule not found")
	ErrVolumeTierNotFound   = errors.New("volume tier not found")
	ErrMerchantNotFound     = errors.New("merchant not found")
	ErrStaleFeeStructure    = errors.New("fee structure changed since it was read")
)

// postgres SQLSTATE codes the engine distinguishes
const (
	pgUndefinedTable      = "42P01"
	pgUndefinedColumn     = "42703"
	pgUniqueViolation     = "23505"
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgInvalidTextRepr     = "22P02"
	pgNumericOutOfRange   = "22003"
)

// storeError wraps err with the operation name after classifying it.
func storeError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, classify(err))
}

// classify maps a driver or gorm error onto a stable StoreError category.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *apperrors.StoreError
	if errors.As(err, &se) {
		return err
	}
	return &apperrors.StoreError{Category: categoryOf(err), Err: err}
}

func categoryOf(err error) apperrors.StoreCategory {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUndefinedTable, pgUndefinedColumn:
			return apperrors.StoreSchemaMismatch
		case pgUniqueViolation:
			return apperrors.StoreUniqueViolation
		case pgNotNullViolation:
			return apperrors.StoreNotNullViolation
		case pgForeignKeyViolation:
			return apperrors.StoreForeignKeyViolation
		case pgInvalidTextRepr, pgNumericOutOfRange:
			return apperrors.StoreInvalidNumeric
		}
		if strings.HasPrefix(pgErr.Code, "08") {
			return apperrors.StoreUnavailable
		}
		return apperrors.StoreUnknown
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.StoreUniqueViolation
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.StoreForeignKeyViolation
	case errors.Is(err, gorm.ErrInvalidField):
		return apperrors.StoreSchemaMismatch
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, driver.ErrBadConn):
		return apperrors.StoreUnavailable
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return apperrors.StoreUnavailable
	}
	return apperrors.StoreUnknown
}
