package fee

import (
	"context"
	"errors"
	"fmt"

	"feeengine/internal/models"
	"feeengine/internal/repositories"
)

// FeeStructureResolver maps a merchant to its fee structure.
type FeeStructureResolver struct {
	store StructureStore
}

func NewFeeStructureResolver(store StructureStore) *FeeStructureResolver {
	if store == nil {
		panic("structure store is required")
	}
	return &FeeStructureResolver{store: store}
}

// Resolve returns the merchant's assigned structure. Unassigned and unknown
// merchants, as well as dangling assignments, get DefaultStructure.
func (r *FeeStructureResolver) Resolve(ctx context.Context, merchantID uint) (*models.FeeStructure, error) {
	structure, err := r.store.GetByMerchantID(ctx, merchantID)
	if err != nil {
		if errors.Is(err, repositories.ErrFeeStructureNotFound) {
			return DefaultStructure(), nil
		}
		return nil, fmt.Errorf("resolve fee structure for merchant %d: %w", merchantID, err)
	}
	return structure, nil
}

// DefaultStructure returns the built-in structure. It is never persisted and
// has a zero ID.
func DefaultStructure() *models.FeeStructure {
	minimum := DefaultMinimumFee.InexactFloat64()
	return &models.FeeStructure{
		Name:          DefaultStructureName,
		Description:   "Built-in default fee structure",
		IsActive:      true,
		IsVolumeBased: false,
		MinimumFee:    &minimum,
	}
}

// IsDefault reports whether s is the built-in structure.
func IsDefault(s *models.FeeStructure) bool {
	return s == nil || s.ID == 0
}
