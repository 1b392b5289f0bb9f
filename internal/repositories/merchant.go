package repositories

import (
	"context"
	"errors"

	"feeengine/internal/models"

	"gorm.io/gorm"
)

// Merchant access is limited to the fee_structure_id link; the merchant
// lifecycle is owned elsewhere.

func (r *feeStructureRepository) GetMerchant(ctx context.Context, id uint) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := r.db.WithContext(ctx).First(&merchant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMerchantNotFound
		}
		return nil, storeError("get merchant", err)
	}
	return &merchant, nil
}

func (r *feeStructureRepository) CountMerchants(ctx context.Context, structureID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Merchant{}).
		Where("fee_structure_id = ?", structureID).
		Count(&count).Error
	if err != nil {
		return 0, storeError("count merchants", err)
	}
	return count, nil
}

func (r *feeStructureRepository) AssignMerchant(ctx context.Context, merchantID, structureID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Merchant{}).
		Where("id = ?", merchantID).
		Update("fee_structure_id", structureID)
	if result.Error != nil {
		return storeError("assign fee structure", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMerchantNotFound
	}
	return nil
}
