package repositories

import (
	"context"
	"errors"
	"time"

	"feeengine/internal/models"

	"gorm.io/gorm"
)

type feeStructureRepository struct {
	db *gorm.DB
}

func NewFeeStructureRepository(db *gorm.DB) FeeStructureRepository {
	return &feeStructureRepository{
		db: db,
	}
}

func (r *feeStructureRepository) GetByID(ctx context.Context, id uint) (*models.FeeStructure, error) {
	var structure models.FeeStructure
	if err := r.db.WithContext(ctx).First(&structure, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeStructureNotFound
		}
		return nil, storeError("get fee structure", err)
	}
	return &structure, nil
}

func (r *feeStructureRepository) GetByMerchantID(ctx context.Context, merchantID uint) (*models.FeeStructure, error) {
	var structure models.FeeStructure
	err := r.db.WithContext(ctx).
		Model(&models.FeeStructure{}).
		Select("fee_structures.*").
		Joins("JOIN merchants ON merchants.fee_structure_id = fee_structures.id").
		Where("merchants.id = ?", merchantID).
		Take(&structure).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeStructureNotFound
		}
		return nil, storeError("get merchant fee structure", err)
	}
	return &structure, nil
}

func (r *feeStructureRepository) List(ctx context.Context) ([]models.FeeStructure, error) {
	var structures []models.FeeStructure
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&structures).Error; err != nil {
		return nil, storeError("list fee structures", err)
	}
	return structures, nil
}

func (r *feeStructureRepository) ListRules(ctx context.Context, structureID uint) ([]models.FeeRule, error) {
	var rules []models.FeeRule
	err := r.db.WithContext(ctx).
		Where("fee_structure_id = ?", structureID).
		Order("id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, storeError("list fee rules", err)
	}
	return rules, nil
}

func (r *feeStructureRepository) GetRule(ctx context.Context, id uint) (*models.FeeRule, error) {
	var rule models.FeeRule
	if err := r.db.WithContext(ctx).First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeeRuleNotFound
		}
		return nil, storeError("get fee rule", err)
	}
	return &rule, nil
}

func (r *feeStructureRepository) ListTiers(ctx context.Context, structureID uint) ([]models.VolumeTier, error) {
	var tiers []models.VolumeTier
	err := r.db.WithContext(ctx).
		Model(&models.VolumeTier{}).
		Select("volume_tiers.*").
		Joins("JOIN fee_rules ON fee_rules.id = volume_tiers.fee_rule_id").
		Where("fee_rules.fee_structure_id = ?", structureID).
		Order("volume_tiers.min_volume ASC, volume_tiers.id ASC").
		Find(&tiers).Error
	if err != nil {
		return nil, storeError("list volume tiers", err)
	}
	return tiers, nil
}

func (r *feeStructureRepository) GetTier(ctx context.Context, id uint) (*models.VolumeTier, error) {
	var tier models.VolumeTier
	if err := r.db.WithContext(ctx).First(&tier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVolumeTierNotFound
		}
		return nil, storeError("get volume tier", err)
	}
	return &tier, nil
}

func (r *feeStructureRepository) Create(ctx context.Context, structure *models.FeeStructure) error {
	if err := r.db.WithContext(ctx).Create(structure).Error; err != nil {
		return storeError("create fee structure", err)
	}
	return nil
}

// Update writes the mutable columns of structure. With ifUnmodifiedSince set,
// the row is only touched if its updated_at still equals that instant.
func (r *feeStructureRepository) Update(ctx context.Context, structure *models.FeeStructure, ifUnmodifiedSince *time.Time) error {
	q := r.db.WithContext(ctx).Model(&models.FeeStructure{}).Where("id = ?", structure.ID)
	if ifUnmodifiedSince != nil {
		q = q.Where("updated_at = ?", *ifUnmodifiedSince)
	}

	result := q.Updates(map[string]interface{}{
		"name":            structure.Name,
		"description":     structure.Description,
		"is_active":       structure.IsActive,
		"is_volume_based": structure.IsVolumeBased,
		"minimum_fee":     structure.MinimumFee,
		"maximum_fee":     structure.MaximumFee,
		"updated_at":      time.Now(),
	})
	if result.Error != nil {
		return storeError("update fee structure", result.Error)
	}
	if result.RowsAffected == 0 {
		if ifUnmodifiedSince != nil {
			return ErrStaleFeeStructure
		}
		return ErrFeeStructureNotFound
	}

	if err := r.db.WithContext(ctx).First(structure, structure.ID).Error; err != nil {
		return storeError("reload fee structure", err)
	}
	return nil
}

func (r *feeStructureRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.FeeStructure{}, id)
	if result.Error != nil {
		return storeError("delete fee structure", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFeeStructureNotFound
	}
	return nil
}

func (r *feeStructureRepository) CreateRule(ctx context.Context, rule *models.FeeRule) error {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return storeError("create fee rule", err)
	}
	return nil
}

func (r *feeStructureRepository) DeleteRules(ctx context.Context, structureID uint) error {
	err := r.db.WithContext(ctx).
		Where("fee_structure_id = ?", structureID).
		Delete(&models.FeeRule{}).Error
	if err != nil {
		return storeError("delete fee rules", err)
	}
	return nil
}

func (r *feeStructureRepository) CreateTier(ctx context.Context, tier *models.VolumeTier) error {
	if err := r.db.WithContext(ctx).Create(tier).Error; err != nil {
		return storeError("create volume tier", err)
	}
	return nil
}

func (r *feeStructureRepository) UpdateTier(ctx context.Context, tier *models.VolumeTier) error {
	result := r.db.WithContext(ctx).
		Model(&models.VolumeTier{}).
		Where("id = ?", tier.ID).
		Updates(map[string]interface{}{
			"min_volume":     tier.MinVolume,
			"max_volume":     tier.MaxVolume,
			"fee_value":      tier.FeeValue,
			"percentage_fee": tier.PercentageFee,
			"fixed_fee":      tier.FixedFee,
			"updated_at":     time.Now(),
		})
	if result.Error != nil {
		return storeError("update volume tier", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVolumeTierNotFound
	}

	if err := r.db.WithContext(ctx).First(tier, tier.ID).Error; err != nil {
		return storeError("reload volume tier", err)
	}
	return nil
}

func (r *feeStructureRepository) DeleteTier(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.VolumeTier{}, id)
	if result.Error != nil {
		return storeError("delete volume tier", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrVolumeTierNotFound
	}
	return nil
}

// DeleteTiers removes every tier owned by a rule of the structure.
func (r *feeStructureRepository) DeleteTiers(ctx context.Context, structureID uint) error {
	ruleIDs := r.db.Model(&models.FeeRule{}).
		Select("id").
		Where("fee_structure_id = ?", structureID)

	err := r.db.WithContext(ctx).
		Where("fee_rule_id IN (?)", ruleIDs).
		Delete(&models.VolumeTier{}).Error
	if err != nil {
		return storeError("delete volume tiers", err)
	}
	return nil
}

// ReanchorTiers moves the given tiers under ruleID.
func (r *feeStructureRepository) ReanchorTiers(ctx context.Context, tierIDs []uint, ruleID uint) error {
	if len(tierIDs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.VolumeTier{}).
		Where("id IN ?", tierIDs).
		Updates(map[string]interface{}{
			"fee_rule_id": ruleID,
			"updated_at":  time.Now(),
		}).Error
	if err != nil {
		return storeError("reanchor volume tiers", err)
	}
	return nil
}

func (r *feeStructureRepository) ExecuteInTransaction(ctx context.Context, fn func(FeeStructureRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&feeStructureRepository{db: tx})
	})
}
