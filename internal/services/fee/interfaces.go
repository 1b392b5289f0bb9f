package fee

import (
	"context"
	"time"

	"feeengine/internal/models"
)

// StructureStore is the read side of the fee structure repository.
type StructureStore interface {
	GetByMerchantID(ctx context.Context, merchantID uint) (*models.FeeStructure, error)
	ListRules(ctx context.Context, structureID uint) ([]models.FeeRule, error)
	ListTiers(ctx context.Context, structureID uint) ([]models.VolumeTier, error)
}

// VolumeStore sums completed transaction amounts.
type VolumeStore interface {
	SumCompletedSince(ctx context.Context, merchantID uint, since time.Time) (float64, error)
}

// RuleSetCache caches a structure's rules and tiers. It may be nil.
type RuleSetCache interface {
	GetRuleSet(ctx context.Context, structureID uint) (*models.FeeRuleSet, bool, error)
	SetRuleSet(ctx context.Context, structureID uint, set *models.FeeRuleSet) error
}
