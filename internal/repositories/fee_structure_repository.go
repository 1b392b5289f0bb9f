package repositories

import (
	"context"
	"time"

	"feeengine/internal/models"
)

// FeeStructureRepository defines the data access needed by fee calculation and
// fee structure administration. Every filter the engine uses has its own typed
// method: by structure id, by merchant id, by owning rule.
type FeeStructureRepository interface {
	// Structure reads
	GetByID(ctx context.Context, id uint) (*models.FeeStructure, error)
	GetByMerchantID(ctx context.Context, merchantID uint) (*models.FeeStructure, error)
	List(ctx context.Context) ([]models.FeeStructure, error)

	// Rule and tier reads
	ListRules(ctx context.Context, structureID uint) ([]models.FeeRule, error)
	GetRule(ctx context.Context, id uint) (*models.FeeRule, error)
	ListTiers(ctx context.Context, structureID uint) ([]models.VolumeTier, error)
	GetTier(ctx context.Context, id uint) (*models.VolumeTier, error)

	// Structure writes
	Create(ctx context.Context, structure *models.FeeStructure) error
	Update(ctx context.Context, structure *models.FeeStructure, ifUnmodifiedSince *time.Time) error
	Delete(ctx context.Context, id uint) error

	// Rule and tier writes
	CreateRule(ctx context.Context, rule *models.FeeRule) error
	DeleteRules(ctx context.Context, structureID uint) error
	CreateTier(ctx context.Context, tier *models.VolumeTier) error
	UpdateTier(ctx context.Context, tier *models.VolumeTier) error
	DeleteTier(ctx context.Context, id uint) error
	DeleteTiers(ctx context.Context, structureID uint) error
	ReanchorTiers(ctx context.Context, tierIDs []uint, ruleID uint) error

	// Merchant references
	GetMerchant(ctx context.Context, id uint) (*models.Merchant, error)
	CountMerchants(ctx context.Context, structureID uint) (int64, error)
	AssignMerchant(ctx context.Context, merchantID, structureID uint) error

	// ExecuteInTransaction runs fn against a repository bound to one database
	// transaction, committing when fn returns nil and rolling back otherwise.
	ExecuteInTransaction(ctx context.Context, fn func(FeeStructureRepository) error) error
}
