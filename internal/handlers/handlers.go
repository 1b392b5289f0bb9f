// Package handlers exposes the fee engine over HTTP.
package handlers

import (
	"context"

	"feeengine/internal/models"
	"feeengine/internal/services/fee"
	"feeengine/internal/services/feestructure"

	"github.com/gofiber/fiber/v2"
)

// FeeCalculator computes fee breakdowns.
type FeeCalculator interface {
	Calculate(ctx context.Context, req fee.CalculationRequest) *fee.FeeBreakdown
}

// StructureManager administers fee structures and their tiers.
type StructureManager interface {
	CreateStructure(ctx context.Context, in feestructure.CreateStructureInput) (*feestructure.StructureDetail, error)
	UpdateStructure(ctx context.Context, id uint, in feestructure.UpdateStructureInput) (*feestructure.UpdateResult, error)
	DeleteStructure(ctx context.Context, id uint) (*feestructure.DeleteResult, error)
	AssignStructure(ctx context.Context, merchantID, structureID uint) (*models.Merchant, error)
	GetStructure(ctx context.Context, id uint) (*feestructure.StructureDetail, error)
	ListStructures(ctx context.Context) ([]models.FeeStructure, error)

	ListTiers(ctx context.Context, structureID uint) ([]models.VolumeTier, error)
	CreateTier(ctx context.Context, structureID uint, in feestructure.TierInput) (*models.VolumeTier, error)
	UpdateTier(ctx context.Context, id uint, in feestructure.TierInput) (*models.VolumeTier, error)
	DeleteTier(ctx context.Context, id uint) error
}

// paramID reads a positive integer route parameter.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
