package feestructure

import (
	"context"
	"errors"

	apperrors "feeengine/internal/errors"
	"feeengine/internal/events"
	"feeengine/internal/models"
	"feeengine/internal/repositories"
	"feeengine/internal/validation"

	"go.uber.org/zap"
)

// Volume tiers are always owned by a fee rule. Structure-level operations
// resolve the owner as the structure's lowest-id rule.

// ListTiers returns a structure's tiers ascending by min_volume.
func (m *Manager) ListTiers(ctx context.Context, structureID uint) ([]models.VolumeTier, error) {
	if _, err := m.repo.GetByID(ctx, structureID); err != nil {
		if errors.Is(err, repositories.ErrFeeStructureNotFound) {
			return nil, apperrors.NotFound("fee structure", structureID)
		}
		return nil, err
	}

	tiers, err := m.repo.ListTiers(ctx, structureID)
	if err != nil {
		return nil, err
	}
	return nonNilTiers(tiers), nil
}

// CreateTier adds a tier to a structure, anchored to its lowest-id rule.
func (m *Manager) CreateTier(ctx context.Context, structureID uint, in TierInput) (*models.VolumeTier, error) {
	v := validation.New()
	tier := buildTier(v, "tier", in)
	if err := v.Err(); err != nil {
		return nil, m.fail(OpCreateTier, err)
	}

	err := m.repo.ExecuteInTransaction(ctx, func(repo repositories.FeeStructureRepository) error {
		if _, err := repo.GetByID(ctx, structureID); err != nil {
			if errors.Is(err, repositories.ErrFeeStructureNotFound) {
				return apperrors.NotFound("fee structure", structureID)
			}
			return err
		}

		rules, err := repo.ListRules(ctx, structureID)
		if err != nil {
			return err
		}
		if len(rules) == 0 {
			return apperrors.ErrNoAnchorRule
		}

		if err := checkOverlap(ctx, repo, structureID, &tier); err != nil {
			return err
		}

		tier.FeeRuleID = rules[0].ID
		return repo.CreateTier(ctx, &tier)
	})
	if err != nil {
		return nil, m.fail(OpCreateTier, err)
	}

	event := events.NewFeeStructureEvent(events.TypeTierCreated, structureID)
	event.VolumeTierID = &tier.ID
	m.committed(ctx, OpCreateTier, event)
	m.logger.Info("volume tier created",
		zap.Uint("fee_structure_id", structureID),
		zap.Uint("volume_tier_id", tier.ID))
	return &tier, nil
}

// UpdateTier patches a tier. Absent fields keep their value and null clears
// optional ones.
func (m *Manager) UpdateTier(ctx context.Context, id uint, in TierInput) (*models.VolumeTier, error) {
	var (
		tier        models.VolumeTier
		structureID uint
	)
	err := m.repo.ExecuteInTransaction(ctx, func(repo repositories.FeeStructureRepository) error {
		current, owner, err := tierWithOwner(ctx, repo, id)
		if err != nil {
			return err
		}
		structureID = owner.FeeStructureID

		v := validation.New()
		tier = patchTier(v, *current, in)
		if err := v.Err(); err != nil {
			return err
		}
		if err := checkOverlap(ctx, repo, structureID, &tier); err != nil {
			return err
		}
		return repo.UpdateTier(ctx, &tier)
	})
	if err != nil {
		return nil, m.fail(OpUpdateTier, err)
	}

	event := events.NewFeeStructureEvent(events.TypeTierUpdated, structureID)
	event.VolumeTierID = &id
	m.committed(ctx, OpUpdateTier, event)
	m.logger.Info("volume tier updated", zap.Uint("volume_tier_id", id))
	return &tier, nil
}

func (m *Manager) DeleteTier(ctx context.Context, id uint) error {
	var structureID uint
	err := m.repo.ExecuteInTransaction(ctx, func(repo repositories.FeeStructureRepository) error {
		_, owner, err := tierWithOwner(ctx, repo, id)
		if err != nil {
			return err
		}
		structureID = owner.FeeStructureID
		return repo.DeleteTier(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrVolumeTierNotFound) {
			err = apperrors.NotFound("volume tier", id)
		}
		return m.fail(OpDeleteTier, err)
	}

	event := events.NewFeeStructureEvent(events.TypeTierDeleted, structureID)
	event.VolumeTierID = &id
	m.committed(ctx, OpDeleteTier, event)
	m.logger.Info("volume tier deleted", zap.Uint("volume_tier_id", id))
	return nil
}

func tierWithOwner(ctx context.Context, repo repositories.FeeStructureRepository, id uint) (*models.VolumeTier, *models.FeeRule, error) {
	tier, err := repo.GetTier(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrVolumeTierNotFound) {
			return nil, nil, apperrors.NotFound("volume tier", id)
		}
		return nil, nil, err
	}

	rule, err := repo.GetRule(ctx, tier.FeeRuleID)
	if err != nil {
		if errors.Is(err, repositories.ErrFeeRuleNotFound) {
			return nil, nil, apperrors.NotFound("fee rule", tier.FeeRuleID)
		}
		return nil, nil, err
	}
	return tier, rule, nil
}

func checkOverlap(ctx context.Context, repo repositories.FeeStructureRepository, structureID uint, tier *models.VolumeTier) error {
	siblings, err := repo.ListTiers(ctx, structureID)
	if err != nil {
		return err
	}

	v := validation.New()
	v.TierOverlap("tier", tier, siblings)
	if !v.Valid() {
		return &apperrors.DomainError{
			Kind:    apperrors.ErrTierOverlap.Kind,
			Code:    apperrors.ErrTierOverlap.Code,
			Message: v.Errors["tier.min_volume"],
		}
	}
	return nil
}
