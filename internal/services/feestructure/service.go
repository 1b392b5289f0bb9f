package feestructure

import (
	"context"
	"errors"
	"fmt"
	"strings"

	apperrors "feeengine/internal/errors"
	"feeengine/internal/events"
	"feeengine/internal/models"
	"feeengine/internal/repositories"
	"feeengine/internal/validation"

	"go.uber.org/zap"
)

// Mutation operations, used for metrics and logs
const (
	OpCreate     = "create"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpAssign     = "assign"
	OpCreateTier = "create_tier"
	OpUpdateTier = "update_tier"
	OpDeleteTier = "delete_tier"
)

// Manager runs the fee structure mutation workflow. Every mutation executes in
// one database transaction; cache invalidation, event publishing and metrics
// happen after commit and never fail the mutation.
type Manager struct {
	repo      repositories.FeeStructureRepository
	cache     RuleSetInvalidator
	publisher events.Publisher
	metrics   MetricsCollector
	logger    *zap.Logger
}

// NewManager creates a fee structure manager. cache, publisher, metrics and
// logger are optional.
func NewManager(
	repo repositories.FeeStructureRepository,
	cache RuleSetInvalidator,
	publisher events.Publisher,
	metrics MetricsCollector,
	logger *zap.Logger,
) *Manager {
	if repo == nil {
		panic("repo is required")
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger.Named("fee_structure_manager"),
	}
}

// CreateStructure validates the whole request, then inserts the structure,
// its rules and, for volume-based structures, its tiers anchored to the first
// created rule.
func (m *Manager) CreateStructure(ctx context.Context, in CreateStructureInput) (*StructureDetail, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, m.fail(OpCreate, apperrors.ErrNameRequired)
	}

	v := validation.New()
	numericField(v, "minimum_fee", in.MinimumFee)
	numericField(v, "maximum_fee", in.MaximumFee)

	structure := &models.FeeStructure{
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		IsActive:      true,
		IsVolumeBased: in.IsVolumeBased,
		MinimumFee:    in.MinimumFee.Ptr(),
		MaximumFee:    in.MaximumFee.Ptr(),
	}
	if in.IsActive != nil {
		structure.IsActive = *in.IsActive
	}
	v.FeeStructure(structure)

	rules := make([]models.FeeRule, 0, len(in.Rules))
	for i, ri := range in.Rules {
		rules = append(rules, buildRule(v, fmt.Sprintf("rules[%d]", i), ri, true))
	}

	tiers := make([]models.VolumeTier, 0, len(in.VolumeTiers))
	for i, ti := range in.VolumeTiers {
		prefix := fmt.Sprintf("volume_tiers[%d]", i)
		tier := buildTier(v, prefix, ti)
		v.TierOverlap(prefix, &tier, tiers)
		tiers = append(tiers, tier)
	}

	if err := v.Err(); err != nil {
		return nil, m.fail(OpCreate, err)
	}

	err := m.repo.ExecuteInTransaction(ctx, func(repo repositories.FeeStructureRepository) error {
		if err := repo.Create(ctx, structure); err != nil {
			return err
		}
		for i := range rules {
			rules[i].FeeStructureID = structure.ID
			if err := repo.CreateRule(ctx, &rules[i]); err != nil {
				return err
			}
		}

		if !structure.IsVolumeBased || len(rules) == 0 {
			if len(tiers) > 0 {
				m.logger.Warn("volume tiers ignored",
					zap.String("name", structure.Name),
					zap.Bool("is_volume_based", structure.IsVolumeBased),
					zap.Int("rules", len(rules)))
			}
			tiers = nil
			return nil
		}
		for i := range tiers {
			tiers[i].FeeRuleID = rules[0].ID
			if err := repo.CreateTier(ctx, &tiers[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, m.fail(OpCreate, m.translate(err, structure.Name))
	}

	m.committed(ctx, OpCreate, events.NewFeeStructureEvent(events.TypeStructureCreated, structure.ID))
	m.logger.Info("fee structure created",
		zap.Uint("fee_structure_id", structure.ID),
		zap.String("name", structure.Name),
		zap.Int("rules", len(rules)),
		zap.Int("volume_tiers", len(tiers)))

	return &StructureDetail{FeeStructure: *structure, Rules: rules, VolumeTiers: nonNilTiers(tiers)}, nil
}

// UpdateStructure updates the structure row and fully replaces its rule set.
// Invalid rules are skipped and reported rather than failing the update.
// Existing tiers move to the new lowest-id rule, or are deleted when no rule
// remains.
func (m *Manager) UpdateStructure(ctx context.Context, id uint, in UpdateStructureInput) (*UpdateResult, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, m.fail(OpUpdate, apperrors.ErrNameRequired)
	}

	v := validation.New()
	numericField(v, "minimum_fee", in.MinimumFee)
	numericField(v, "maximum_fee", in.MaximumFee)
	if err := v.Err(); err != nil {
		return nil, m.fail(OpUpdate, err)
	}

	var skipped []SkippedRule
	rules := make([]models.FeeRule, 0, len(in.Rules))
	for i, ri := range in.Rules {
		rv := validation.New()
		rule := buildRule(rv, "rule", ri, false)
		if !rv.Valid() {
			reason := skipReason(rv)
			m.logger.Warn("skipping invalid fee rule",
				zap.Uint("fee_structure_id", id),
				zap.Int("index", i),
				zap.String("reason", reason))
			skipped = append(skipped, SkippedRule{Index: i, Reason: reason})
			continue
		}
		rule.FeeStructureID = id
		rules = append(rules, rule)
	}

	var (
		structure *models.FeeStructure
		tiers     []models.VolumeTier
	)
	err := m.repo.ExecuteInTransaction(ctx, func(repo repositories.FeeStructureRepository) error {
		var err error
		structure, err = repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		structure.Name = strings.TrimSpace(in.Name)
		if in.Description != nil {
			structure.Description = *in.Description
		}
		if in.IsActive != nil {
			structure.IsActive = *in.IsActive
		}
		if in.IsVolumeBased != nil {
			structure.IsVolumeBased = *in.IsVolumeBased
		}
		patchOptional(&structure.MinimumFee, in.MinimumFee)
		patchOptional(&structure.MaximumFee, in.MaximumFee)

		sv := validation.New()
		sv.FeeStructure(structure)
		if err := sv.Err(); err != nil {
			return err
		}

		if err := repo.Update(ctx, structure, in.IfUnmodifiedSince); err != nil {
			return err
		}

		existing, err := repo.ListTiers(ctx, id)
		if err != nil {
			return err
		}
		if len(rules) == 0 && len(existing) > 0 {
			if err := repo.DeleteTiers(ctx, id); err != nil {
				return err
			}
			existing = nil
		}

		if err := repo.DeleteRules(ctx, id); err != nil {
			return err
		}
		for i := range rules {
			if err := repo.CreateRule(ctx, &rules[i]); err != nil {
				return err
			}
		}

		if len(existing) > 0 {
			ids := make([]uint, len(existing))
			for i := range existing {
				ids[i] = existing[i].ID
				existing[i].FeeRuleID = rules[0].ID
			}
			if err := repo.ReanchorTiers(ctx, ids, rules[0].ID); err != nil {
				return err
			}
		}
		tiers = existing
		return nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrFeeStructureNotFound) {
			err = apperrors.NotFound("fee structure", id)
		}
		return nil, m.fail(OpUpdate, m.translate(err, in.Name))
	}

	if len(skipped) > 0 {
		m.metrics.RecordSkippedRules(len(skipped))
	}
	m.committed(ctx, OpUpdate, events.NewFeeStructureEvent(events.TypeStructureUpdated, id))
	m.logger.Info("fee structure updated",
		zap.Uint("fee_structure_id", id),
		zap.Int("rules", len(rules)),
		zap.Int("skipped_rules", len(skipped)))

	return &UpdateResult{
		StructureDetail: StructureDetail{FeeStructure: *structure, Rules: rules, VolumeTiers: nonNilTiers(tiers)},
		SkippedRules:    skipped,
	}, nil
}

// DeleteStructure removes an unused structure with its rules and tiers.
func (m *Manager) DeleteStructure(ctx context.Context, id uint) (*DeleteResult, error) {
	err := m.repo.ExecuteInTransaction(ctx, func(repo repositories.FeeStructureRepository) error {
		if _, err := repo.GetByID(ctx, id); err != nil {
			return err
		}

		count, err := repo.CountMerchants(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.Conflict(apperrors.ErrStructureInUse.Code,
				"fee structure %d is assigned to %d merchant(s)", id, count)
		}

		if err := repo.DeleteTiers(ctx, id); err != nil {
			return err
		}
		if err := repo.DeleteRules(ctx, id); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrFeeStructureNotFound) {
			err = apperrors.NotFound("fee structure", id)
		}
		return nil, m.fail(OpDelete, err)
	}

	m.committed(ctx, OpDelete, events.NewFeeStructureEvent(events.TypeStructureDeleted, id))
	m.logger.Info("fee structure deleted", zap.Uint("fee_structure_id", id))
	return &DeleteResult{ID: id}, nil
}

// AssignStructure points a merchant at a fee structure.
func (m *Manager) AssignStructure(ctx context.Context, merchantID, structureID uint) (*models.Merchant, error) {
	var merchant *models.Merchant
	err := m.repo.ExecuteInTransaction(ctx, func(repo repositories.FeeStructureRepository) error {
		if _, err := repo.GetByID(ctx, structureID); err != nil {
			if errors.Is(err, repositories.ErrFeeStructureNotFound) {
				return apperrors.NotFound("fee structure", structureID)
			}
			return err
		}

		var err error
		merchant, err = repo.GetMerchant(ctx, merchantID)
		if err != nil {
			if errors.Is(err, repositories.ErrMerchantNotFound) {
				return apperrors.NotFound("merchant", merchantID)
			}
			return err
		}

		if err := repo.AssignMerchant(ctx, merchantID, structureID); err != nil {
			return err
		}
		merchant.FeeStructureID = &structureID
		return nil
	})
	if err != nil {
		return nil, m.fail(OpAssign, err)
	}

	event := events.NewFeeStructureEvent(events.TypeStructureAssigned, structureID)
	event.MerchantID = &merchantID
	m.committed(ctx, OpAssign, event)
	m.logger.Info("fee structure assigned",
		zap.Uint("merchant_id", merchantID),
		zap.Uint("fee_structure_id", structureID))
	return merchant, nil
}

// GetStructure returns a structure with its rules and tiers.
func (m *Manager) GetStructure(ctx context.Context, id uint) (*StructureDetail, error) {
	structure, err := m.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrFeeStructureNotFound) {
			return nil, apperrors.NotFound("fee structure", id)
		}
		return nil, err
	}

	rules, err := m.repo.ListRules(ctx, id)
	if err != nil {
		return nil, err
	}
	tiers, err := m.repo.ListTiers(ctx, id)
	if err != nil {
		return nil, err
	}

	if rules == nil {
		rules = []models.FeeRule{}
	}
	return &StructureDetail{FeeStructure: *structure, Rules: rules, VolumeTiers: nonNilTiers(tiers)}, nil
}

func (m *Manager) ListStructures(ctx context.Context) ([]models.FeeStructure, error) {
	structures, err := m.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if structures == nil {
		structures = []models.FeeStructure{}
	}
	return structures, nil
}

// committed runs the post-commit side effects of a mutation.
func (m *Manager) committed(ctx context.Context, op string, event events.FeeStructureEvent) {
	m.metrics.RecordMutation(op, "success")

	if m.cache != nil && op != OpAssign {
		if err := m.cache.InvalidateRuleSet(ctx, event.FeeStructureID); err != nil {
			m.logger.Warn("rule set cache invalidation failed",
				zap.Uint("fee_structure_id", event.FeeStructureID),
				zap.Error(err))
		}
	}

	if err := m.publisher.Publish(ctx, event); err != nil {
		m.logger.Warn("event publish failed",
			zap.String("type", event.Type),
			zap.Uint("fee_structure_id", event.FeeStructureID),
			zap.Error(err))
	}
}

func (m *Manager) fail(op string, err error) error {
	result := "error"
	if kind, ok := apperrors.KindOf(err); ok {
		result = string(kind)
	}
	m.metrics.RecordMutation(op, result)
	return err
}

// translate maps store errors with a domain meaning onto domain errors.
func (m *Manager) translate(err error, name string) error {
	if errors.Is(err, repositories.ErrStaleFeeStructure) {
		return apperrors.ErrStaleStructure
	}
	if category, ok := apperrors.StoreCategoryOf(err); ok && category == apperrors.StoreUniqueViolation {
		return &apperrors.DomainError{
			Kind:    apperrors.KindConflict,
			Code:    "DUPLICATE_NAME",
			Message: fmt.Sprintf("fee structure %q already exists", strings.TrimSpace(name)),
			Err:     err,
		}
	}
	return err
}

func nonNilTiers(tiers []models.VolumeTier) []models.VolumeTier {
	if tiers == nil {
		return []models.VolumeTier{}
	}
	return tiers
}
