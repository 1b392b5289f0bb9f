package fee

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feeengine/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Calculator quotes transaction fees.
type Calculator struct {
	resolver  *FeeStructureResolver
	store     StructureStore
	cache     RuleSetCache
	volumes   *VolumeAggregator
	evaluator *RuleEvaluator
	tiers     VolumeTierSelector
	metrics   MetricsCollector
	logger    *zap.Logger
	now       func() time.Time
}

// NewCalculator creates a fee calculator. cache, metrics and logger are optional.
func NewCalculator(
	store StructureStore,
	volumes VolumeStore,
	cache RuleSetCache,
	config CalculatorConfig,
	metrics MetricsCollector,
	logger *zap.Logger,
) *Calculator {
	if config.Now == nil {
		config.Now = time.Now
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Calculator{
		resolver:  NewFeeStructureResolver(store),
		store:     store,
		cache:     cache,
		volumes:   NewVolumeAggregator(volumes),
		evaluator: NewRuleEvaluator(config.TieBreak),
		metrics:   metrics,
		logger:    logger.Named("fee_calculator"),
		now:       config.Now,
	}
}

// stageError tags a failure with the calculation step that produced it.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// Calculate returns the fee breakdown for req. It never fails: on any error
// the default breakdown is returned with Error describing the failure.
func (c *Calculator) Calculate(ctx context.Context, req CalculationRequest) (breakdown *FeeBreakdown) {
	start := time.Now()
	outcome := OutcomeComputed

	defer func() {
		if r := recover(); r != nil {
			breakdown = c.fallback(req, &stageError{stage: stagePanic, err: fmt.Errorf("panic: %v", r)})
			outcome = OutcomeFallback
		}
		c.metrics.RecordCalculation(outcome, time.Since(start))
	}()

	breakdown, err := c.calculate(ctx, req)
	if err != nil {
		outcome = OutcomeFallback
		return c.fallback(req, err)
	}
	if breakdown.FeeStructureID == nil {
		outcome = OutcomeDefault
	}
	return breakdown
}

func (c *Calculator) calculate(ctx context.Context, req CalculationRequest) (*FeeBreakdown, error) {
	now := c.now()

	structure, err := c.resolver.Resolve(ctx, req.MerchantID)
	if err != nil {
		return nil, &stageError{stage: stageResolve, err: err}
	}
	if IsDefault(structure) {
		return c.breakdown(req, structure, defaultRates(), 0), nil
	}

	set, err := c.ruleSet(ctx, structure)
	if err != nil {
		return nil, err
	}

	ordered := c.evaluator.Order(set.Rules)
	rates := c.evaluator.Base(ordered, now)

	var volume float64
	if structure.IsVolumeBased {
		volume, err = c.volumes.MonthlyVolume(ctx, req.MerchantID, now)
		if err != nil {
			return nil, &stageError{stage: stageVolume, err: err}
		}
		var tier *models.VolumeTier
		rates, tier = c.tiers.Apply(set.Tiers, volume, rates)
		if tier != nil {
			c.logger.Debug("volume tier applied",
				zap.Uint("merchant_id", req.MerchantID),
				zap.Uint("tier_id", tier.ID),
				zap.Float64("monthly_volume", volume))
		}
	}

	rates = c.evaluator.ApplyConditions(ordered, rates, req.Amount, req.TransactionType, now)
	return c.breakdown(req, structure, rates, volume), nil
}

// ruleSet loads the structure's rules, and its tiers when volume-based,
// preferring the cache. Cache failures fall through to the store.
func (c *Calculator) ruleSet(ctx context.Context, structure *models.FeeStructure) (*models.FeeRuleSet, error) {
	if c.cache != nil {
		set, found, err := c.cache.GetRuleSet(ctx, structure.ID)
		if err != nil {
			c.logger.Warn("rule set cache read failed", zap.Uint("fee_structure_id", structure.ID), zap.Error(err))
		}
		if found && (!structure.IsVolumeBased || set.Tiers != nil) {
			c.metrics.RecordCacheHit()
			return set, nil
		}
		c.metrics.RecordCacheMiss()
	}

	rules, err := c.store.ListRules(ctx, structure.ID)
	if err != nil {
		return nil, &stageError{stage: stageRules, err: err}
	}
	set := &models.FeeRuleSet{Rules: rules}

	if structure.IsVolumeBased {
		tiers, err := c.store.ListTiers(ctx, structure.ID)
		if err != nil {
			return nil, &stageError{stage: stageTiers, err: err}
		}
		if tiers == nil {
			tiers = []models.VolumeTier{}
		}
		set.Tiers = tiers
	}

	if c.cache != nil {
		if err := c.cache.SetRuleSet(ctx, structure.ID, set); err != nil {
			c.logger.Warn("rule set cache write failed", zap.Uint("fee_structure_id", structure.ID), zap.Error(err))
		}
	}
	return set, nil
}

func (c *Calculator) breakdown(req CalculationRequest, structure *models.FeeStructure, rates Rates, volume float64) *FeeBreakdown {
	percentageAmount := req.Amount.Mul(rates.Percentage).Div(hundred)
	total := clamp(percentageAmount.Add(rates.Fixed), structure.MinimumFee, structure.MaximumFee)

	b := &FeeBreakdown{
		MerchantID:        req.MerchantID,
		TransactionAmount: req.Amount.InexactFloat64(),
		TransactionType:   req.TransactionType,
		FeeStructureName:  structure.Name,
		PercentageFee:     rates.Percentage.InexactFloat64(),
		PercentageAmount:  percentageAmount.InexactFloat64(),
		FixedAmount:       rates.Fixed.InexactFloat64(),
		TotalFee:          total.InexactFloat64(),
		MonthlyVolume:     volume,
		IsVolumeBased:     structure.IsVolumeBased,
	}
	if !IsDefault(structure) {
		id := structure.ID
		b.FeeStructureID = &id
	}
	return b
}

func (c *Calculator) fallback(req CalculationRequest, err error) *FeeBreakdown {
	stage := stagePanic
	var se *stageError
	if errors.As(err, &se) {
		stage = se.stage
	}
	c.metrics.RecordFallback(stage)
	c.logger.Error("fee calculation failed, using default structure",
		zap.Uint("merchant_id", req.MerchantID),
		zap.String("stage", stage),
		zap.Error(err))

	b := c.breakdown(req, DefaultStructure(), defaultRates(), 0)
	b.Error = fmt.Sprintf("fee calculation failed (%s): %v", stage, err)
	return b
}

func defaultRates() Rates {
	return Rates{Percentage: DefaultPercentage, Fixed: DefaultFixed}
}

// clamp applies the minimum, then the maximum.
func clamp(total decimal.Decimal, minimum, maximum *float64) decimal.Decimal {
	if minimum != nil {
		if floor := decimal.NewFromFloat(*minimum); total.LessThan(floor) {
			total = floor
		}
	}
	if maximum != nil {
		if ceiling := decimal.NewFromFloat(*maximum); total.GreaterThan(ceiling) {
			total = ceiling
		}
	}
	return total
}
