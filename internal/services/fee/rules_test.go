package fee

import (
	"testing"
	"time"

	"feeengine/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRuleEvaluator_BasePass(t *testing.T) {
	evaluator := NewRuleEvaluator(LastCreatedWins)

	t.Run("percentage and fixed", func(t *testing.T) {
		rates := evaluator.Evaluate(
			[]models.FeeRule{percentageRule(1, 2), fixedRule(2, 1)},
			decimal.NewFromInt(100), "purchase", baseTime)

		assert.True(t, rates.Percentage.Equal(decimal.NewFromInt(2)))
		assert.True(t, rates.Fixed.Equal(decimal.NewFromInt(1)))
	})

	t.Run("empty and base condition count as base", func(t *testing.T) {
		empty := percentageRule(1, 3)
		empty.ConditionType = ptr("")
		base := fixedRule(2, 0.25)
		base.ConditionType = ptr(models.ConditionBase)

		rates := evaluator.Evaluate([]models.FeeRule{empty, base}, decimal.NewFromInt(10), "purchase", baseTime)

		assert.Equal(t, 3.0, rates.Percentage.InexactFloat64())
		assert.Equal(t, 0.25, rates.Fixed.InexactFloat64())
	})

	t.Run("no base rules leaves zero rates", func(t *testing.T) {
		rates := evaluator.Evaluate(nil, decimal.NewFromInt(10), "purchase", baseTime)
		assert.True(t, rates.Percentage.IsZero())
		assert.True(t, rates.Fixed.IsZero())
	})
}

func TestRuleEvaluator_TieBreak(t *testing.T) {
	older := percentageRule(7, 1.5)
	newer := percentageRule(3, 2.5)
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)

	// Retrieval order must not matter.
	inputs := [][]models.FeeRule{
		{older, newer},
		{newer, older},
	}

	for _, rules := range inputs {
		last := NewRuleEvaluator(LastCreatedWins).Evaluate(rules, decimal.NewFromInt(100), "purchase", baseTime)
		assert.Equal(t, 2.5, last.Percentage.InexactFloat64())

		first := NewRuleEvaluator(FirstCreatedWins).Evaluate(rules, decimal.NewFromInt(100), "purchase", baseTime)
		assert.Equal(t, 1.5, first.Percentage.InexactFloat64())
	}

	t.Run("equal timestamps fall back to id", func(t *testing.T) {
		a := percentageRule(1, 1)
		b := percentageRule(2, 2)
		b.CreatedAt = a.CreatedAt

		rates := NewRuleEvaluator(LastCreatedWins).Evaluate([]models.FeeRule{b, a}, decimal.NewFromInt(1), "", baseTime)
		assert.Equal(t, 2.0, rates.Percentage.InexactFloat64())
	})

	assert.Equal(t, "last_created_wins", LastCreatedWins.String())
	assert.Equal(t, "first_created_wins", FirstCreatedWins.String())
}

func TestRuleEvaluator_Conditions(t *testing.T) {
	refund := models.FeeRule{
		ID:                 10,
		RuleType:           models.RuleTypePercentage,
		ConditionType:      ptr(models.ConditionTransactionType),
		ConditionValue:     ptr("refund"),
		OverridePercentage: ptr(0.0),
		CreatedAt:          baseTime.Add(time.Hour),
	}
	large := models.FeeRule{
		ID:                  11,
		RuleType:            models.RuleTypeFixed,
		ConditionType:       ptr(models.ConditionAmountGreaterThan),
		ConditionValue:      ptr("1000"),
		OverrideFixedAmount: ptr(5.0),
		CreatedAt:           baseTime.Add(2 * time.Hour),
	}
	small := models.FeeRule{
		ID:                 12,
		RuleType:           models.RuleTypePercentage,
		ConditionType:      ptr(models.ConditionAmountLessThan),
		ConditionValue:     ptr(" 10 "),
		OverridePercentage: ptr(4.0),
		CreatedAt:          baseTime.Add(3 * time.Hour),
	}
	base := []models.FeeRule{percentageRule(1, 2), fixedRule(2, 0.3)}

	tests := []struct {
		name       string
		rules      []models.FeeRule
		amount     int64
		txType     string
		percentage float64
		fixed      float64
	}{
		{"refund rule ignored for purchase", append(base, refund), 100, "purchase", 2, 0.3},
		{"refund rule applies to refund", append(base, refund), 100, "refund", 0, 0.3},
		{"amount above threshold", append(base, large), 1500, "purchase", 2, 5},
		{"amount equal to threshold does not match", append(base, large), 1000, "purchase", 2, 0.3},
		{"amount below threshold", append(base, small), 5, "purchase", 4, 0.3},
		{"amount equal to lower threshold does not match", append(base, small), 10, "purchase", 2, 0.3},
	}

	evaluator := NewRuleEvaluator(LastCreatedWins)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := evaluator.Evaluate(tt.rules, decimal.NewFromInt(tt.amount), tt.txType, baseTime)
			assert.Equal(t, tt.percentage, rates.Percentage.InexactFloat64())
			assert.Equal(t, tt.fixed, rates.Fixed.InexactFloat64())
		})
	}
}

func TestRuleEvaluator_NonNumericThresholdNeverMatches(t *testing.T) {
	rule := models.FeeRule{
		ID:                 3,
		ConditionType:      ptr(models.ConditionAmountGreaterThan),
		ConditionValue:     ptr("lots"),
		OverridePercentage: ptr(9.0),
		CreatedAt:          baseTime.Add(time.Hour),
	}

	rates := NewRuleEvaluator(LastCreatedWins).Evaluate(
		[]models.FeeRule{percentageRule(1, 2), rule}, decimal.NewFromInt(1_000_000), "purchase", baseTime)

	assert.Equal(t, 2.0, rates.Percentage.InexactFloat64())
}

func TestRuleEvaluator_BreakOnMatch(t *testing.T) {
	first := models.FeeRule{
		ID:                 20,
		ConditionType:      ptr(models.ConditionTransactionType),
		ConditionValue:     ptr("purchase"),
		OverridePercentage: ptr(1.0),
		BreakOnMatch:       true,
		CreatedAt:          baseTime.Add(time.Hour),
	}
	second := models.FeeRule{
		ID:                 21,
		ConditionType:      ptr(models.ConditionAmountGreaterThan),
		ConditionValue:     ptr("0"),
		OverridePercentage: ptr(7.0),
		CreatedAt:          baseTime.Add(2 * time.Hour),
	}
	rules := []models.FeeRule{percentageRule(1, 2), first, second}
	evaluator := NewRuleEvaluator(LastCreatedWins)

	rates := evaluator.Evaluate(rules, decimal.NewFromInt(50), "purchase", baseTime)
	assert.Equal(t, 1.0, rates.Percentage.InexactFloat64())

	// Without a match on the breaking rule, later rules still run.
	rates = evaluator.Evaluate(rules, decimal.NewFromInt(50), "refund", baseTime)
	assert.Equal(t, 7.0, rates.Percentage.InexactFloat64())
}

func TestRuleEvaluator_EffectiveWindow(t *testing.T) {
	expired := percentageRule(5, 9)
	expired.EffectiveTo = ptr(baseTime.Add(-time.Hour))
	future := fixedRule(6, 4)
	future.EffectiveFrom = ptr(baseTime.Add(time.Hour))
	promo := models.FeeRule{
		ID:                 7,
		ConditionType:      ptr(models.ConditionTransactionType),
		ConditionValue:     ptr("purchase"),
		OverridePercentage: ptr(0.5),
		EffectiveFrom:      ptr(baseTime.Add(-time.Hour)),
		EffectiveTo:        ptr(baseTime.Add(time.Hour)),
		CreatedAt:          baseTime.Add(time.Hour),
	}

	rules := []models.FeeRule{percentageRule(1, 2), fixedRule(2, 0.3), expired, future, promo}
	rates := NewRuleEvaluator(LastCreatedWins).Evaluate(rules, decimal.NewFromInt(100), "purchase", baseTime)

	assert.Equal(t, 0.5, rates.Percentage.InexactFloat64())
	assert.Equal(t, 0.3, rates.Fixed.InexactFloat64())
}

func TestParseTieBreakPolicy(t *testing.T) {
	assert.Equal(t, FirstCreatedWins, ParseTieBreakPolicy("first_created_wins"))
	assert.Equal(t, FirstCreatedWins, ParseTieBreakPolicy(" FIRST_CREATED_WINS "))
	assert.Equal(t, LastCreatedWins, ParseTieBreakPolicy("last_created_wins"))
	assert.Equal(t, LastCreatedWins, ParseTieBreakPolicy("bogus"))
}
