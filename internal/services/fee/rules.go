package fee

import (
	"sort"
	"strings"
	"time"

	"feeengine/internal/models"

	"github.com/shopspring/decimal"
)

// TieBreakPolicy decides which base rule wins when several of the same
// rule_type exist. Rules are scanned in policy order and the last write wins.
type TieBreakPolicy int

const (
	// LastCreatedWins scans rules oldest first, so the newest base rule wins.
	LastCreatedWins TieBreakPolicy = iota
	// FirstCreatedWins scans rules newest first, so the oldest base rule wins.
	FirstCreatedWins
)

func (p TieBreakPolicy) String() string {
	switch p {
	case FirstCreatedWins:
		return "first_created_wins"
	default:
		return "last_created_wins"
	}
}

// ParseTieBreakPolicy maps a policy name to its value. Unknown names fall
// back to LastCreatedWins.
func ParseTieBreakPolicy(name string) TieBreakPolicy {
	if strings.EqualFold(strings.TrimSpace(name), FirstCreatedWins.String()) {
		return FirstCreatedWins
	}
	return LastCreatedWins
}

// RuleEvaluator resolves rates from a structure's rules. It holds no state
// beyond its policy and is safe for concurrent use.
type RuleEvaluator struct {
	policy TieBreakPolicy
}

func NewRuleEvaluator(policy TieBreakPolicy) *RuleEvaluator {
	return &RuleEvaluator{policy: policy}
}

// Order returns a copy of rules sorted by the evaluator's tie-break policy.
func (e *RuleEvaluator) Order(rules []models.FeeRule) []models.FeeRule {
	ordered := make([]models.FeeRule, len(rules))
	copy(ordered, rules)

	less := func(a, b models.FeeRule) bool {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if e.policy == FirstCreatedWins {
			return less(ordered[j], ordered[i])
		}
		return less(ordered[i], ordered[j])
	})
	return ordered
}

// Base runs the base pass over ordered rules. Components without a base
// rule stay zero.
func (e *RuleEvaluator) Base(ordered []models.FeeRule, at time.Time) Rates {
	var rates Rates
	for i := range ordered {
		rule := &ordered[i]
		if !rule.IsBase() || !rule.EffectiveAt(at) {
			continue
		}
		value := decimal.NewFromFloat(rule.FeeValue)
		switch rule.RuleType {
		case models.RuleTypePercentage:
			rates.Percentage = value
		case models.RuleTypeFixed:
			rates.Fixed = value
		}
	}
	return rates
}

// ApplyConditions runs the conditional pass over ordered rules, starting from
// rates. A matching rule with break_on_match ends the pass.
func (e *RuleEvaluator) ApplyConditions(ordered []models.FeeRule, rates Rates, amount decimal.Decimal, txType string, at time.Time) Rates {
	for i := range ordered {
		rule := &ordered[i]
		if rule.IsBase() || !rule.EffectiveAt(at) {
			continue
		}
		if !matches(rule, amount, txType) {
			continue
		}
		if rule.OverridePercentage != nil {
			rates.Percentage = decimal.NewFromFloat(*rule.OverridePercentage)
		}
		if rule.OverrideFixedAmount != nil {
			rates.Fixed = decimal.NewFromFloat(*rule.OverrideFixedAmount)
		}
		if rule.BreakOnMatch {
			break
		}
	}
	return rates
}

// Evaluate orders rules and runs both passes without a tier override.
func (e *RuleEvaluator) Evaluate(rules []models.FeeRule, amount decimal.Decimal, txType string, at time.Time) Rates {
	ordered := e.Order(rules)
	return e.ApplyConditions(ordered, e.Base(ordered, at), amount, txType, at)
}

func matches(rule *models.FeeRule, amount decimal.Decimal, txType string) bool {
	if rule.ConditionValue == nil {
		return false
	}
	value := *rule.ConditionValue

	switch *rule.ConditionType {
	case models.ConditionTransactionType:
		return value == txType
	case models.ConditionAmountGreaterThan:
		threshold, err := decimal.NewFromString(strings.TrimSpace(value))
		return err == nil && amount.GreaterThan(threshold)
	case models.ConditionAmountLessThan:
		threshold, err := decimal.NewFromString(strings.TrimSpace(value))
		return err == nil && amount.LessThan(threshold)
	default:
		return false
	}
}
