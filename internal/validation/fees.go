package validation

import (
	"fmt"

	"feeengine/internal/models"

	"github.com/shopspring/decimal"
)

// FeeStructure validates the structure row itself.
func (v *Validator) FeeStructure(s *models.FeeStructure) {
	v.Required("name", s.Name)
	v.MaxLength("name", s.Name, MaxNameLength)
	v.MaxLength("description", s.Description, MaxDescriptionLength)

	if s.MinimumFee != nil {
		v.Min("minimum_fee", *s.MinimumFee, 0)
	}
	if s.MaximumFee != nil {
		v.Min("maximum_fee", *s.MaximumFee, 0)
	}
	if s.MinimumFee != nil && s.MaximumFee != nil {
		v.Check(*s.MaximumFee >= *s.MinimumFee, "maximum_fee", "must not be less than minimum_fee")
	}
}

// FeeRule validates a rule, reporting errors under prefix (e.g. "rules[2]").
func (v *Validator) FeeRule(prefix string, r *models.FeeRule) {
	field := func(name string) string { return prefix + "." + name }

	v.In(field("rule_type"), r.RuleType, models.RuleTypePercentage, models.RuleTypeFixed)
	v.Required(field("parameter_name"), r.ParameterName)
	v.MaxLength(field("parameter_name"), r.ParameterName, MaxParameterNameLength)

	if r.IsBase() {
		return
	}

	condition := *r.ConditionType
	v.In(field("condition_type"), condition,
		models.ConditionTransactionType, models.ConditionAmountGreaterThan, models.ConditionAmountLessThan)
	v.Required(field("condition_value"), r.ConditionValue)

	if r.ConditionValue != nil {
		v.MaxLength(field("condition_value"), *r.ConditionValue, MaxConditionLength)
		if condition == models.ConditionAmountGreaterThan || condition == models.ConditionAmountLessThan {
			_, err := decimal.NewFromString(*r.ConditionValue)
			v.Check(err == nil, field("condition_value"), "must be numeric for amount conditions")
		}
	}

	if r.MinFee != nil && r.MaxFee != nil {
		v.Check(*r.MaxFee >= *r.MinFee, field("max_fee"), "must not be less than min_fee")
	}
	if r.EffectiveFrom != nil && r.EffectiveTo != nil {
		v.Check(!r.EffectiveTo.Before(*r.EffectiveFrom), field("effective_to"), "must not be before effective_from")
	}
}

// VolumeTier validates a tier's bounds and rates.
func (v *Validator) VolumeTier(prefix string, t *models.VolumeTier) {
	field := func(name string) string { return prefix + "." + name }

	v.Min(field("min_volume"), t.MinVolume, 0)
	if t.MaxVolume != nil {
		v.Check(*t.MaxVolume >= t.MinVolume, field("max_volume"), "must not be less than min_volume")
	}
	v.Check(t.FeeValue != nil || t.PercentageFee != nil || t.FixedFee != nil,
		field("fee_value"), "one of fee_value, percentage_fee or fixed_fee is required")
}

// TierOverlap reports an error if t overlaps any of siblings. Siblings with
// t's own ID are ignored.
func (v *Validator) TierOverlap(prefix string, t *models.VolumeTier, siblings []models.VolumeTier) {
	for i := range siblings {
		s := &siblings[i]
		if t.ID != 0 && s.ID == t.ID {
			continue
		}
		if t.Overlaps(s) {
			v.AddError(prefix+".min_volume", fmt.Sprintf("overlaps tier %s", describeTier(s)))
			return
		}
	}
}

func describeTier(t *models.VolumeTier) string {
	if t.ID != 0 {
		return fmt.Sprintf("%d", t.ID)
	}
	if t.MaxVolume == nil {
		return fmt.Sprintf("[%v, unbounded)", t.MinVolume)
	}
	return fmt.Sprintf("[%v, %v]", t.MinVolume, *t.MaxVolume)
}
