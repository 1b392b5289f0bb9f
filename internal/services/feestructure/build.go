package feestructure

import (
	"fmt"
	"strings"

	"feeengine/internal/models"
	"feeengine/internal/validation"
)

// numericField records an error on v when n holds a non-numeric value.
func numericField(v *validation.Validator, field string, n Numeric) {
	v.Check(!n.IsInvalid(), field, "must be numeric")
}

// buildRule converts in into a rule, applying the create defaults for
// rule_type and parameter_name when defaultType is set.
func buildRule(v *validation.Validator, prefix string, in RuleInput, defaultType bool) models.FeeRule {
	ruleType := strings.TrimSpace(in.RuleType)
	if ruleType == "" && defaultType {
		ruleType = models.RuleTypePercentage
	}
	parameter := strings.TrimSpace(in.ParameterName)
	if parameter == "" {
		parameter = models.DefaultParameterName
	}

	v.Required(prefix+".rule_type", ruleType)
	numericField(v, prefix+".fee_value", in.FeeValue)
	v.Check(in.FeeValue.IsSet() || in.FeeValue.IsInvalid(), prefix+".fee_value", "is required")
	numericField(v, prefix+".override_percentage", in.OverridePercentage)
	numericField(v, prefix+".override_fixed_amount", in.OverrideFixedAmount)
	numericField(v, prefix+".min_fee", in.MinFee)
	numericField(v, prefix+".max_fee", in.MaxFee)

	rule := models.FeeRule{
		RuleType:            ruleType,
		ParameterName:       parameter,
		ConditionType:       in.ConditionType,
		ConditionValue:      in.ConditionValue,
		FeeValue:            in.FeeValue.Float64(),
		OverridePercentage:  in.OverridePercentage.Ptr(),
		OverrideFixedAmount: in.OverrideFixedAmount.Ptr(),
		BreakOnMatch:        in.BreakOnMatch,
		MinFee:              in.MinFee.Ptr(),
		MaxFee:              in.MaxFee.Ptr(),
		EffectiveFrom:       in.EffectiveFrom,
		EffectiveTo:         in.EffectiveTo,
	}
	if ruleType != "" {
		v.FeeRule(prefix, &rule)
	}
	return rule
}

// buildTier converts a full tier input. min_volume is required.
func buildTier(v *validation.Validator, prefix string, in TierInput) models.VolumeTier {
	numericField(v, prefix+".min_volume", in.MinVolume)
	v.Check(in.MinVolume.IsSet() || in.MinVolume.IsInvalid(), prefix+".min_volume", "is required")
	numericField(v, prefix+".max_volume", in.MaxVolume)
	numericField(v, prefix+".fee_value", in.FeeValue)
	numericField(v, prefix+".percentage_fee", in.PercentageFee)
	numericField(v, prefix+".fixed_fee", in.FixedFee)

	tier := models.VolumeTier{
		MinVolume:     in.MinVolume.Float64(),
		MaxVolume:     in.MaxVolume.Ptr(),
		FeeValue:      in.FeeValue.Ptr(),
		PercentageFee: in.PercentageFee.Ptr(),
		FixedFee:      in.FixedFee.Ptr(),
	}
	v.VolumeTier(prefix, &tier)
	return tier
}

// patchTier applies in to a copy of current.
func patchTier(v *validation.Validator, current models.VolumeTier, in TierInput) models.VolumeTier {
	numericField(v, "min_volume", in.MinVolume)
	numericField(v, "max_volume", in.MaxVolume)
	numericField(v, "fee_value", in.FeeValue)
	numericField(v, "percentage_fee", in.PercentageFee)
	numericField(v, "fixed_fee", in.FixedFee)
	v.Check(!in.MinVolume.IsNull(), "min_volume", "is required")

	tier := current
	if in.MinVolume.IsSet() {
		tier.MinVolume = in.MinVolume.Float64()
	}
	patchOptional(&tier.MaxVolume, in.MaxVolume)
	patchOptional(&tier.FeeValue, in.FeeValue)
	patchOptional(&tier.PercentageFee, in.PercentageFee)
	patchOptional(&tier.FixedFee, in.FixedFee)

	v.VolumeTier("tier", &tier)
	return tier
}

func patchOptional(dst **float64, n Numeric) {
	switch {
	case n.IsSet():
		*dst = n.Ptr()
	case n.IsNull():
		*dst = nil
	}
}

// skipReason joins every failing field into one message.
func skipReason(v *validation.Validator) string {
	fields := v.Fields()
	if len(fields) == 0 {
		return ""
	}
	reasons := make([]string, 0, len(fields))
	for _, f := range fields {
		reasons = append(reasons, fmt.Sprintf("%s %s", f, v.Errors[f]))
	}
	return strings.Join(reasons, "; ")
}
