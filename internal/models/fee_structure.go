package models

import "time"

// Rule types
const (
	RuleTypePercentage = "percentage"
	RuleTypeFixed      = "fixed"
)

// Rule condition types. A nil or empty condition is treated as ConditionBase.
const (
	ConditionBase              = "base"
	ConditionTransactionType   = "transaction_type"
	ConditionAmountGreaterThan = "transaction_amount_gt"
	ConditionAmountLessThan    = "transaction_amount_lt"
)

// DefaultParameterName labels rules created without an explicit parameter name.
const DefaultParameterName = "transaction_fee"

// FeeStructure is a named fee policy assignable to merchants.
type FeeStructure struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Name          string    `gorm:"uniqueIndex;not null" json:"name"`
	Description   string    `json:"description"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
	IsVolumeBased bool      `gorm:"not null" json:"is_volume_based"`
	MinimumFee    *float64  `gorm:"type:numeric(12,2)" json:"minimum_fee,omitempty"`
	MaximumFee    *float64  `gorm:"type:numeric(12,2)" json:"maximum_fee,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FeeRule is one clause of a fee structure: a base rate or a conditional override.
type FeeRule struct {
	ID                  uint       `gorm:"primarykey" json:"id"`
	FeeStructureID      uint       `gorm:"index;not null" json:"fee_structure_id"`
	RuleType            string     `gorm:"not null" json:"rule_type"`
	ParameterName       string     `gorm:"not null" json:"parameter_name"`
	ConditionType       *string    `json:"condition_type,omitempty"`
	ConditionValue      *string    `json:"condition_value,omitempty"`
	FeeValue            float64    `gorm:"type:numeric(12,4);not null" json:"fee_value"`
	OverridePercentage  *float64   `gorm:"type:numeric(12,4)" json:"override_percentage,omitempty"`
	OverrideFixedAmount *float64   `gorm:"type:numeric(12,4)" json:"override_fixed_amount,omitempty"`
	BreakOnMatch        bool       `gorm:"not null" json:"break_on_match"`
	MinFee              *float64   `gorm:"type:numeric(12,2)" json:"min_fee,omitempty"`
	MaxFee              *float64   `gorm:"type:numeric(12,2)" json:"max_fee,omitempty"`
	EffectiveFrom       *time.Time `json:"effective_from,omitempty"`
	EffectiveTo         *time.Time `json:"effective_to,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsBase reports whether the rule carries no condition.
func (r *FeeRule) IsBase() bool {
	return r.ConditionType == nil || *r.ConditionType == "" || *r.ConditionType == ConditionBase
}

// EffectiveAt reports whether t falls inside the rule's optional effective window.
func (r *FeeRule) EffectiveAt(t time.Time) bool {
	if r.EffectiveFrom != nil && t.Before(*r.EffectiveFrom) {
		return false
	}
	if r.EffectiveTo != nil && t.After(*r.EffectiveTo) {
		return false
	}
	return true
}

// VolumeTier overrides fee rates for a band of monthly merchant volume. Tiers
// are always owned by a fee rule of the structure they price.
type VolumeTier struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	FeeRuleID     uint      `gorm:"index;not null" json:"fee_rule_id"`
	MinVolume     float64   `gorm:"type:numeric(14,2);not null" json:"min_volume"`
	MaxVolume     *float64  `gorm:"type:numeric(14,2)" json:"max_volume,omitempty"`
	FeeValue      *float64  `gorm:"type:numeric(12,4)" json:"fee_value,omitempty"`
	PercentageFee *float64  `gorm:"type:numeric(12,4)" json:"percentage_fee,omitempty"`
	FixedFee      *float64  `gorm:"type:numeric(12,4)" json:"fixed_fee,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Contains reports whether volume falls inside the tier's inclusive bounds.
func (t *VolumeTier) Contains(volume float64) bool {
	if volume < t.MinVolume {
		return false
	}
	return t.MaxVolume == nil || volume <= *t.MaxVolume
}

// Overlaps reports whether two tiers share any volume.
func (t *VolumeTier) Overlaps(o *VolumeTier) bool {
	if t.MaxVolume != nil && *t.MaxVolume < o.MinVolume {
		return false
	}
	if o.MaxVolume != nil && *o.MaxVolume < t.MinVolume {
		return false
	}
	return true
}

// FeeRuleSet is the cacheable part of a fee structure: its rules in id order
// and the tiers owned by those rules.
type FeeRuleSet struct {
	Rules []FeeRule    `json:"rules"`
	Tiers []VolumeTier `json:"tiers"`
}
