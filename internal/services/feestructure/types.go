package feestructure

import (
	"time"

	"feeengine/internal/models"
)

// RuleInput describes one fee rule in a create or update request.
type RuleInput struct {
	RuleType            string     `json:"rule_type"`
	ParameterName       string     `json:"parameter_name"`
	ConditionType       *string    `json:"condition_type"`
	ConditionValue      *string    `json:"condition_value"`
	FeeValue            Numeric    `json:"fee_value"`
	OverridePercentage  Numeric    `json:"override_percentage"`
	OverrideFixedAmount Numeric    `json:"override_fixed_amount"`
	BreakOnMatch        bool       `json:"break_on_match"`
	MinFee              Numeric    `json:"min_fee"`
	MaxFee              Numeric    `json:"max_fee"`
	EffectiveFrom       *time.Time `json:"effective_from"`
	EffectiveTo         *time.Time `json:"effective_to"`
}

// TierInput describes a volume tier. On update, absent fields keep their
// current value and null clears optional ones.
type TierInput struct {
	MinVolume     Numeric `json:"min_volume"`
	MaxVolume     Numeric `json:"max_volume"`
	FeeValue      Numeric `json:"fee_value"`
	PercentageFee Numeric `json:"percentage_fee"`
	FixedFee      Numeric `json:"fixed_fee"`
}

type CreateStructureInput struct {
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	IsActive      *bool       `json:"is_active"`
	IsVolumeBased bool        `json:"is_volume_based"`
	MinimumFee    Numeric     `json:"minimum_fee"`
	MaximumFee    Numeric     `json:"maximum_fee"`
	Rules         []RuleInput `json:"rules"`
	VolumeTiers   []TierInput `json:"volume_tiers"`
}

// UpdateStructureInput replaces the structure's rule set with Rules. Other
// optional fields keep their current value when absent.
type UpdateStructureInput struct {
	Name          string      `json:"name"`
	Description   *string     `json:"description"`
	IsActive      *bool       `json:"is_active"`
	IsVolumeBased *bool       `json:"is_volume_based"`
	MinimumFee    Numeric     `json:"minimum_fee"`
	MaximumFee    Numeric     `json:"maximum_fee"`
	Rules         []RuleInput `json:"rules"`
	// IfUnmodifiedSince must equal the structure's updated_at for the
	// update to proceed.
	IfUnmodifiedSince *time.Time `json:"if_unmodified_since"`
}

// StructureDetail is a structure with its rules and tiers.
type StructureDetail struct {
	models.FeeStructure
	Rules       []models.FeeRule    `json:"rules"`
	VolumeTiers []models.VolumeTier `json:"volume_tiers"`
}

// SkippedRule reports a rule dropped by UpdateStructure.
type SkippedRule struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

type UpdateResult struct {
	StructureDetail
	SkippedRules []SkippedRule `json:"skipped_rules,omitempty"`
}

type DeleteResult struct {
	ID uint `json:"id"`
}
