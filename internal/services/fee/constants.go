package fee

import "github.com/shopspring/decimal"

// Default structure used for unassigned merchants and as the failure fallback.
const DefaultStructureName = "Default"

var (
	DefaultPercentage = decimal.RequireFromString("2.5")
	DefaultFixed      = decimal.RequireFromString("0.30")
	DefaultMinimumFee = decimal.RequireFromString("0.50")
)

var hundred = decimal.NewFromInt(100)

// Fallback reasons reported to metrics
const (
	stageResolve = "resolve_structure"
	stageRules   = "load_rules"
	stageTiers   = "load_tiers"
	stageVolume  = "monthly_volume"
	stagePanic   = "panic"
)

// Calculation outcomes
const (
	OutcomeComputed = "computed"
	OutcomeDefault  = "default"
	OutcomeFallback = "fallback"
)
