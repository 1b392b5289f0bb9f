package fee

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculationRequest is the input of a fee quote. Amount accepts a JSON
// number or a numeric string.
type CalculationRequest struct {
	MerchantID      uint            `json:"merchantId"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transactionType"`
}

// FeeBreakdown is the result of a fee quote.
type FeeBreakdown struct {
	MerchantID        uint    `json:"merchant_id"`
	TransactionAmount float64 `json:"transaction_amount"`
	TransactionType   string  `json:"transaction_type"`
	FeeStructureName  string  `json:"fee_structure_name"`
	FeeStructureID    *uint   `json:"fee_structure_id,omitempty"`
	PercentageFee     float64 `json:"percentage_fee"`
	PercentageAmount  float64 `json:"percentage_amount"`
	FixedAmount       float64 `json:"fixed_amount"`
	TotalFee          float64 `json:"total_fee"`
	MonthlyVolume     float64 `json:"monthly_volume"`
	IsVolumeBased     bool    `json:"is_volume_based"`
	Error             string  `json:"error,omitempty"`
}

// Rates is the (percentage, fixed) pair produced by rule and tier resolution.
// Percentage is expressed in percent, e.g. 2.5 means 2.5%.
type Rates struct {
	Percentage decimal.Decimal
	Fixed      decimal.Decimal
}

// CalculatorConfig holds optional calculator settings.
type CalculatorConfig struct {
	TieBreak TieBreakPolicy
	// Now returns the reference time for effective windows and the volume
	// period. Defaults to time.Now.
	Now func() time.Time
}

// MetricsCollector defines the interface for collecting fee calculation metrics
type MetricsCollector interface {
	RecordCalculation(outcome string, duration time.Duration)
	RecordFallback(stage string)
	RecordCacheHit()
	RecordCacheMiss()
}
