package models

import (
	"time"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// Transaction types
const (
	TransactionTypePurchase = "purchase"
	TransactionTypeRefund   = "refund"
)

// Transaction is read by the volume aggregation.
type Transaction struct {
	ID          uint    `gorm:"primarykey"`
	Type        string  `gorm:"not null"`
	MerchantID  *uint   `gorm:"index"`
	Amount      float64 `gorm:"not null"`
	Status      string  `gorm:"not null;default:'pending'"`
	Fee         float64 `gorm:"default:0"`
	Currency    string  `gorm:"default:'USD'"`
	Description string
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}
