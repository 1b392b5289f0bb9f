package models

import "time"

// Merchant is consumed by the fee engine only through its fee structure link.
type Merchant struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	BusinessName   string    `gorm:"not null" json:"business_name"`
	BusinessType   string    `json:"business_type"`
	Status         string    `gorm:"default:'pending'" json:"status"`
	FeeStructureID *uint     `gorm:"index" json:"fee_structure_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
