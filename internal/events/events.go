// Package events publishes fee structure change notifications so other
// services can drop cached fee data.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	TypeStructureCreated  = "fee_structure.created"
	TypeStructureUpdated  = "fee_structure.updated"
	TypeStructureDeleted  = "fee_structure.deleted"
	TypeStructureAssigned = "fee_structure.assigned"
	TypeTierCreated       = "volume_tier.created"
	TypeTierUpdated       = "volume_tier.updated"
	TypeTierDeleted       = "volume_tier.deleted"
)

// Backends
const (
	BackendNone  = "none"
	BackendRedis = "redis"
	BackendKafka = "kafka"
)

type FeeStructureEvent struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	FeeStructureID uint      `json:"fee_structure_id"`
	MerchantID     *uint     `json:"merchant_id,omitempty"`
	VolumeTierID   *uint     `json:"volume_tier_id,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// NewFeeStructureEvent stamps a new event with a fresh id and the current time.
func NewFeeStructureEvent(eventType string, structureID uint) FeeStructureEvent {
	return FeeStructureEvent{
		ID:             uuid.NewString(),
		Type:           eventType,
		FeeStructureID: structureID,
		OccurredAt:     time.Now().UTC(),
	}
}

// Publisher delivers fee structure events.
type Publisher interface {
	Publish(ctx context.Context, event FeeStructureEvent) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, FeeStructureEvent) error { return nil }
func (NoopPublisher) Close() error                                     { return nil }
