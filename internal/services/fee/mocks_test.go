package fee

import (
	"context"
	"time"

	"feeengine/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStructureStore struct {
	mock.Mock
}

func (m *MockStructureStore) GetByMerchantID(ctx context.Context, merchantID uint) (*models.FeeStructure, error) {
	args := m.Called(ctx, merchantID)
	structure, _ := args.Get(0).(*models.FeeStructure)
	return structure, args.Error(1)
}

func (m *MockStructureStore) ListRules(ctx context.Context, structureID uint) ([]models.FeeRule, error) {
	args := m.Called(ctx, structureID)
	rules, _ := args.Get(0).([]models.FeeRule)
	return rules, args.Error(1)
}

func (m *MockStructureStore) ListTiers(ctx context.Context, structureID uint) ([]models.VolumeTier, error) {
	args := m.Called(ctx, structureID)
	tiers, _ := args.Get(0).([]models.VolumeTier)
	return tiers, args.Error(1)
}

type MockVolumeStore struct {
	mock.Mock
}

func (m *MockVolumeStore) SumCompletedSince(ctx context.Context, merchantID uint, since time.Time) (float64, error) {
	args := m.Called(ctx, merchantID, since)
	return args.Get(0).(float64), args.Error(1)
}

type MockRuleSetCache struct {
	mock.Mock
}

func (m *MockRuleSetCache) GetRuleSet(ctx context.Context, structureID uint) (*models.FeeRuleSet, bool, error) {
	args := m.Called(ctx, structureID)
	set, _ := args.Get(0).(*models.FeeRuleSet)
	return set, args.Bool(1), args.Error(2)
}

func (m *MockRuleSetCache) SetRuleSet(ctx context.Context, structureID uint, set *models.FeeRuleSet) error {
	args := m.Called(ctx, structureID, set)
	return args.Error(0)
}

type MockMetrics struct {
	mock.Mock
}

func (m *MockMetrics) RecordCalculation(outcome string, duration time.Duration) {
	m.Called(outcome, duration)
}

func (m *MockMetrics) RecordFallback(stage string) {
	m.Called(stage)
}

func (m *MockMetrics) RecordCacheHit()  { m.Called() }
func (m *MockMetrics) RecordCacheMiss() { m.Called() }

func ptr[T any](v T) *T {
	return &v
}

var baseTime = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

func percentageRule(id uint, value float64) models.FeeRule {
	return models.FeeRule{
		ID:        id,
		RuleType:  models.RuleTypePercentage,
		FeeValue:  value,
		CreatedAt: baseTime.Add(time.Duration(id) * time.Minute),
	}
}

func fixedRule(id uint, value float64) models.FeeRule {
	return models.FeeRule{
		ID:        id,
		RuleType:  models.RuleTypeFixed,
		FeeValue:  value,
		CreatedAt: baseTime.Add(time.Duration(id) * time.Minute),
	}
}
