package feestructure

import (
	"context"
	"fmt"
	"sort"
	"time"

	apperrors "feeengine/internal/errors"
	"feeengine/internal/events"
	"feeengine/internal/models"
	"feeengine/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// memoryStore is an in-memory FeeStructureRepository. Transactions snapshot
// the maps and restore them when fn fails.
type memoryStore struct {
	nextID     uint
	clock      time.Time
	structures map[uint]models.FeeStructure
	rules      map[uint]models.FeeRule
	tiers      map[uint]models.VolumeTier
	merchants  map[uint]models.Merchant
	failOn     map[string]error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		nextID:     100,
		clock:      time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		structures: map[uint]models.FeeStructure{},
		rules:      map[uint]models.FeeRule{},
		tiers:      map[uint]models.VolumeTier{},
		merchants:  map[uint]models.Merchant{},
		failOn:     map[string]error{},
	}
}

func (s *memoryStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *memoryStore) fail(op string) error {
	if err, ok := s.failOn[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *memoryStore) snapshot() func() {
	structures := copyMap(s.structures)
	rules := copyMap(s.rules)
	tiers := copyMap(s.tiers)
	merchants := copyMap(s.merchants)
	return func() {
		s.structures, s.rules, s.tiers, s.merchants = structures, rules, tiers, merchants
	}
}

func copyMap[V any](m map[uint]V) map[uint]V {
	out := make(map[uint]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memoryStore) GetByID(_ context.Context, id uint) (*models.FeeStructure, error) {
	if err := s.fail("GetByID"); err != nil {
		return nil, err
	}
	st, ok := s.structures[id]
	if !ok {
		return nil, repositories.ErrFeeStructureNotFound
	}
	return &st, nil
}

func (s *memoryStore) GetByMerchantID(_ context.Context, merchantID uint) (*models.FeeStructure, error) {
	m, ok := s.merchants[merchantID]
	if !ok || m.FeeStructureID == nil {
		return nil, repositories.ErrFeeStructureNotFound
	}
	st, ok := s.structures[*m.FeeStructureID]
	if !ok {
		return nil, repositories.ErrFeeStructureNotFound
	}
	return &st, nil
}

func (s *memoryStore) List(_ context.Context) ([]models.FeeStructure, error) {
	var out []models.FeeStructure
	for _, st := range s.structures {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memoryStore) ListRules(_ context.Context, structureID uint) ([]models.FeeRule, error) {
	if err := s.fail("ListRules"); err != nil {
		return nil, err
	}
	var out []models.FeeRule
	for _, r := range s.rules {
		if r.FeeStructureID == structureID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) GetRule(_ context.Context, id uint) (*models.FeeRule, error) {
	r, ok := s.rules[id]
	if !ok {
		return nil, repositories.ErrFeeRuleNotFound
	}
	return &r, nil
}

func (s *memoryStore) ListTiers(_ context.Context, structureID uint) ([]models.VolumeTier, error) {
	var out []models.VolumeTier
	for _, t := range s.tiers {
		if r, ok := s.rules[t.FeeRuleID]; ok && r.FeeStructureID == structureID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MinVolume != out[j].MinVolume {
			return out[i].MinVolume < out[j].MinVolume
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memoryStore) GetTier(_ context.Context, id uint) (*models.VolumeTier, error) {
	t, ok := s.tiers[id]
	if !ok {
		return nil, repositories.ErrVolumeTierNotFound
	}
	return &t, nil
}

func (s *memoryStore) uniqueName(name string, except uint) error {
	for _, st := range s.structures {
		if st.Name == name && st.ID != except {
			return fmt.Errorf("create fee structure: %w", &apperrors.StoreError{
				Category: apperrors.StoreUniqueViolation,
				Err:      fmt.Errorf("duplicate key value violates unique constraint"),
			})
		}
	}
	return nil
}

func (s *memoryStore) Create(_ context.Context, structure *models.FeeStructure) error {
	if err := s.fail("Create"); err != nil {
		return err
	}
	if err := s.uniqueName(structure.Name, 0); err != nil {
		return err
	}
	structure.ID = s.id()
	structure.CreatedAt = s.tick()
	structure.UpdatedAt = structure.CreatedAt
	s.structures[structure.ID] = *structure
	return nil
}

func (s *memoryStore) Update(_ context.Context, structure *models.FeeStructure, ifUnmodifiedSince *time.Time) error {
	current, ok := s.structures[structure.ID]
	if !ok {
		if ifUnmodifiedSince != nil {
			return repositories.ErrStaleFeeStructure
		}
		return repositories.ErrFeeStructureNotFound
	}
	if ifUnmodifiedSince != nil && !current.UpdatedAt.Equal(*ifUnmodifiedSince) {
		return repositories.ErrStaleFeeStructure
	}
	if err := s.uniqueName(structure.Name, structure.ID); err != nil {
		return err
	}
	structure.CreatedAt = current.CreatedAt
	structure.UpdatedAt = s.tick()
	s.structures[structure.ID] = *structure
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id uint) error {
	if err := s.fail("Delete"); err != nil {
		return err
	}
	if _, ok := s.structures[id]; !ok {
		return repositories.ErrFeeStructureNotFound
	}
	delete(s.structures, id)
	return nil
}

func (s *memoryStore) CreateRule(_ context.Context, rule *models.FeeRule) error {
	if err := s.fail("CreateRule"); err != nil {
		return err
	}
	rule.ID = s.id()
	rule.CreatedAt = s.tick()
	rule.UpdatedAt = rule.CreatedAt
	s.rules[rule.ID] = *rule
	return nil
}

func (s *memoryStore) DeleteRules(_ context.Context, structureID uint) error {
	for id, r := range s.rules {
		if r.FeeStructureID == structureID {
			delete(s.rules, id)
		}
	}
	return nil
}

func (s *memoryStore) CreateTier(_ context.Context, tier *models.VolumeTier) error {
	if err := s.fail("CreateTier"); err != nil {
		return err
	}
	tier.ID = s.id()
	tier.CreatedAt = s.tick()
	tier.UpdatedAt = tier.CreatedAt
	s.tiers[tier.ID] = *tier
	return nil
}

func (s *memoryStore) UpdateTier(_ context.Context, tier *models.VolumeTier) error {
	if _, ok := s.tiers[tier.ID]; !ok {
		return repositories.ErrVolumeTierNotFound
	}
	tier.UpdatedAt = s.tick()
	s.tiers[tier.ID] = *tier
	return nil
}

func (s *memoryStore) DeleteTier(_ context.Context, id uint) error {
	if _, ok := s.tiers[id]; !ok {
		return repositories.ErrVolumeTierNotFound
	}
	delete(s.tiers, id)
	return nil
}

func (s *memoryStore) DeleteTiers(_ context.Context, structureID uint) error {
	for id, t := range s.tiers {
		if r, ok := s.rules[t.FeeRuleID]; ok && r.FeeStructureID == structureID {
			delete(s.tiers, id)
		}
	}
	return nil
}

func (s *memoryStore) ReanchorTiers(_ context.Context, tierIDs []uint, ruleID uint) error {
	for _, id := range tierIDs {
		t := s.tiers[id]
		t.FeeRuleID = ruleID
		s.tiers[id] = t
	}
	return nil
}

func (s *memoryStore) GetMerchant(_ context.Context, id uint) (*models.Merchant, error) {
	m, ok := s.merchants[id]
	if !ok {
		return nil, repositories.ErrMerchantNotFound
	}
	return &m, nil
}

func (s *memoryStore) CountMerchants(_ context.Context, structureID uint) (int64, error) {
	var n int64
	for _, m := range s.merchants {
		if m.FeeStructureID != nil && *m.FeeStructureID == structureID {
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) AssignMerchant(_ context.Context, merchantID, structureID uint) error {
	m, ok := s.merchants[merchantID]
	if !ok {
		return repositories.ErrMerchantNotFound
	}
	m.FeeStructureID = &structureID
	s.merchants[merchantID] = m
	return nil
}

func (s *memoryStore) ExecuteInTransaction(_ context.Context, fn func(repositories.FeeStructureRepository) error) error {
	restore := s.snapshot()
	if err := fn(s); err != nil {
		restore()
		return err
	}
	return nil
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event events.FeeStructureEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockPublisher) Close() error { return nil }

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) InvalidateRuleSet(ctx context.Context, structureID uint) error {
	return m.Called(ctx, structureID).Error(0)
}

func ptr[T any](v T) *T { return &v }
