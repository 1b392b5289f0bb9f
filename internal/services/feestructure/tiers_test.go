package feestructure

import (
	"context"
	"encoding/json"
	"testing"

	apperrors "feeengine/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeTier(t *testing.T, body string) TierInput {
	t.Helper()
	var in TierInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func TestManager_CreateTier(t *testing.T) {
	ctx := context.Background()

	t.Run("anchors to lowest id rule", func(t *testing.T) {
		store := newMemoryStore()
		m := newTestManager(store)
		seeded := seedStructure(t, m)
		// Drop the top tier so there is room above 10000.
		for id, tier := range store.tiers {
			if tier.MaxVolume == nil {
				delete(store.tiers, id)
			}
		}

		tier, err := m.CreateTier(ctx, seeded.ID, decodeTier(t, `{"min_volume": "10000.01", "max_volume": 20000, "fee_value": "1.75"}`))

		require.NoError(t, err)
		assert.Equal(t, seeded.Rules[0].ID, tier.FeeRuleID)
		assert.Equal(t, 10000.01, tier.MinVolume)
		assert.Equal(t, 1.75, *tier.FeeValue)

		tiers, err := m.ListTiers(ctx, seeded.ID)
		require.NoError(t, err)
		assert.Len(t, tiers, 2)
	})

	t.Run("structure without rules", func(t *testing.T) {
		m := newTestManager(newMemoryStore())
		detail, err := m.CreateStructure(ctx, decodeCreate(t, `{"name": "Bare"}`))
		require.NoError(t, err)

		_, err = m.CreateTier(ctx, detail.ID, decodeTier(t, `{"min_volume": 0, "fee_value": 1}`))

		assert.ErrorIs(t, err, apperrors.ErrNoAnchorRule)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("overlap rejected", func(t *testing.T) {
		store := newMemoryStore()
		m := newTestManager(store)
		seeded := seedStructure(t, m)

		_, err := m.CreateTier(ctx, seeded.ID, decodeTier(t, `{"min_volume": 500, "max_volume": 600, "fee_value": 1}`))

		assert.ErrorIs(t, err, apperrors.ErrTierOverlap)
		assert.Len(t, store.tiers, 2)
	})

	t.Run("non numeric input", func(t *testing.T) {
		m := newTestManager(newMemoryStore())
		seeded := seedStructure(t, m)

		_, err := m.CreateTier(ctx, seeded.ID, decodeTier(t, `{"min_volume": "lots", "fee_value": 1}`))

		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "tier.min_volume must be numeric")
	})

	t.Run("unknown structure", func(t *testing.T) {
		_, err := newTestManager(newMemoryStore()).CreateTier(ctx, 77, decodeTier(t, `{"min_volume": 0, "fee_value": 1}`))
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestManager_UpdateTier(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	m := newTestManager(store)
	seeded := seedStructure(t, m)
	first := seeded.VolumeTiers[0]

	t.Run("patch keeps absent fields", func(t *testing.T) {
		tier, err := m.UpdateTier(ctx, first.ID, decodeTier(t, `{"max_volume": "9000"}`))

		require.NoError(t, err)
		assert.Equal(t, 9000.0, *tier.MaxVolume)
		assert.Equal(t, 2.5, *tier.FeeValue)
		assert.Equal(t, 9000.0, *store.tiers[first.ID].MaxVolume)
	})

	t.Run("null clears and validation still applies", func(t *testing.T) {
		_, err := m.UpdateTier(ctx, first.ID, decodeTier(t, `{"fee_value": null}`))
		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, 2.5, *store.tiers[first.ID].FeeValue)
	})

	t.Run("overlap with sibling", func(t *testing.T) {
		_, err := m.UpdateTier(ctx, first.ID, decodeTier(t, `{"max_volume": 20000}`))
		assert.ErrorIs(t, err, apperrors.ErrTierOverlap)
	})

	t.Run("inverted bounds", func(t *testing.T) {
		_, err := m.UpdateTier(ctx, first.ID, decodeTier(t, `{"min_volume": 9500}`))
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "max_volume")
	})

	t.Run("unknown tier", func(t *testing.T) {
		_, err := m.UpdateTier(ctx, 9999, decodeTier(t, `{"min_volume": 1}`))
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestManager_DeleteTier(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	m := newTestManager(store)
	seeded := seedStructure(t, m)

	require.NoError(t, m.DeleteTier(ctx, seeded.VolumeTiers[1].ID))
	assert.Len(t, store.tiers, 1)

	err := m.DeleteTier(ctx, seeded.VolumeTiers[1].ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestNumeric_UnmarshalJSON(t *testing.T) {
	var in struct {
		Number  Numeric `json:"number"`
		String  Numeric `json:"string"`
		Null    Numeric `json:"null"`
		Empty   Numeric `json:"empty"`
		Bad     Numeric `json:"bad"`
		Bool    Numeric `json:"bool"`
		Missing Numeric `json:"missing"`
	}
	body := `{"number": 12.5, "string": " 3.75 ", "null": null, "empty": "", "bad": "ten", "bool": true}`
	require.NoError(t, json.Unmarshal([]byte(body), &in))

	assert.True(t, in.Number.IsSet())
	assert.Equal(t, 12.5, in.Number.Float64())
	assert.Equal(t, 3.75, *in.String.Ptr())
	assert.True(t, in.Null.IsNull())
	assert.True(t, in.Empty.IsNull())
	assert.True(t, in.Bad.IsInvalid())
	assert.True(t, in.Bool.IsInvalid())
	assert.False(t, in.Missing.IsSet() || in.Missing.IsNull() || in.Missing.IsInvalid())
	assert.Nil(t, in.Missing.Ptr())

	out, err := json.Marshal(in.String)
	require.NoError(t, err)
	assert.Equal(t, "3.75", string(out))
}
