package fee

import (
	"testing"

	"feeengine/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTiers() []models.VolumeTier {
	// Deliberately out of order.
	return []models.VolumeTier{
		{ID: 3, MinVolume: 50000.01, PercentageFee: ptr(1.0), FixedFee: ptr(0.1)},
		{ID: 1, MinVolume: 0, MaxVolume: ptr(10000.0), FeeValue: ptr(2.0)},
		{ID: 2, MinVolume: 10000.01, MaxVolume: ptr(50000.0), PercentageFee: ptr(1.5)},
	}
}

func TestVolumeTierSelector_Boundaries(t *testing.T) {
	selector := VolumeTierSelector{}
	start := Rates{Percentage: decimal.NewFromInt(3), Fixed: decimal.RequireFromString("0.3")}

	tests := []struct {
		volume     float64
		tierID     uint
		percentage float64
		fixed      float64
	}{
		{0, 1, 2, 0.3},
		{9999.99, 1, 2, 0.3},
		{10000, 1, 2, 0.3},
		{10000.01, 2, 1.5, 0.3},
		{50000, 2, 1.5, 0.3},
		{50000.01, 3, 1, 0.1},
		{1e9, 3, 1, 0.1},
	}

	for _, tt := range tests {
		rates, tier := selector.Apply(sampleTiers(), tt.volume, start)
		require.NotNil(t, tier, "volume %v", tt.volume)
		assert.Equal(t, tt.tierID, tier.ID, "volume %v", tt.volume)
		assert.Equal(t, tt.percentage, rates.Percentage.InexactFloat64(), "volume %v", tt.volume)
		assert.Equal(t, tt.fixed, rates.Fixed.InexactFloat64(), "volume %v", tt.volume)
	}
}

func TestVolumeTierSelector_NoMatchKeepsRates(t *testing.T) {
	tiers := []models.VolumeTier{
		{ID: 1, MinVolume: 1000, MaxVolume: ptr(5000.0), FeeValue: ptr(1.0)},
	}
	start := Rates{Percentage: decimal.NewFromInt(2), Fixed: decimal.NewFromInt(1)}

	for _, volume := range []float64{999.99, 5000.01} {
		rates, tier := VolumeTierSelector{}.Apply(tiers, volume, start)
		assert.Nil(t, tier)
		assert.Equal(t, start, rates)
	}

	rates, tier := VolumeTierSelector{}.Apply(nil, 100, start)
	assert.Nil(t, tier)
	assert.Equal(t, start, rates)
}

func TestVolumeTierSelector_DoesNotReorderInput(t *testing.T) {
	tiers := sampleTiers()
	VolumeTierSelector{}.Select(tiers, 20000)
	assert.Equal(t, uint(3), tiers[0].ID)
}
