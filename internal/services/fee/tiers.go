package fee

import (
	"sort"

	"feeengine/internal/models"

	"github.com/shopspring/decimal"
)

// VolumeTierSelector picks the volume tier for a merchant's monthly volume.
type VolumeTierSelector struct{}

// Select returns the first tier, ascending by min_volume, whose inclusive
// bounds contain volume, or nil.
func (VolumeTierSelector) Select(tiers []models.VolumeTier, volume float64) *models.VolumeTier {
	sorted := make([]models.VolumeTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MinVolume != sorted[j].MinVolume {
			return sorted[i].MinVolume < sorted[j].MinVolume
		}
		return sorted[i].ID < sorted[j].ID
	})

	for i := range sorted {
		if sorted[i].Contains(volume) {
			tier := sorted[i]
			return &tier
		}
	}
	return nil
}

// Apply overrides rates with the selected tier. Separate percentage_fee and
// fixed_fee override their own component; otherwise fee_value replaces the
// percentage. Rates are unchanged when no tier matches.
func (s VolumeTierSelector) Apply(tiers []models.VolumeTier, volume float64, rates Rates) (Rates, *models.VolumeTier) {
	tier := s.Select(tiers, volume)
	if tier == nil {
		return rates, nil
	}

	if tier.PercentageFee != nil || tier.FixedFee != nil {
		if tier.PercentageFee != nil {
			rates.Percentage = decimal.NewFromFloat(*tier.PercentageFee)
		}
		if tier.FixedFee != nil {
			rates.Fixed = decimal.NewFromFloat(*tier.FixedFee)
		}
		return rates, tier
	}
	if tier.FeeValue != nil {
		rates.Percentage = decimal.NewFromFloat(*tier.FeeValue)
	}
	return rates, tier
}
