package fee

import (
	"context"
	"fmt"
	"time"
)

// VolumeAggregator computes a merchant's month-to-date completed volume.
// The result is read from the store on every call.
type VolumeAggregator struct {
	store VolumeStore
}

func NewVolumeAggregator(store VolumeStore) *VolumeAggregator {
	if store == nil {
		panic("volume store is required")
	}
	return &VolumeAggregator{store: store}
}

// MonthlyVolume sums completed transactions created since the start of now's
// calendar month.
func (a *VolumeAggregator) MonthlyVolume(ctx context.Context, merchantID uint, now time.Time) (float64, error) {
	total, err := a.store.SumCompletedSince(ctx, merchantID, PeriodStart(now))
	if err != nil {
		return 0, fmt.Errorf("monthly volume for merchant %d: %w", merchantID, err)
	}
	return total, nil
}

// PeriodStart returns midnight of the first day of now's month, in now's location.
func PeriodStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
