package repositories

import (
	"context"
	"time"

	"feeengine/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository reads merchant transaction totals.
type TransactionRepository interface {
	// SumCompletedSince sums the amounts of the merchant's completed
	// transactions created at or after since.
	SumCompletedSince(ctx context.Context, merchantID uint, since time.Time) (float64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) SumCompletedSince(ctx context.Context, merchantID uint, since time.Time) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("merchant_id = ? AND status = ? AND created_at >= ?", merchantID, models.TransactionStatusCompleted, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, storeError("sum merchant volume", err)
	}
	return total, nil
}
