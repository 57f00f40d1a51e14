package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"dancemax/internal/domain"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&txns).Error
	return txns, err
}

// SumForUser reconciles the ledger against the balance column.
func (r *TransactionRepository) SumForUser(ctx context.Context, userID int64) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

// SumPurchasesSince totals purchase credits after the cutoff (dashboard
// weekly revenue, measured in credits sold).
func (r *TransactionRepository) SumPurchasesSince(ctx context.Context, since time.Time) (int, error) {
	var sum int
	err := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("type = ? AND created_at >= ?", domain.TransactionPurchase, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}
