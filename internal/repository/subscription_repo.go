package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"dancemax/internal/domain"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetByID(ctx context.Context, id int64) (*domain.Subscription, error) {
	var s domain.Subscription
	if err := r.db.WithContext(ctx).Preload("Plan").First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubscriptionRepository) CountActiveForUser(ctx context.Context, userID int64, today time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ? AND is_active = ? AND expires_at >= ?", userID, true, today).
		Count(&cnt).Error
	return cnt, err
}

// DeactivateExpired flips is_active off for every subscription past its
// expiry in one bulk update and reports how many rows changed. Running it
// again finds nothing left to touch.
func (r *SubscriptionRepository) DeactivateExpired(ctx context.Context, today time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("is_active = ? AND expires_at < ?", true, today).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) ListActive(ctx context.Context) ([]domain.SubscriptionPlan, error) {
	var plans []domain.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order").
		Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) GetActiveByID(ctx context.Context, id int64) (*domain.SubscriptionPlan, error) {
	var p domain.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlanRepository) Create(ctx context.Context, p *domain.SubscriptionPlan) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PlanRepository) Updates(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.SubscriptionPlan{}).Where("id = ?", id).Updates(fields).Error
}

func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*domain.SubscriptionPlan, error) {
	var p domain.SubscriptionPlan
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
