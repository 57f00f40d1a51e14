package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"dancemax/internal/domain"
)

type PromotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// GetActiveByCode matches promo codes case-insensitively; codes are stored
// upper-cased.
func (r *PromotionRepository) GetActiveByCode(ctx context.Context, code string) (*domain.Promotion, error) {
	var p domain.Promotion
	err := r.db.WithContext(ctx).
		Where("promo_code = ? AND is_active = ?", strings.ToUpper(strings.TrimSpace(code)), true).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PromotionRepository) GetByID(ctx context.Context, id int64) (*domain.Promotion, error) {
	var p domain.Promotion
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ListCurrent returns active promotions inside their validity window.
func (r *PromotionRepository) ListCurrent(ctx context.Context, today time.Time) ([]domain.Promotion, error) {
	var promos []domain.Promotion
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND valid_from <= ? AND valid_until >= ?", true, today, today).
		Find(&promos).Error
	return promos, err
}

func (r *PromotionRepository) Create(ctx context.Context, p *domain.Promotion) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PromotionRepository) Updates(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.Promotion{}).Where("id = ?", id).Updates(fields).Error
}
