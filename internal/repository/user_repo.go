package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"dancemax/internal/domain"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) DB() *gorm.DB { return r.db }

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *domain.User) error {
	updates := map[string]any{
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"username":   u.Username,
		"is_admin":   u.IsAdmin,
	}
	if u.PhotoURL != "" {
		updates["photo_url"] = u.PhotoURL
	}
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", u.ID).Updates(updates).Error
}

// ListStudents returns non-admin users, newest first, optionally filtered by
// a case-insensitive search over name and username.
func (r *UserRepository) ListStudents(ctx context.Context, search string, offset, limit int) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Where("is_admin = ?", false)
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(username) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var users []domain.User
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

// CountActiveStudents counts non-admin users holding unused credits.
func (r *UserRepository) CountActiveStudents(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("balance > 0 AND is_admin = ?", false).
		Count(&cnt).Error
	return cnt, err
}

func (r *UserRepository) ListTelegramIDs(ctx context.Context, onlyWithBalance bool) ([]int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if onlyWithBalance {
		q = q.Where("balance > 0")
	}
	var ids []int64
	err := q.Pluck("telegram_id", &ids).Error
	return ids, err
}

// ListTelegramIDsByDirection returns distinct users that ever booked a
// lesson of the given direction.
func (r *UserRepository) ListTelegramIDsByDirection(ctx context.Context, directionID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Distinct("users.telegram_id").
		Joins("JOIN bookings ON bookings.user_id = users.id").
		Joins("JOIN lessons ON lessons.id = bookings.lesson_id").
		Where("lessons.direction_id = ?", directionID).
		Pluck("users.telegram_id", &ids).Error
	return ids, err
}
