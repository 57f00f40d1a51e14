package repository

import (
	"gorm.io/gorm"

	"dancemax/internal/domain"
)

// AutoMigrate creates the schema and the constraints gorm tags cannot
// express. The partial unique index on bookings is the storage-level
// guarantee behind "one active booking per (user, lesson)": cancelled and
// attended rows are excluded, so cancel-then-rebook stays possible.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Direction{},
		&domain.Teacher{},
		&domain.Lesson{},
		&domain.Booking{},
		&domain.SubscriptionPlan{},
		&domain.Subscription{},
		&domain.Transaction{},
		&domain.Promotion{},
		&domain.SpecialCourse{},
	); err != nil {
		return err
	}

	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_active_booking_per_lesson
		 ON bookings (user_id, lesson_id) WHERE status = 'active'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_promotions_code
		 ON promotions (promo_code) WHERE promo_code <> ''`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
