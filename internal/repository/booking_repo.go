package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"dancemax/internal/domain"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Lesson").
		Preload("Lesson.Direction").
		Preload("Lesson.Teacher").
		Preload("Lesson.Teacher.Directions").
		First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CountActiveForLesson is the capacity counter: only active rows occupy a
// spot.
func (r *BookingRepository) CountActiveForLesson(ctx context.Context, lessonID int64) (int, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("lesson_id = ? AND status = ?", lessonID, domain.BookingActive).
		Count(&cnt).Error
	return int(cnt), err
}

func (r *BookingRepository) HasActive(ctx context.Context, userID, lessonID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("user_id = ? AND lesson_id = ? AND status = ?", userID, lessonID, domain.BookingActive).
		Count(&cnt).Error
	return cnt > 0, err
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, status domain.BookingStatus) ([]domain.Booking, error) {
	q := r.db.WithContext(ctx).
		Preload("Lesson").
		Preload("Lesson.Direction").
		Preload("Lesson.Teacher").
		Preload("Lesson.Teacher.Directions").
		Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var bookings []domain.Booking
	err := q.Order("booked_at DESC").Find(&bookings).Error
	return bookings, err
}

func (r *BookingRepository) CountByUser(ctx context.Context, userID int64, status domain.BookingStatus) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var cnt int64
	err := q.Count(&cnt).Error
	return cnt, err
}

// CountActiveByLessonIDs returns the number of active bookings per lesson
// for a batch of lessons. Lessons without bookings are absent from the map.
func (r *BookingRepository) CountActiveByLessonIDs(ctx context.Context, lessonIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(lessonIDs))
	if len(lessonIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		LessonID int64
		Cnt      int
	}
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Select("lesson_id, COUNT(*) AS cnt").
		Where("lesson_id IN ? AND status = ?", lessonIDs, domain.BookingActive).
		Group("lesson_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.LessonID] = row.Cnt
	}
	return counts, nil
}

// ActiveLessonIDsForUser reports which of the given lessons the user holds
// an active booking on.
func (r *BookingRepository) ActiveLessonIDsForUser(ctx context.Context, userID int64, lessonIDs []int64) (map[int64]bool, error) {
	booked := make(map[int64]bool, len(lessonIDs))
	if userID == 0 || len(lessonIDs) == 0 {
		return booked, nil
	}
	var ids []int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("user_id = ? AND lesson_id IN ? AND status = ?", userID, lessonIDs, domain.BookingActive).
		Pluck("lesson_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		booked[id] = true
	}
	return booked, nil
}

// CountActiveOnDate counts active bookings for lessons held on the given
// day (admin dashboard).
func (r *BookingRepository) CountActiveOnDate(ctx context.Context, day time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Joins("JOIN lessons ON lessons.id = bookings.lesson_id").
		Where("lessons.date = ? AND bookings.status = ?", day, domain.BookingActive).
		Count(&cnt).Error
	return cnt, err
}
