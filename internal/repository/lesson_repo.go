package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"dancemax/internal/domain"
)

type LessonRepository struct {
	db *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// LessonFilter narrows the schedule listing. Zero values mean "no filter";
// Date defaults to today in the service layer.
type LessonFilter struct {
	Date        *time.Time
	DirectionID int64
	TeacherID   int64
	Level       domain.LessonLevel
}

func (r *LessonRepository) Create(ctx context.Context, l *domain.Lesson) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*domain.Lesson, error) {
	var l domain.Lesson
	err := r.db.WithContext(ctx).
		Preload("Direction").
		Preload("Teacher").
		Preload("Teacher.Directions").
		First(&l, id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LessonRepository) List(ctx context.Context, f LessonFilter) ([]domain.Lesson, error) {
	q := r.db.WithContext(ctx).
		Preload("Direction").
		Preload("Teacher").
		Preload("Teacher.Directions")

	if f.Date != nil {
		q = q.Where("date = ?", *f.Date)
	}
	if f.DirectionID != 0 {
		q = q.Where("direction_id = ?", f.DirectionID)
	}
	if f.TeacherID != 0 {
		q = q.Where("teacher_id = ?", f.TeacherID)
	}
	if f.Level != "" {
		q = q.Where("level = ?", f.Level)
	}

	var lessons []domain.Lesson
	err := q.Order("start_time").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Updates(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.Lesson{}).Where("id = ?", id).Updates(fields).Error
}

func (r *LessonRepository) CountOnDate(ctx context.Context, day time.Time, cancelledOnly bool) (int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Lesson{}).Where("date = ?", day)
	if cancelledOnly {
		q = q.Where("is_cancelled = ?", true)
	}
	var cnt int64
	err := q.Count(&cnt).Error
	return cnt, err
}
