package repository

import (
	"context"

	"gorm.io/gorm"

	"dancemax/internal/domain"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListDirections(ctx context.Context, activeOnly bool) ([]domain.Direction, error) {
	q := r.db.WithContext(ctx).Order("sort_order")
	if activeOnly {
		q = q.Where("status = ?", domain.CatalogActive)
	}
	var directions []domain.Direction
	err := q.Find(&directions).Error
	return directions, err
}

func (r *CatalogRepository) GetDirectionBySlug(ctx context.Context, slug string) (*domain.Direction, error) {
	var d domain.Direction
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *CatalogRepository) GetDirectionByID(ctx context.Context, id int64) (*domain.Direction, error) {
	var d domain.Direction
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *CatalogRepository) CreateDirection(ctx context.Context, d *domain.Direction) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *CatalogRepository) UpdateDirection(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.Direction{}).Where("id = ?", id).Updates(fields).Error
}

func (r *CatalogRepository) ListTeachers(ctx context.Context, activeOnly bool) ([]domain.Teacher, error) {
	q := r.db.WithContext(ctx).Preload("Directions").Order("name")
	if activeOnly {
		q = q.Where("status = ?", domain.CatalogActive)
	}
	var teachers []domain.Teacher
	err := q.Find(&teachers).Error
	return teachers, err
}

func (r *CatalogRepository) GetTeacherBySlug(ctx context.Context, slug string) (*domain.Teacher, error) {
	var t domain.Teacher
	err := r.db.WithContext(ctx).Preload("Directions").Where("slug = ?", slug).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *CatalogRepository) GetTeacherByID(ctx context.Context, id int64) (*domain.Teacher, error) {
	var t domain.Teacher
	if err := r.db.WithContext(ctx).Preload("Directions").First(&t, id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *CatalogRepository) CreateTeacher(ctx context.Context, t *domain.Teacher) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *CatalogRepository) UpdateTeacher(ctx context.Context, t *domain.Teacher, fields map[string]any, directions []domain.Direction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := tx.Model(&domain.Teacher{}).Where("id = ?", t.ID).Updates(fields).Error; err != nil {
				return err
			}
		}
		if directions != nil {
			if err := tx.Model(t).Association("Directions").Replace(directions); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CatalogRepository) GetDirectionsByIDs(ctx context.Context, ids []int64) ([]domain.Direction, error) {
	var directions []domain.Direction
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&directions).Error
	return directions, err
}

func (r *CatalogRepository) ListCourses(ctx context.Context, activeOnly bool) ([]domain.SpecialCourse, error) {
	q := r.db.WithContext(ctx).
		Preload("Direction").
		Preload("Teacher").
		Preload("Teacher.Directions").
		Order("start_date")
	if activeOnly {
		q = q.Where("status = ?", domain.CatalogActive)
	}
	var courses []domain.SpecialCourse
	err := q.Find(&courses).Error
	return courses, err
}

func (r *CatalogRepository) GetCourseByID(ctx context.Context, id int64) (*domain.SpecialCourse, error) {
	var c domain.SpecialCourse
	err := r.db.WithContext(ctx).
		Preload("Direction").
		Preload("Teacher").
		Preload("Teacher.Directions").
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CatalogRepository) CreateCourse(ctx context.Context, c *domain.SpecialCourse) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CatalogRepository) UpdateCourse(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&domain.SpecialCourse{}).Where("id = ?", id).Updates(fields).Error
}
