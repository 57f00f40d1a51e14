package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"dancemax/internal/domain"
	"dancemax/internal/repository"
)

// Service serves the public side of the studio catalog. Inactive
// entries are hidden from all listings and lookups here; admins manage
// them through the admin module.
type Service struct {
	repo *repository.CatalogRepository
}

func NewService(repo *repository.CatalogRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) ListDirections(ctx context.Context) ([]*DirectionResponse, error) {
	items, err := s.repo.ListDirections(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list directions: %w", err)
	}
	out := make([]*DirectionResponse, 0, len(items))
	for i := range items {
		out = append(out, toDirectionResponse(&items[i]))
	}
	return out, nil
}

func (s *Service) GetDirection(ctx context.Context, slug string) (*DirectionResponse, error) {
	d, err := s.repo.GetDirectionBySlug(ctx, slug)
	if err != nil {
		return nil, asCatalogError(err, "load direction")
	}
	if d.Status != domain.CatalogActive {
		return nil, ErrNotFound
	}
	return toDirectionResponse(d), nil
}

func (s *Service) ListTeachers(ctx context.Context) ([]*TeacherResponse, error) {
	items, err := s.repo.ListTeachers(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	out := make([]*TeacherResponse, 0, len(items))
	for i := range items {
		out = append(out, toTeacherResponse(&items[i]))
	}
	return out, nil
}

func (s *Service) GetTeacher(ctx context.Context, slug string) (*TeacherResponse, error) {
	t, err := s.repo.GetTeacherBySlug(ctx, slug)
	if err != nil {
		return nil, asCatalogError(err, "load teacher")
	}
	if t.Status != domain.CatalogActive {
		return nil, ErrNotFound
	}
	return toTeacherResponse(t), nil
}

func (s *Service) ListCourses(ctx context.Context) ([]*CourseResponse, error) {
	items, err := s.repo.ListCourses(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	out := make([]*CourseResponse, 0, len(items))
	for i := range items {
		out = append(out, toCourseResponse(&items[i]))
	}
	return out, nil
}

func (s *Service) GetCourse(ctx context.Context, id int64) (*CourseResponse, error) {
	c, err := s.repo.GetCourseByID(ctx, id)
	if err != nil {
		return nil, asCatalogError(err, "load course")
	}
	if c.Status != domain.CatalogActive {
		return nil, ErrNotFound
	}
	return toCourseResponse(c), nil
}

func asCatalogError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
