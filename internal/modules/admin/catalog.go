package admin

import (
	"context"
	"fmt"
	"strings"

	"dancemax/internal/domain"
	"dancemax/internal/repository"
)

func parseCatalogStatus(value string) (domain.CatalogStatus, error) {
	switch domain.CatalogStatus(value) {
	case "":
		return domain.CatalogActive, nil
	case domain.CatalogActive, domain.CatalogInactive:
		return domain.CatalogStatus(value), nil
	default:
		return "", fmt.Errorf("%w: status must be active or inactive", ErrValidation)
	}
}

func (s *Service) CreateDirection(ctx context.Context, req DirectionRequest) (*domain.Direction, error) {
	status, err := parseCatalogStatus(req.Status)
	if err != nil {
		return nil, err
	}
	d := &domain.Direction{
		Name:             req.Name,
		Slug:             strings.ToLower(strings.TrimSpace(req.Slug)),
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		ImageURL:         req.ImageURL,
		Color:            req.Color,
		Icon:             req.Icon,
		Status:           status,
		SortOrder:        req.SortOrder,
	}
	if err := s.catalog.CreateDirection(ctx, d); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: slug %q", ErrConflict, d.Slug)
		}
		return nil, fmt.Errorf("create direction: %w", err)
	}
	return d, nil
}

func (s *Service) UpdateDirection(ctx context.Context, id int64, req DirectionRequest) (*domain.Direction, error) {
	if _, err := s.catalog.GetDirectionByID(ctx, id); err != nil {
		return nil, asAdminError(err, "load direction")
	}
	status, err := parseCatalogStatus(req.Status)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{
		"name":              req.Name,
		"slug":              strings.ToLower(strings.TrimSpace(req.Slug)),
		"description":       req.Description,
		"short_description": req.ShortDescription,
		"image_url":         req.ImageURL,
		"color":             req.Color,
		"icon":              req.Icon,
		"status":            status,
		"sort_order":        req.SortOrder,
	}
	if err := s.catalog.UpdateDirection(ctx, id, fields); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: slug %q", ErrConflict, req.Slug)
		}
		return nil, fmt.Errorf("update direction: %w", err)
	}
	return s.catalog.GetDirectionByID(ctx, id)
}

func (s *Service) CreateTeacher(ctx context.Context, req TeacherRequest) (*domain.Teacher, error) {
	status, err := parseCatalogStatus(req.Status)
	if err != nil {
		return nil, err
	}
	directions, err := s.resolveDirections(ctx, req.DirectionIDs)
	if err != nil {
		return nil, err
	}
	teacher := &domain.Teacher{
		Name:            req.Name,
		Slug:            strings.ToLower(strings.TrimSpace(req.Slug)),
		Bio:             req.Bio,
		PhotoURL:        req.PhotoURL,
		ExperienceYears: req.ExperienceYears,
		Status:          status,
		Directions:      directions,
	}
	if err := s.catalog.CreateTeacher(ctx, teacher); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: slug %q", ErrConflict, teacher.Slug)
		}
		return nil, fmt.Errorf("create teacher: %w", err)
	}
	return teacher, nil
}

func (s *Service) UpdateTeacher(ctx context.Context, id int64, req TeacherRequest) (*domain.Teacher, error) {
	teacher, err := s.catalog.GetTeacherByID(ctx, id)
	if err != nil {
		return nil, asAdminError(err, "load teacher")
	}
	status, err := parseCatalogStatus(req.Status)
	if err != nil {
		return nil, err
	}
	directions, err := s.resolveDirections(ctx, req.DirectionIDs)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{
		"name":             req.Name,
		"slug":             strings.ToLower(strings.TrimSpace(req.Slug)),
		"bio":              req.Bio,
		"photo_url":        req.PhotoURL,
		"experience_years": req.ExperienceYears,
		"status":           status,
	}
	if err := s.catalog.UpdateTeacher(ctx, teacher, fields, directions); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: slug %q", ErrConflict, req.Slug)
		}
		return nil, fmt.Errorf("update teacher: %w", err)
	}
	return s.catalog.GetTeacherByID(ctx, id)
}

func (s *Service) resolveDirections(ctx context.Context, ids []int64) ([]domain.Direction, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	directions, err := s.catalog.GetDirectionsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load directions: %w", err)
	}
	if len(directions) != len(ids) {
		return nil, fmt.Errorf("%w: unknown direction id", ErrValidation)
	}
	return directions, nil
}

func (s *Service) CreateCourse(ctx context.Context, req CourseRequest) (*domain.SpecialCourse, error) {
	status, err := parseCatalogStatus(req.Status)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	course := &domain.SpecialCourse{
		Name:            req.Name,
		Description:     req.Description,
		DirectionID:     req.DirectionID,
		TeacherID:       req.TeacherID,
		Price:           req.Price,
		LessonsCount:    req.LessonsCount,
		StartDate:       start,
		ImageURL:        req.ImageURL,
		MaxParticipants: req.MaxParticipants,
		Status:          status,
	}
	if err := s.catalog.CreateCourse(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	return s.catalog.GetCourseByID(ctx, course.ID)
}

func (s *Service) UpdateCourse(ctx context.Context, id int64, req CourseRequest) (*domain.SpecialCourse, error) {
	if _, err := s.catalog.GetCourseByID(ctx, id); err != nil {
		return nil, asAdminError(err, "load course")
	}
	status, err := parseCatalogStatus(req.Status)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{
		"name":             req.Name,
		"description":      req.Description,
		"direction_id":     req.DirectionID,
		"teacher_id":       req.TeacherID,
		"price":            req.Price,
		"lessons_count":    req.LessonsCount,
		"start_date":       start,
		"image_url":        req.ImageURL,
		"max_participants": req.MaxParticipants,
		"status":           status,
	}
	if err := s.catalog.UpdateCourse(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return s.catalog.GetCourseByID(ctx, id)
}

func (s *Service) CreatePlan(ctx context.Context, req PlanRequest) (*domain.SubscriptionPlan, error) {
	if err := validatePlan(req); err != nil {
		return nil, err
	}
	plan := &domain.SubscriptionPlan{
		Name:         req.Name,
		LessonsCount: req.LessonsCount,
		ValidityDays: req.ValidityDays,
		Price:        req.Price,
		Description:  req.Description,
		IsPopular:    req.IsPopular,
		IsActive:     req.IsActive == nil || *req.IsActive,
		SortOrder:    req.SortOrder,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("create plan: %w", err)
	}
	return plan, nil
}

func (s *Service) UpdatePlan(ctx context.Context, id int64, req PlanRequest) (*domain.SubscriptionPlan, error) {
	if _, err := s.plans.GetByID(ctx, id); err != nil {
		return nil, asAdminError(err, "load plan")
	}
	if err := validatePlan(req); err != nil {
		return nil, err
	}
	fields := map[string]any{
		"name":          req.Name,
		"lessons_count": req.LessonsCount,
		"validity_days": req.ValidityDays,
		"price":         req.Price,
		"description":   req.Description,
		"is_popular":    req.IsPopular,
		"sort_order":    req.SortOrder,
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if err := s.plans.Updates(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update plan: %w", err)
	}
	return s.plans.GetByID(ctx, id)
}

func validatePlan(req PlanRequest) error {
	if req.LessonsCount <= 0 || req.ValidityDays <= 0 || req.Price <= 0 {
		return fmt.Errorf("%w: lessons_count, validity_days and price must be positive", ErrValidation)
	}
	return nil
}

func (s *Service) CreatePromotion(ctx context.Context, req PromotionRequest) (*domain.Promotion, error) {
	promo, err := promotionFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.promotions.Create(ctx, promo); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: promo code %q", ErrConflict, promo.PromoCode)
		}
		return nil, fmt.Errorf("create promotion: %w", err)
	}
	return promo, nil
}

func (s *Service) UpdatePromotion(ctx context.Context, id int64, req PromotionRequest) (*domain.Promotion, error) {
	if _, err := s.promotions.GetByID(ctx, id); err != nil {
		return nil, asAdminError(err, "load promotion")
	}
	promo, err := promotionFromRequest(req)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{
		"title":            promo.Title,
		"description":      promo.Description,
		"image_url":        promo.ImageURL,
		"promo_code":       promo.PromoCode,
		"discount_percent": promo.DiscountPercent,
		"discount_amount":  promo.DiscountAmount,
		"valid_from":       promo.ValidFrom,
		"valid_until":      promo.ValidUntil,
		"max_uses":         promo.MaxUses,
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if err := s.promotions.Updates(ctx, id, fields); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: promo code %q", ErrConflict, promo.PromoCode)
		}
		return nil, fmt.Errorf("update promotion: %w", err)
	}
	return s.promotions.GetByID(ctx, id)
}

func promotionFromRequest(req PromotionRequest) (*domain.Promotion, error) {
	from, err := parseDate(req.ValidFrom)
	if err != nil {
		return nil, err
	}
	until, err := parseDate(req.ValidUntil)
	if err != nil {
		return nil, err
	}
	if until.Before(from) {
		return nil, fmt.Errorf("%w: valid_until precedes valid_from", ErrValidation)
	}
	if req.DiscountPercent != nil && (*req.DiscountPercent <= 0 || *req.DiscountPercent > 100) {
		return nil, fmt.Errorf("%w: discount_percent must be in 1..100", ErrValidation)
	}
	if req.DiscountAmount != nil && *req.DiscountAmount <= 0 {
		return nil, fmt.Errorf("%w: discount_amount must be positive", ErrValidation)
	}
	if req.DiscountPercent == nil && req.DiscountAmount == nil {
		return nil, fmt.Errorf("%w: a discount is required", ErrValidation)
	}
	if req.MaxUses != nil && *req.MaxUses <= 0 {
		return nil, fmt.Errorf("%w: max_uses must be positive", ErrValidation)
	}
	return &domain.Promotion{
		Title:           req.Title,
		Description:     req.Description,
		ImageURL:        req.ImageURL,
		PromoCode:       strings.ToUpper(strings.TrimSpace(req.PromoCode)),
		DiscountPercent: req.DiscountPercent,
		DiscountAmount:  req.DiscountAmount,
		ValidFrom:       from,
		ValidUntil:      until,
		MaxUses:         req.MaxUses,
		IsActive:        req.IsActive == nil || *req.IsActive,
	}, nil
}
