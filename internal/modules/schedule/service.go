package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"dancemax/internal/domain"
	"dancemax/internal/repository"
)

// ListOptions filters the schedule. Date is a "2006-01-02" string; empty
// means today. The user id feeds the per-lesson is_booked flag and may be
// zero for anonymous listings.
type ListOptions struct {
	Date        string
	DirectionID int64
	TeacherID   int64
	Level       string
}

type Service struct {
	lessons  *repository.LessonRepository
	bookings *repository.BookingRepository
}

func NewService(lessons *repository.LessonRepository, bookings *repository.BookingRepository) *Service {
	return &Service{lessons: lessons, bookings: bookings}
}

func (s *Service) ListLessons(ctx context.Context, userID int64, opts ListOptions) ([]*LessonResponse, error) {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	if opts.Date != "" {
		parsed, err := time.Parse("2006-01-02", opts.Date)
		if err != nil {
			return nil, ErrBadDate
		}
		day = parsed
	}

	filter := repository.LessonFilter{
		Date:        &day,
		DirectionID: opts.DirectionID,
		TeacherID:   opts.TeacherID,
		Level:       domain.LessonLevel(opts.Level),
	}
	lessons, err := s.lessons.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}

	ids := make([]int64, 0, len(lessons))
	for i := range lessons {
		ids = append(ids, lessons[i].ID)
	}
	counts, err := s.bookings.CountActiveByLessonIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count spots: %w", err)
	}
	booked, err := s.bookings.ActiveLessonIDsForUser(ctx, userID, ids)
	if err != nil {
		return nil, fmt.Errorf("load user bookings: %w", err)
	}

	out := make([]*LessonResponse, 0, len(lessons))
	for i := range lessons {
		l := &lessons[i]
		out = append(out, toLessonResponse(l, counts[l.ID], booked[l.ID]))
	}
	return out, nil
}

func (s *Service) GetLesson(ctx context.Context, userID, lessonID int64) (*LessonResponse, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("load lesson: %w", err)
	}

	taken, err := s.bookings.CountActiveForLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("count spots: %w", err)
	}
	booked, err := s.bookings.HasActive(ctx, userID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("load user booking: %w", err)
	}
	return toLessonResponse(lesson, taken, booked), nil
}
