package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"dancemax/internal/domain"
	"dancemax/internal/modules/booking"
	"dancemax/internal/modules/payment"
	"dancemax/internal/modules/schedule"
	"dancemax/internal/repository"
)

// Broadcaster pushes a plain text message to a Telegram user.
type Broadcaster interface {
	SendText(ctx context.Context, telegramID int64, text string) error
}

type nopBroadcaster struct{}

func (nopBroadcaster) SendText(context.Context, int64, string) error { return nil }

// Service is the staff-facing side of the studio: schedule management,
// student administration, catalog and pricing CRUD, broadcasts. Balance
// mutations are delegated to the booking service so every credit still
// goes through the ledger.
type Service struct {
	db          *gorm.DB
	users       *repository.UserRepository
	lessons     *repository.LessonRepository
	bookings    *repository.BookingRepository
	txns        *repository.TransactionRepository
	catalog     *repository.CatalogRepository
	plans       *repository.PlanRepository
	promotions  *repository.PromotionRepository
	bookingSvc  *booking.Service
	paymentSvc  *payment.Service
	scheduleSvc *schedule.Service
	broadcaster Broadcaster
}

func NewService(db *gorm.DB, bookingSvc *booking.Service, paymentSvc *payment.Service, scheduleSvc *schedule.Service, broadcaster Broadcaster) *Service {
	if broadcaster == nil {
		broadcaster = nopBroadcaster{}
	}
	return &Service{
		db:          db,
		users:       repository.NewUserRepository(db),
		lessons:     repository.NewLessonRepository(db),
		bookings:    repository.NewBookingRepository(db),
		txns:        repository.NewTransactionRepository(db),
		catalog:     repository.NewCatalogRepository(db),
		plans:       repository.NewPlanRepository(db),
		promotions:  repository.NewPromotionRepository(db),
		bookingSvc:  bookingSvc,
		paymentSvc:  paymentSvc,
		scheduleSvc: scheduleSvc,
		broadcaster: broadcaster,
	}
}

func (s *Service) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&domain.User{}).
		Where("is_admin = ?", false).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count students: %w", err)
	}
	active, err := s.users.CountActiveStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("count active students: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	lessonsToday, err := s.lessons.CountOnDate(ctx, today, false)
	if err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	cancelledToday, err := s.lessons.CountOnDate(ctx, today, true)
	if err != nil {
		return nil, fmt.Errorf("count cancelled lessons: %w", err)
	}
	bookingsToday, err := s.bookings.CountActiveOnDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	sold, err := s.txns.SumPurchasesSince(ctx, monthStart)
	if err != nil {
		return nil, fmt.Errorf("sum purchases: %w", err)
	}

	return &DashboardResponse{
		TotalStudents:    total,
		ActiveStudents:   active,
		LessonsToday:     lessonsToday,
		CancelledToday:   cancelledToday,
		BookingsToday:    bookingsToday,
		LessonsSoldMonth: sold,
	}, nil
}

func (s *Service) ListLessons(ctx context.Context, date string) ([]*schedule.LessonResponse, error) {
	return s.scheduleSvc.ListLessons(ctx, 0, schedule.ListOptions{Date: date})
}

func (s *Service) CreateLesson(ctx context.Context, req CreateLessonRequest) (*domain.Lesson, error) {
	day, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}
	if err := validateLessonTimes(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if req.MaxSpots <= 0 {
		return nil, fmt.Errorf("%w: max_spots must be positive", ErrValidation)
	}
	if _, err := s.catalog.GetDirectionByID(ctx, req.DirectionID); err != nil {
		return nil, asAdminError(err, "load direction")
	}
	if _, err := s.catalog.GetTeacherByID(ctx, req.TeacherID); err != nil {
		return nil, asAdminError(err, "load teacher")
	}

	level := domain.LessonLevel(req.Level)
	if level == "" {
		level = domain.LevelAll
	}
	lesson := &domain.Lesson{
		DirectionID: req.DirectionID,
		TeacherID:   req.TeacherID,
		Date:        day,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Room:        req.Room,
		MaxSpots:    req.MaxSpots,
		Level:       level,
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	return s.lessons.GetByID(ctx, lesson.ID)
}

func (s *Service) UpdateLesson(ctx context.Context, id int64, req UpdateLessonRequest) (*domain.Lesson, error) {
	current, err := s.lessons.GetByID(ctx, id)
	if err != nil {
		return nil, asAdminError(err, "load lesson")
	}

	fields := map[string]any{}
	if req.Date != nil {
		day, err := parseDate(*req.Date)
		if err != nil {
			return nil, err
		}
		fields["date"] = day
	}
	start, end := current.StartTime, current.EndTime
	if req.StartTime != nil {
		start = *req.StartTime
		fields["start_time"] = start
	}
	if req.EndTime != nil {
		end = *req.EndTime
		fields["end_time"] = end
	}
	if req.StartTime != nil || req.EndTime != nil {
		if err := validateLessonTimes(start, end); err != nil {
			return nil, err
		}
	}
	if req.Room != nil {
		fields["room"] = *req.Room
	}
	if req.MaxSpots != nil {
		if *req.MaxSpots <= 0 {
			return nil, fmt.Errorf("%w: max_spots must be positive", ErrValidation)
		}
		fields["max_spots"] = *req.MaxSpots
	}
	if req.Level != nil {
		fields["level"] = *req.Level
	}
	if len(fields) == 0 {
		return current, nil
	}
	if err := s.lessons.Updates(ctx, id, fields); err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}
	return s.lessons.GetByID(ctx, id)
}

// CancelLesson cancels a class and refunds everyone booked on it.
func (s *Service) CancelLesson(ctx context.Context, id int64, reason string) (int, error) {
	return s.bookingSvc.CancelLesson(ctx, id, reason)
}

func (s *Service) ListStudents(ctx context.Context, search string, offset, limit int) ([]StudentResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	users, err := s.users.ListStudents(ctx, search, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	out := make([]StudentResponse, 0, len(users))
	for i := range users {
		out = append(out, toStudentResponse(&users[i]))
	}
	return out, nil
}

func (s *Service) GetStudent(ctx context.Context, id int64) (*StudentDetailResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, asAdminError(err, "load student")
	}

	detail := &StudentDetailResponse{StudentResponse: toStudentResponse(user)}
	counts := map[domain.BookingStatus]*int64{
		domain.BookingActive:    &detail.ActiveBookings,
		domain.BookingAttended:  &detail.AttendedBookings,
		domain.BookingMissed:    &detail.MissedBookings,
		domain.BookingCancelled: &detail.CancelledBookings,
	}
	for status, dst := range counts {
		n, err := s.bookings.CountByUser(ctx, id, status)
		if err != nil {
			return nil, fmt.Errorf("count bookings: %w", err)
		}
		*dst = n
	}
	return detail, nil
}

// AdjustBalance goes through the booking service so the manual change
// lands in the ledger like any other credit movement.
func (s *Service) AdjustBalance(ctx context.Context, userID int64, req AdjustBalanceRequest) (*booking.BalanceAdjustment, error) {
	return s.bookingSvc.AdjustBalance(ctx, userID, req.Delta, req.Reason)
}

func (s *Service) MarkAttended(ctx context.Context, bookingID int64) error {
	return s.bookingSvc.MarkAttended(ctx, bookingID)
}

func (s *Service) MarkMissed(ctx context.Context, bookingID int64) error {
	return s.bookingSvc.MarkMissed(ctx, bookingID)
}

func (s *Service) DeactivateExpiredSubscriptions(ctx context.Context) (int64, error) {
	return s.paymentSvc.DeactivateExpired(ctx)
}

func parseDate(value string) (time.Time, error) {
	day, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return day, nil
}

func validateLessonTimes(start, end string) error {
	for _, v := range []string{start, end} {
		if _, err := time.Parse("15:04", v); err != nil {
			return fmt.Errorf("%w: time must be HH:MM", ErrValidation)
		}
	}
	if start >= end {
		return fmt.Errorf("%w: start_time must precede end_time", ErrValidation)
	}
	return nil
}

func asAdminError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
