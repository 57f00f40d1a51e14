package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dancemax/internal/domain"
	"dancemax/internal/repository"
)

// Service keeps the lesson balance and the bookings table consistent.
// Every mutation runs in a single transaction with the affected user
// row locked, so the balance always equals the sum of the ledger.
type Service struct {
	db       *gorm.DB
	bookings *repository.BookingRepository
	notifier Notifier
}

func NewService(db *gorm.DB, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		db:       db,
		bookings: repository.NewBookingRepository(db),
		notifier: notifier,
	}
}

// Book reserves a spot on a lesson and deducts one lesson credit.
func (s *Service) Book(ctx context.Context, userID, lessonID int64) (*BookingResponse, error) {
	var (
		created      domain.Booking
		user         domain.User
		currentSpots int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lesson domain.Lesson
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&lesson, lessonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			return fmt.Errorf("load lesson: %w", err)
		}
		if lesson.IsCancelled {
			return ErrLessonCancelled
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}

		var existing int64
		if err := tx.Model(&domain.Booking{}).
			Where("user_id = ? AND lesson_id = ? AND status = ?", userID, lessonID, domain.BookingActive).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check duplicate booking: %w", err)
		}
		if existing > 0 {
			return ErrAlreadyBooked
		}

		var taken int64
		if err := tx.Model(&domain.Booking{}).
			Where("lesson_id = ? AND status = ?", lessonID, domain.BookingActive).
			Count(&taken).Error; err != nil {
			return fmt.Errorf("count spots: %w", err)
		}
		if taken >= int64(lesson.MaxSpots) {
			return ErrNoSpots
		}
		currentSpots = int(taken) + 1

		if user.Balance <= 0 {
			return ErrInsufficientBalance
		}

		created = domain.Booking{
			UserID:   userID,
			LessonID: lessonID,
			Status:   domain.BookingActive,
			BookedAt: time.Now().UTC(),
		}
		if err := tx.Create(&created).Error; err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrAlreadyBooked
			}
			return fmt.Errorf("create booking: %w", err)
		}

		if err := tx.Model(&domain.User{}).Where("id = ?", userID).
			Update("balance", gorm.Expr("balance - 1")).Error; err != nil {
			return fmt.Errorf("deduct balance: %w", err)
		}

		entry := domain.Transaction{
			UserID:      userID,
			Type:        domain.TransactionDeduction,
			Amount:      -1,
			Description: "Booking for lesson",
			BookingID:   &created.ID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("record deduction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	full, err := s.bookings.GetByID(ctx, created.ID)
	if err != nil {
		return toBookingResponse(&created, currentSpots, true), nil
	}
	s.notifier.BookingCreated(ctx, user.TelegramID, full.Lesson)
	return toBookingResponse(full, currentSpots, true), nil
}

// Cancel releases the spot and refunds one lesson credit. Only the
// owner of an active booking may cancel it.
func (s *Service) Cancel(ctx context.Context, userID, bookingID int64) (*BookingResponse, error) {
	var (
		cancelled    *domain.Booking
		telegramID   int64
		currentSpots int
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := tx.Preload("Lesson").Preload("Lesson.Direction").Preload("Lesson.Teacher").
			First(&b, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}
		if b.UserID != userID {
			return ErrForbidden
		}
		if b.Status != domain.BookingActive {
			return ErrNotActive
		}

		var user domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		telegramID = user.TelegramID

		now := time.Now().UTC()
		if err := tx.Model(&domain.Booking{}).Where("id = ?", b.ID).
			Updates(map[string]interface{}{
				"status":       domain.BookingCancelled,
				"cancelled_at": now,
			}).Error; err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).
			Update("balance", gorm.Expr("balance + 1")).Error; err != nil {
			return fmt.Errorf("refund balance: %w", err)
		}
		entry := domain.Transaction{
			UserID:      userID,
			Type:        domain.TransactionRefund,
			Amount:      1,
			Description: "Refund for cancelled booking",
			BookingID:   &b.ID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("record refund: %w", err)
		}

		var remaining int64
		if err := tx.Model(&domain.Booking{}).
			Where("lesson_id = ? AND status = ?", b.LessonID, domain.BookingActive).
			Count(&remaining).Error; err != nil {
			return fmt.Errorf("count spots: %w", err)
		}
		currentSpots = int(remaining)

		b.Status = domain.BookingCancelled
		b.CancelledAt = &now
		cancelled = &b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.BookingCancelled(ctx, telegramID, cancelled.Lesson)
	return toBookingResponse(cancelled, currentSpots, false), nil
}

// CancelLesson cancels a lesson, refunds every active booking on it and
// returns the number of refunded students. Notifications go out only
// after the transaction commits.
func (s *Service) CancelLesson(ctx context.Context, lessonID int64, reason string) (int, error) {
	var (
		lesson    domain.Lesson
		recipient []int64
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Direction").Preload("Teacher").
			First(&lesson, lessonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			return fmt.Errorf("load lesson: %w", err)
		}
		if lesson.IsCancelled {
			return ErrLessonAlreadyCancelled
		}

		if err := tx.Model(&domain.Lesson{}).Where("id = ?", lessonID).
			Updates(map[string]interface{}{
				"is_cancelled":  true,
				"cancel_reason": reason,
			}).Error; err != nil {
			return fmt.Errorf("cancel lesson: %w", err)
		}

		var active []domain.Booking
		if err := tx.Preload("User").
			Where("lesson_id = ? AND status = ?", lessonID, domain.BookingActive).
			Find(&active).Error; err != nil {
			return fmt.Errorf("load active bookings: %w", err)
		}

		now := time.Now().UTC()
		for i := range active {
			b := &active[i]
			if err := tx.Model(&domain.Booking{}).Where("id = ?", b.ID).
				Updates(map[string]interface{}{
					"status":       domain.BookingCancelled,
					"cancelled_at": now,
				}).Error; err != nil {
				return fmt.Errorf("cancel booking %d: %w", b.ID, err)
			}
			if err := tx.Model(&domain.User{}).Where("id = ?", b.UserID).
				Update("balance", gorm.Expr("balance + 1")).Error; err != nil {
				return fmt.Errorf("refund user %d: %w", b.UserID, err)
			}
			entry := domain.Transaction{
				UserID:      b.UserID,
				Type:        domain.TransactionRefund,
				Amount:      1,
				Description: "Refund for cancelled lesson",
				BookingID:   &b.ID,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("record refund: %w", err)
			}
			if b.User != nil {
				recipient = append(recipient, b.User.TelegramID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	lesson.IsCancelled = true
	lesson.CancelReason = reason
	for _, tgID := range recipient {
		s.notifier.LessonCancelled(ctx, tgID, &lesson, reason)
	}
	return len(recipient), nil
}

// AdjustBalance applies a manual credit correction. The resulting
// balance may not go below zero.
func (s *Service) AdjustBalance(ctx context.Context, userID int64, delta int, reason string) (*BalanceAdjustment, error) {
	if reason == "" {
		reason = "Manual balance adjustment"
	}
	result := &BalanceAdjustment{UserID: userID, Delta: delta, Reason: reason}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}
		newBalance := user.Balance + delta
		if newBalance < 0 {
			return ErrNegativeBalance
		}
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).
			Update("balance", newBalance).Error; err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		entry := domain.Transaction{
			UserID:      userID,
			Type:        domain.TransactionManual,
			Amount:      delta,
			Description: reason,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("record adjustment: %w", err)
		}
		result.NewBalance = newBalance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MarkAttended transitions an active booking to attended.
func (s *Service) MarkAttended(ctx context.Context, bookingID int64) error {
	return s.transition(ctx, bookingID, domain.BookingAttended)
}

// MarkMissed transitions an active booking to missed. The credit stays
// spent, a no-show is not refunded.
func (s *Service) MarkMissed(ctx context.Context, bookingID int64) error {
	return s.transition(ctx, bookingID, domain.BookingMissed)
}

func (s *Service) transition(ctx context.Context, bookingID int64, to domain.BookingStatus) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b domain.Booking
		if err := tx.First(&b, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("load booking: %w", err)
		}
		if b.Status != domain.BookingActive {
			return ErrNotActive
		}
		if err := tx.Model(&domain.Booking{}).Where("id = ?", b.ID).
			Update("status", to).Error; err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return nil
	})
}

// ListUserBookings returns the user's bookings, newest first. An empty
// status returns bookings in every state.
func (s *Service) ListUserBookings(ctx context.Context, userID int64, status domain.BookingStatus) ([]*BookingResponse, error) {
	items, err := s.bookings.ListByUser(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	lessonIDs := make([]int64, 0, len(items))
	for i := range items {
		lessonIDs = append(lessonIDs, items[i].LessonID)
	}
	counts, err := s.bookings.CountActiveByLessonIDs(ctx, lessonIDs)
	if err != nil {
		return nil, fmt.Errorf("count spots: %w", err)
	}

	out := make([]*BookingResponse, 0, len(items))
	for i := range items {
		b := &items[i]
		out = append(out, toBookingResponse(b, counts[b.LessonID], b.Status == domain.BookingActive))
	}
	return out, nil
}
