package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"dancemax/internal/domain"
	"dancemax/internal/repository"
)

type Service struct {
	users *repository.UserRepository
	subs  *repository.SubscriptionRepository
	txns  *repository.TransactionRepository
	books *repository.BookingRepository
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		users: repository.NewUserRepository(db),
		subs:  repository.NewSubscriptionRepository(db),
		txns:  repository.NewTransactionRepository(db),
		books: repository.NewBookingRepository(db),
	}
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*ProfileResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(user), nil
}

// UpdateProfile stores the editable profile fields. Empty values are
// kept as sent; clearing the phone is allowed.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*ProfileResponse, error) {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}

	updates := map[string]any{"phone": req.Phone}
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if err := s.users.DB().WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.GetProfile(ctx, userID)
}

func (s *Service) GetBalance(ctx context.Context, userID int64) (*BalanceResponse, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	activeSubs, err := s.subs.CountActiveForUser(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("count subscriptions: %w", err)
	}
	activeBookings, err := s.books.CountByUser(ctx, userID, domain.BookingActive)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	return &BalanceResponse{
		Balance:             user.Balance,
		ActiveSubscriptions: int(activeSubs),
		ActiveBookings:      int(activeBookings),
	}, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID int64, offset, limit int) ([]*TransactionResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	items, err := s.txns.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	out := make([]*TransactionResponse, 0, len(items))
	for i := range items {
		out = append(out, toTransactionResponse(&items[i]))
	}
	return out, nil
}

func (s *Service) loadUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}
