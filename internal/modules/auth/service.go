package auth

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"dancemax/internal/domain"
	"dancemax/internal/pkg/jwt"
	"dancemax/internal/pkg/telegram"
	"dancemax/internal/repository"
)

// Service exchanges a signed Telegram Mini App payload for a session
// token. Users are created on first login; profile fields are refreshed
// from Telegram on every login.
type Service struct {
	users    *repository.UserRepository
	tokens   *jwt.Service
	botToken string
	adminIDs map[int64]bool
}

func NewService(users *repository.UserRepository, tokens *jwt.Service, botToken string, adminIDs map[int64]bool) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		botToken: botToken,
		adminIDs: adminIDs,
	}
}

func (s *Service) Login(ctx context.Context, initData string) (*LoginResponse, error) {
	tgUser, err := telegram.VerifyInitData(initData, s.botToken)
	if err != nil {
		return nil, ErrInvalidInitData
	}

	user, err := s.users.GetByTelegramID(ctx, tgUser.ID)
	switch {
	case err == nil:
		user.FirstName = tgUser.FirstName
		user.LastName = tgUser.LastName
		user.Username = tgUser.Username
		user.PhotoURL = tgUser.PhotoURL
		user.IsAdmin = s.adminIDs[tgUser.ID]
		if err := s.users.UpdateProfile(ctx, user); err != nil {
			return nil, fmt.Errorf("refresh profile: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &domain.User{
			TelegramID: tgUser.ID,
			FirstName:  tgUser.FirstName,
			LastName:   tgUser.LastName,
			Username:   tgUser.Username,
			PhotoURL:   tgUser.PhotoURL,
			IsAdmin:    s.adminIDs[tgUser.ID],
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
	default:
		return nil, fmt.Errorf("load user: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.TelegramID, user.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResponse{Token: token, User: ToUserResponse(user)}, nil
}

func (s *Service) GetByTelegramID(ctx context.Context, telegramID int64) (*UserResponse, error) {
	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return ToUserResponse(user), nil
}
