package auth

import "dancemax/internal/domain"

type LoginRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

type UserResponse struct {
	ID         int64  `json:"id"`
	TelegramID int64  `json:"telegram_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name,omitempty"`
	Username   string `json:"username,omitempty"`
	Phone      string `json:"phone,omitempty"`
	PhotoURL   string `json:"photo_url,omitempty"`
	Balance    int    `json:"balance"`
	IsAdmin    bool   `json:"is_admin"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

func ToUserResponse(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:         u.ID,
		TelegramID: u.TelegramID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Username:   u.Username,
		Phone:      u.Phone,
		PhotoURL:   u.PhotoURL,
		Balance:    u.Balance,
		IsAdmin:    u.IsAdmin,
	}
}
