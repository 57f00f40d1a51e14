package admin

import (
	"time"

	"dancemax/internal/domain"
)

type DashboardResponse struct {
	TotalStudents    int64 `json:"total_students"`
	ActiveStudents   int64 `json:"active_students"`
	LessonsToday     int64 `json:"lessons_today"`
	CancelledToday   int64 `json:"cancelled_today"`
	BookingsToday    int64 `json:"bookings_today"`
	LessonsSoldMonth int   `json:"lessons_sold_month"`
}

type CreateLessonRequest struct {
	DirectionID int64  `json:"direction_id" binding:"required"`
	TeacherID   int64  `json:"teacher_id" binding:"required"`
	Date        string `json:"date" binding:"required"`
	StartTime   string `json:"start_time" binding:"required"`
	EndTime     string `json:"end_time" binding:"required"`
	Room        string `json:"room"`
	MaxSpots    int    `json:"max_spots" binding:"required"`
	Level       string `json:"level"`
}

type UpdateLessonRequest struct {
	Date      *string `json:"date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Room      *string `json:"room"`
	MaxSpots  *int    `json:"max_spots"`
	Level     *string `json:"level"`
}

type CancelLessonRequest struct {
	Reason string `json:"reason"`
}

type StudentResponse struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name,omitempty"`
	Username   string    `json:"username,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Balance    int       `json:"balance"`
	CreatedAt  time.Time `json:"created_at"`
}

type StudentDetailResponse struct {
	StudentResponse
	ActiveBookings    int64 `json:"active_bookings"`
	AttendedBookings  int64 `json:"attended_bookings"`
	MissedBookings    int64 `json:"missed_bookings"`
	CancelledBookings int64 `json:"cancelled_bookings"`
}

type AdjustBalanceRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
}

type DirectionRequest struct {
	Name             string `json:"name" binding:"required"`
	Slug             string `json:"slug" binding:"required"`
	Description      string `json:"description"`
	ShortDescription string `json:"short_description"`
	ImageURL         string `json:"image_url"`
	Color            string `json:"color"`
	Icon             string `json:"icon"`
	Status           string `json:"status"`
	SortOrder        int    `json:"sort_order"`
}

type TeacherRequest struct {
	Name            string  `json:"name" binding:"required"`
	Slug            string  `json:"slug" binding:"required"`
	Bio             string  `json:"bio"`
	PhotoURL        string  `json:"photo_url"`
	ExperienceYears int     `json:"experience_years"`
	Status          string  `json:"status"`
	DirectionIDs    []int64 `json:"direction_ids"`
}

type CourseRequest struct {
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	DirectionID     *int64 `json:"direction_id"`
	TeacherID       *int64 `json:"teacher_id"`
	Price           int    `json:"price"`
	LessonsCount    int    `json:"lessons_count"`
	StartDate       string `json:"start_date" binding:"required"`
	ImageURL        string `json:"image_url"`
	MaxParticipants int    `json:"max_participants"`
	Status          string `json:"status"`
}

type PlanRequest struct {
	Name         string `json:"name" binding:"required"`
	LessonsCount int    `json:"lessons_count" binding:"required"`
	ValidityDays int    `json:"validity_days" binding:"required"`
	Price        int    `json:"price" binding:"required"`
	Description  string `json:"description"`
	IsPopular    bool   `json:"is_popular"`
	IsActive     *bool  `json:"is_active"`
	SortOrder    int    `json:"sort_order"`
}

type PromotionRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	ImageURL        string `json:"image_url"`
	PromoCode       string `json:"promo_code"`
	DiscountPercent *int   `json:"discount_percent"`
	DiscountAmount  *int   `json:"discount_amount"`
	ValidFrom       string `json:"valid_from" binding:"required"`
	ValidUntil      string `json:"valid_until" binding:"required"`
	MaxUses         *int   `json:"max_uses"`
	IsActive        *bool  `json:"is_active"`
}

// Broadcast targets. ActiveOnly narrows to students holding credits;
// DirectionID narrows to students with an active booking in a direction.
type BroadcastRequest struct {
	Message     string `json:"message" binding:"required"`
	Target      string `json:"target"`
	DirectionID int64  `json:"direction_id"`
}

const (
	BroadcastAll         = "all"
	BroadcastActive      = "active"
	BroadcastByDirection = "by_direction"
)

type BroadcastResponse struct {
	Recipients int `json:"recipients"`
	Sent       int `json:"sent"`
}

func toStudentResponse(u *domain.User) StudentResponse {
	return StudentResponse{
		ID:         u.ID,
		TelegramID: u.TelegramID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Username:   u.Username,
		Phone:      u.Phone,
		Balance:    u.Balance,
		CreatedAt:  u.CreatedAt,
	}
}
