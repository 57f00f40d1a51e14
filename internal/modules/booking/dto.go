package booking

import (
	"time"

	"dancemax/internal/domain"
)

type LessonInfo struct {
	ID           int64  `json:"id"`
	Date         string `json:"date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Room         string `json:"room"`
	Level        string `json:"level"`
	MaxSpots     int    `json:"max_spots"`
	CurrentSpots int    `json:"current_spots"`
	IsCancelled  bool   `json:"is_cancelled"`
	IsBooked     bool   `json:"is_booked"`
	Direction    string `json:"direction,omitempty"`
	Teacher      string `json:"teacher,omitempty"`
}

type BookingResponse struct {
	ID          int64       `json:"id"`
	Status      string      `json:"status"`
	BookedAt    time.Time   `json:"booked_at"`
	CancelledAt *time.Time  `json:"cancelled_at,omitempty"`
	Lesson      *LessonInfo `json:"lesson,omitempty"`
}

type BookRequest struct {
	LessonID int64 `json:"lesson_id" binding:"required"`
}

type BalanceAdjustment struct {
	UserID     int64
	Delta      int
	Reason     string
	NewBalance int
}

func toLessonInfo(l *domain.Lesson, taken int, isBooked bool) *LessonInfo {
	if l == nil {
		return nil
	}
	info := &LessonInfo{
		ID:           l.ID,
		Date:         l.Date.Format("2006-01-02"),
		StartTime:    l.StartTime,
		EndTime:      l.EndTime,
		Room:         l.Room,
		Level:        string(l.Level),
		MaxSpots:     l.MaxSpots,
		CurrentSpots: taken,
		IsCancelled:  l.IsCancelled,
		IsBooked:     isBooked,
	}
	if l.Direction != nil {
		info.Direction = l.Direction.Name
	}
	if l.Teacher != nil {
		info.Teacher = l.Teacher.Name
	}
	return info
}

func toBookingResponse(b *domain.Booking, taken int, isBooked bool) *BookingResponse {
	return &BookingResponse{
		ID:          b.ID,
		Status:      string(b.Status),
		BookedAt:    b.BookedAt,
		CancelledAt: b.CancelledAt,
		Lesson:      toLessonInfo(b.Lesson, taken, isBooked),
	}
}
