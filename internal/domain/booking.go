package domain

import "time"

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
	BookingAttended  BookingStatus = "attended"
	BookingMissed    BookingStatus = "missed"
)

type Booking struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id" gorm:"index;not null"`
	LessonID    int64         `json:"lesson_id" gorm:"index;not null"`
	Status      BookingStatus `json:"status" gorm:"type:varchar(20);index;default:active"`
	BookedAt    time.Time     `json:"booked_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`

	User   *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Lesson *Lesson `json:"lesson,omitempty" gorm:"foreignKey:LessonID"`
}
