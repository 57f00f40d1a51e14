package domain

import "time"

type LessonLevel string

const (
	LevelBeginner     LessonLevel = "beginner"
	LevelIntermediate LessonLevel = "intermediate"
	LevelAdvanced     LessonLevel = "advanced"
	LevelAll          LessonLevel = "all"
)

// Lesson is one scheduled class instance. Start and end times are kept as
// "HH:MM" strings, the date as a date-only value at midnight UTC.
type Lesson struct {
	ID           int64       `json:"id"`
	DirectionID  int64       `json:"direction_id"`
	TeacherID    int64       `json:"teacher_id"`
	Date         time.Time   `json:"date" gorm:"index"`
	StartTime    string      `json:"start_time"`
	EndTime      string      `json:"end_time"`
	Room         string      `json:"room"`
	MaxSpots     int         `json:"max_spots"`
	Level        LessonLevel `json:"level"`
	IsCancelled  bool        `json:"is_cancelled"`
	CancelReason string      `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`

	Direction *Direction `json:"direction,omitempty" gorm:"foreignKey:DirectionID"`
	Teacher   *Teacher   `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}
