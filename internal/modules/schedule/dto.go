package schedule

import "dancemax/internal/domain"

type DirectionBrief struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

type TeacherBrief struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	PhotoURL string `json:"photo_url,omitempty"`
}

type LessonResponse struct {
	ID           int64           `json:"id"`
	Date         string          `json:"date"`
	StartTime    string          `json:"start_time"`
	EndTime      string          `json:"end_time"`
	Room         string          `json:"room"`
	Level        string          `json:"level"`
	MaxSpots     int             `json:"max_spots"`
	CurrentSpots int             `json:"current_spots"`
	SpotsLeft    int             `json:"spots_left"`
	IsCancelled  bool            `json:"is_cancelled"`
	CancelReason string          `json:"cancel_reason,omitempty"`
	IsBooked     bool            `json:"is_booked"`
	Direction    *DirectionBrief `json:"direction,omitempty"`
	Teacher      *TeacherBrief   `json:"teacher,omitempty"`
}

func toLessonResponse(l *domain.Lesson, taken int, isBooked bool) *LessonResponse {
	resp := &LessonResponse{
		ID:           l.ID,
		Date:         l.Date.Format("2006-01-02"),
		StartTime:    l.StartTime,
		EndTime:      l.EndTime,
		Room:         l.Room,
		Level:        string(l.Level),
		MaxSpots:     l.MaxSpots,
		CurrentSpots: taken,
		SpotsLeft:    l.MaxSpots - taken,
		IsCancelled:  l.IsCancelled,
		CancelReason: l.CancelReason,
		IsBooked:     isBooked,
	}
	if resp.SpotsLeft < 0 {
		resp.SpotsLeft = 0
	}
	if l.Direction != nil {
		resp.Direction = &DirectionBrief{
			ID:    l.Direction.ID,
			Name:  l.Direction.Name,
			Slug:  l.Direction.Slug,
			Color: l.Direction.Color,
			Icon:  l.Direction.Icon,
		}
	}
	if l.Teacher != nil {
		resp.Teacher = &TeacherBrief{
			ID:       l.Teacher.ID,
			Name:     l.Teacher.Name,
			Slug:     l.Teacher.Slug,
			PhotoURL: l.Teacher.PhotoURL,
		}
	}
	return resp
}
