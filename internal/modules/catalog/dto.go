package catalog

import (
	"time"

	"dancemax/internal/domain"
)

type DirectionResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Description      string `json:"description,omitempty"`
	ShortDescription string `json:"short_description,omitempty"`
	ImageURL         string `json:"image_url,omitempty"`
	Color            string `json:"color,omitempty"`
	Icon             string `json:"icon,omitempty"`
}

type TeacherResponse struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	Slug            string              `json:"slug"`
	Bio             string              `json:"bio,omitempty"`
	PhotoURL        string              `json:"photo_url,omitempty"`
	ExperienceYears int                 `json:"experience_years"`
	Directions      []DirectionResponse `json:"directions,omitempty"`
}

type CourseResponse struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	Description  string             `json:"description,omitempty"`
	Price        int                `json:"price"`
	LessonsCount int                `json:"lessons_count"`
	StartDate    time.Time          `json:"start_date"`
	ImageURL     string             `json:"image_url,omitempty"`
	SpotsLeft    int                `json:"spots_left"`
	Direction    *DirectionResponse `json:"direction,omitempty"`
	Teacher      *TeacherResponse   `json:"teacher,omitempty"`
}

func toDirectionResponse(d *domain.Direction) *DirectionResponse {
	return &DirectionResponse{
		ID:               d.ID,
		Name:             d.Name,
		Slug:             d.Slug,
		Description:      d.Description,
		ShortDescription: d.ShortDescription,
		ImageURL:         d.ImageURL,
		Color:            d.Color,
		Icon:             d.Icon,
	}
}

func toTeacherResponse(t *domain.Teacher) *TeacherResponse {
	resp := &TeacherResponse{
		ID:              t.ID,
		Name:            t.Name,
		Slug:            t.Slug,
		Bio:             t.Bio,
		PhotoURL:        t.PhotoURL,
		ExperienceYears: t.ExperienceYears,
	}
	for i := range t.Directions {
		resp.Directions = append(resp.Directions, *toDirectionResponse(&t.Directions[i]))
	}
	return resp
}

func toCourseResponse(c *domain.SpecialCourse) *CourseResponse {
	resp := &CourseResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Price:        c.Price,
		LessonsCount: c.LessonsCount,
		StartDate:    c.StartDate,
		ImageURL:     c.ImageURL,
		SpotsLeft:    c.MaxParticipants - c.CurrentParticipants,
	}
	if resp.SpotsLeft < 0 {
		resp.SpotsLeft = 0
	}
	if c.Direction != nil {
		resp.Direction = toDirectionResponse(c.Direction)
	}
	if c.Teacher != nil {
		resp.Teacher = toTeacherResponse(c.Teacher)
	}
	return resp
}
