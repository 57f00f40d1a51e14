package domain

import "time"

// CatalogStatus is the soft-delete state shared by catalog entities.
// Inactive entries stay in the database for historical references but are
// hidden from users.
type CatalogStatus string

const (
	CatalogActive   CatalogStatus = "active"
	CatalogInactive CatalogStatus = "inactive"
)

type Direction struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Slug             string        `json:"slug" gorm:"uniqueIndex;not null"`
	Description      string        `json:"description"`
	ShortDescription string        `json:"short_description"`
	ImageURL         string        `json:"image_url,omitempty"`
	Color            string        `json:"color"`
	Icon             string        `json:"icon"`
	Status           CatalogStatus `json:"status"`
	SortOrder        int           `json:"sort_order"`
}

type Teacher struct {
	ID              int64         `json:"id"`
	Name            string        `json:"name"`
	Slug            string        `json:"slug" gorm:"uniqueIndex;not null"`
	Bio             string        `json:"bio"`
	PhotoURL        string        `json:"photo_url,omitempty"`
	ExperienceYears int           `json:"experience_years"`
	Status          CatalogStatus `json:"status"`

	Directions []Direction `json:"directions,omitempty" gorm:"many2many:teacher_directions"`
}

type SpecialCourse struct {
	ID                  int64         `json:"id"`
	Name                string        `json:"name"`
	Description         string        `json:"description"`
	DirectionID         *int64        `json:"direction_id,omitempty"`
	TeacherID           *int64        `json:"teacher_id,omitempty"`
	Price               int           `json:"price"`
	LessonsCount        int           `json:"lessons_count"`
	StartDate           time.Time     `json:"start_date"`
	ImageURL            string        `json:"image_url,omitempty"`
	MaxParticipants     int           `json:"max_participants"`
	CurrentParticipants int           `json:"current_participants"`
	Status              CatalogStatus `json:"status"`

	Direction *Direction `json:"direction,omitempty" gorm:"foreignKey:DirectionID"`
	Teacher   *Teacher   `json:"teacher,omitempty" gorm:"foreignKey:TeacherID"`
}
