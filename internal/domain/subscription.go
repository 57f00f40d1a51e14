package domain

import "time"

// SubscriptionPlan is a purchasable template ("8 lessons / 30 days").
// Prices are stored in kopecks.
type SubscriptionPlan struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	LessonsCount int       `json:"lessons_count"`
	ValidityDays int       `json:"validity_days"`
	Price        int       `json:"price"`
	Description  string    `json:"description,omitempty"`
	IsPopular    bool      `json:"is_popular"`
	IsActive     bool      `json:"is_active"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
}

// Subscription is a purchased instance of a plan. Expiry deactivation does
// not claw back unused balance credits.
type Subscription struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	PlanID           int64     `json:"plan_id"`
	LessonsRemaining int       `json:"lessons_remaining"`
	StartsAt         time.Time `json:"starts_at"`
	ExpiresAt        time.Time `json:"expires_at"`
	IsActive         bool      `json:"is_active"`

	Plan *SubscriptionPlan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
}
