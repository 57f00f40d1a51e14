package payment

import (
	"time"

	"dancemax/internal/domain"
)

type PlanResponse struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	LessonsCount   int    `json:"lessons_count"`
	ValidityDays   int    `json:"validity_days"`
	Price          int    `json:"price"`
	PricePerLesson int    `json:"price_per_lesson"`
	Description    string `json:"description,omitempty"`
	IsPopular      bool   `json:"is_popular"`
}

type PurchaseRequest struct {
	PlanID    int64  `json:"plan_id" binding:"required"`
	PromoCode string `json:"promo_code"`
}

type SubscriptionResponse struct {
	ID               int64     `json:"id"`
	PlanID           int64     `json:"plan_id"`
	PlanName         string    `json:"plan_name,omitempty"`
	LessonsRemaining int       `json:"lessons_remaining"`
	StartsAt         time.Time `json:"starts_at"`
	ExpiresAt        time.Time `json:"expires_at"`
	IsActive         bool      `json:"is_active"`
}

type PurchaseResponse struct {
	Subscription *SubscriptionResponse `json:"subscription"`
	PricePaid    int                   `json:"price_paid"`
	Discount     int                   `json:"discount"`
	NewBalance   int                   `json:"new_balance"`
}

type ValidatePromoRequest struct {
	Code   string `json:"code" binding:"required"`
	PlanID int64  `json:"plan_id" binding:"required"`
}

// PromoValidation is always returned with HTTP 200; a bad code is a
// business outcome, not an error.
type PromoValidation struct {
	Valid      bool   `json:"valid"`
	Reason     string `json:"reason,omitempty"`
	Discount   int    `json:"discount,omitempty"`
	FinalPrice int    `json:"final_price,omitempty"`
	Title      string `json:"title,omitempty"`
}

// PromotionResponse never exposes the promo code itself; codes are
// distributed through marketing channels.
type PromotionResponse struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"image_url,omitempty"`
	HasPromoCode    bool      `json:"has_promo_code"`
	DiscountPercent *int      `json:"discount_percent,omitempty"`
	DiscountAmount  *int      `json:"discount_amount,omitempty"`
	ValidUntil      time.Time `json:"valid_until"`
}

func toPlanResponse(p *domain.SubscriptionPlan) *PlanResponse {
	perLesson := 0
	if p.LessonsCount > 0 {
		perLesson = p.Price / p.LessonsCount
	}
	return &PlanResponse{
		ID:             p.ID,
		Name:           p.Name,
		LessonsCount:   p.LessonsCount,
		ValidityDays:   p.ValidityDays,
		Price:          p.Price,
		PricePerLesson: perLesson,
		Description:    p.Description,
		IsPopular:      p.IsPopular,
	}
}

func toSubscriptionResponse(s *domain.Subscription) *SubscriptionResponse {
	resp := &SubscriptionResponse{
		ID:               s.ID,
		PlanID:           s.PlanID,
		LessonsRemaining: s.LessonsRemaining,
		StartsAt:         s.StartsAt,
		ExpiresAt:        s.ExpiresAt,
		IsActive:         s.IsActive,
	}
	if s.Plan != nil {
		resp.PlanName = s.Plan.Name
	}
	return resp
}

func toPromotionResponse(p *domain.Promotion) *PromotionResponse {
	return &PromotionResponse{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		ImageURL:        p.ImageURL,
		HasPromoCode:    p.PromoCode != "",
		DiscountPercent: p.DiscountPercent,
		DiscountAmount:  p.DiscountAmount,
		ValidUntil:      p.ValidUntil,
	}
}
