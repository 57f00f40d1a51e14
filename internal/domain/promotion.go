package domain

import "time"

// Promotion is a discount campaign. PromoCode is empty for automatic
// campaigns without a code. DiscountAmount is in kopecks. MaxUses == nil
// means unlimited redemptions.
type Promotion struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ImageURL        string    `json:"image_url,omitempty"`
	PromoCode       string    `json:"promo_code,omitempty"`
	DiscountPercent *int      `json:"discount_percent,omitempty"`
	DiscountAmount  *int      `json:"discount_amount,omitempty"`
	ValidFrom       time.Time `json:"valid_from"`
	ValidUntil      time.Time `json:"valid_until"`
	MaxUses         *int      `json:"max_uses,omitempty"`
	CurrentUses     int       `json:"current_uses"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}
