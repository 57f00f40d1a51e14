package payment

import "errors"

var (
	ErrPlanNotFound = errors.New("subscription plan not found")
	ErrUserNotFound = errors.New("user not found")
	ErrPromoInvalid = errors.New("promo code is not applicable")
)

// Promo validation outcomes reported to the client.
const (
	PromoNotFound   = "not_found"
	PromoNotStarted = "not_started"
	PromoExpired    = "expired"
	PromoExhausted  = "exhausted"
)
