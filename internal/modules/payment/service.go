package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dancemax/internal/domain"
	"dancemax/internal/repository"
)

// Service sells subscription plans. A purchase credits the full lesson
// count of the plan to the user's balance in the same transaction that
// creates the subscription and the ledger entry; promo discounts change
// the price, never the number of credited lessons.
type Service struct {
	db         *gorm.DB
	plans      *repository.PlanRepository
	subs       *repository.SubscriptionRepository
	promotions *repository.PromotionRepository
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db:         db,
		plans:      repository.NewPlanRepository(db),
		subs:       repository.NewSubscriptionRepository(db),
		promotions: repository.NewPromotionRepository(db),
	}
}

func (s *Service) ListPlans(ctx context.Context) ([]*PlanResponse, error) {
	plans, err := s.plans.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	out := make([]*PlanResponse, 0, len(plans))
	for i := range plans {
		out = append(out, toPlanResponse(&plans[i]))
	}
	return out, nil
}

func (s *Service) ListPromotions(ctx context.Context) ([]*PromotionResponse, error) {
	promos, err := s.promotions.ListCurrent(ctx, today())
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	out := make([]*PromotionResponse, 0, len(promos))
	for i := range promos {
		out = append(out, toPromotionResponse(&promos[i]))
	}
	return out, nil
}

// ValidatePromo checks a code against a plan and prices the discount.
// An inapplicable code yields Valid=false with a reason, not an error.
func (s *Service) ValidatePromo(ctx context.Context, code string, planID int64) (*PromoValidation, error) {
	plan, err := s.plans.GetActiveByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("load plan: %w", err)
	}
	result, _, err := s.pricePromo(ctx, s.db, code, plan.Price)
	return result, err
}

func (s *Service) pricePromo(ctx context.Context, db *gorm.DB, code string, price int) (*PromoValidation, *domain.Promotion, error) {
	promo, err := repository.NewPromotionRepository(db).GetActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &PromoValidation{Valid: false, Reason: PromoNotFound}, nil, nil
		}
		return nil, nil, fmt.Errorf("load promo: %w", err)
	}

	now := today()
	switch {
	case now.Before(promo.ValidFrom):
		return &PromoValidation{Valid: false, Reason: PromoNotStarted}, nil, nil
	case now.After(promo.ValidUntil):
		return &PromoValidation{Valid: false, Reason: PromoExpired}, nil, nil
	case promo.MaxUses != nil && promo.CurrentUses >= *promo.MaxUses:
		return &PromoValidation{Valid: false, Reason: PromoExhausted}, nil, nil
	}

	// a percent discount wins over a flat amount when both are set
	discount := 0
	if promo.DiscountPercent != nil && *promo.DiscountPercent > 0 {
		discount = price * *promo.DiscountPercent / 100
	} else if promo.DiscountAmount != nil && *promo.DiscountAmount > 0 {
		discount = *promo.DiscountAmount
		if discount > price {
			discount = price
		}
	}

	return &PromoValidation{
		Valid:      true,
		Discount:   discount,
		FinalPrice: price - discount,
		Title:      promo.Title,
	}, promo, nil
}

// Purchase creates a subscription from a plan and credits the user.
func (s *Service) Purchase(ctx context.Context, userID int64, req PurchaseRequest) (*PurchaseResponse, error) {
	var result PurchaseResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan domain.SubscriptionPlan
		if err := tx.Where("is_active = ?", true).First(&plan, req.PlanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanNotFound
			}
			return fmt.Errorf("load plan: %w", err)
		}

		var user domain.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}

		finalPrice := plan.Price
		discount := 0
		if req.PromoCode != "" {
			validation, promo, err := s.pricePromo(ctx, tx, req.PromoCode, plan.Price)
			if err != nil {
				return err
			}
			if !validation.Valid {
				return fmt.Errorf("%w: %s", ErrPromoInvalid, validation.Reason)
			}
			// guarded increment, loses the race to the last remaining use
			res := tx.Model(&domain.Promotion{}).
				Where("id = ? AND (max_uses IS NULL OR current_uses < max_uses)", promo.ID).
				Update("current_uses", gorm.Expr("current_uses + 1"))
			if res.Error != nil {
				return fmt.Errorf("redeem promo: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrPromoInvalid, PromoExhausted)
			}
			finalPrice = validation.FinalPrice
			discount = validation.Discount
		}

		now := today()
		sub := domain.Subscription{
			UserID:           userID,
			PlanID:           plan.ID,
			LessonsRemaining: plan.LessonsCount,
			StartsAt:         now,
			ExpiresAt:        now.AddDate(0, 0, plan.ValidityDays),
			IsActive:         true,
		}
		if err := tx.Create(&sub).Error; err != nil {
			return fmt.Errorf("create subscription: %w", err)
		}

		newBalance := user.Balance + plan.LessonsCount
		if err := tx.Model(&domain.User{}).Where("id = ?", userID).
			Update("balance", newBalance).Error; err != nil {
			return fmt.Errorf("credit balance: %w", err)
		}

		entry := domain.Transaction{
			UserID:         userID,
			Type:           domain.TransactionPurchase,
			Amount:         plan.LessonsCount,
			Description:    fmt.Sprintf("Purchase of %q for %d", plan.Name, finalPrice),
			SubscriptionID: &sub.ID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("record purchase: %w", err)
		}

		sub.Plan = &plan
		result = PurchaseResponse{
			Subscription: toSubscriptionResponse(&sub),
			PricePaid:    finalPrice,
			Discount:     discount,
			NewBalance:   newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeactivateExpired flips subscriptions past their expiry date to
// inactive and returns how many were touched. Balances stay as they are.
func (s *Service) DeactivateExpired(ctx context.Context) (int64, error) {
	return s.subs.DeactivateExpired(ctx, today())
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
