package payment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"dancemax/internal/domain"
	"dancemax/internal/repository"
)

func setupPaymentService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:payment_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(db), db
}

func seedPlan(t *testing.T, db *gorm.DB, name string, lessons, days, price int, active bool) *domain.SubscriptionPlan {
	t.Helper()
	p := &domain.SubscriptionPlan{
		Name:         name,
		LessonsCount: lessons,
		ValidityDays: days,
		Price:        price,
		IsActive:     active,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create plan: %v", err)
	}
	return p
}

func seedPromo(t *testing.T, db *gorm.DB, code string, percent, amount *int, maxUses *int, from, until time.Time) *domain.Promotion {
	t.Helper()
	p := &domain.Promotion{
		Title:           "Promo " + code,
		PromoCode:       code,
		DiscountPercent: percent,
		DiscountAmount:  amount,
		MaxUses:         maxUses,
		ValidFrom:       from,
		ValidUntil:      until,
		IsActive:        true,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create promotion: %v", err)
	}
	return p
}

func intPtr(v int) *int { return &v }

func paymentUser(t *testing.T, db *gorm.DB, balance int) *domain.User {
	t.Helper()
	u := &domain.User{TelegramID: time.Now().UnixNano(), FirstName: "Buyer", Balance: balance}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return u
}

func TestListPlansSkipsInactiveAndPricesPerLesson(t *testing.T) {
	svc, db := setupPaymentService(t)

	seedPlan(t, db, "8 lessons", 8, 30, 800000, true)
	seedPlan(t, db, "old plan", 4, 30, 500000, false)

	plans, err := svc.ListPlans(context.Background())
	if err != nil {
		t.Fatalf("ListPlans returned error: %v", err)
	}
	if len(plans) != 1 {
		t.Fatalf("expected 1 active plan, got %d", len(plans))
	}
	if plans[0].PricePerLesson != 100000 {
		t.Fatalf("expected price per lesson 100000, got %d", plans[0].PricePerLesson)
	}
}

func TestValidatePromoOutcomes(t *testing.T) {
	svc, db := setupPaymentService(t)
	ctx := context.Background()

	plan := seedPlan(t, db, "8 lessons", 8, 30, 800000, true)
	past := time.Now().UTC().AddDate(0, 0, -30)
	future := time.Now().UTC().AddDate(0, 0, 30)

	seedPromo(t, db, "DANCE20", intPtr(20), nil, nil, past, future)
	seedPromo(t, db, "FLAT", nil, intPtr(900000), nil, past, future)
	seedPromo(t, db, "EARLY", intPtr(10), nil, nil, future, future.AddDate(0, 0, 10))
	seedPromo(t, db, "GONE", intPtr(10), nil, nil, past.AddDate(0, 0, -10), past)
	used := seedPromo(t, db, "LIMITED", intPtr(10), nil, intPtr(1), past, future)
	if err := db.Model(used).Update("current_uses", 1).Error; err != nil {
		t.Fatalf("failed to exhaust promo: %v", err)
	}

	percent, err := svc.ValidatePromo(ctx, "dance20", plan.ID)
	if err != nil {
		t.Fatalf("ValidatePromo returned error: %v", err)
	}
	if !percent.Valid || percent.Discount != 160000 || percent.FinalPrice != 640000 {
		t.Fatalf("unexpected percent validation: %+v", percent)
	}

	flat, err := svc.ValidatePromo(ctx, "FLAT", plan.ID)
	if err != nil {
		t.Fatalf("ValidatePromo returned error: %v", err)
	}
	if !flat.Valid || flat.FinalPrice != 0 {
		t.Fatalf("flat discount must be capped at the plan price, got %+v", flat)
	}

	cases := map[string]string{
		"NOPE":    PromoNotFound,
		"EARLY":   PromoNotStarted,
		"GONE":    PromoExpired,
		"LIMITED": PromoExhausted,
	}
	for code, reason := range cases {
		got, err := svc.ValidatePromo(ctx, code, plan.ID)
		if err != nil {
			t.Fatalf("ValidatePromo(%s) returned error: %v", code, err)
		}
		if got.Valid || got.Reason != reason {
			t.Fatalf("ValidatePromo(%s): expected reason %s, got %+v", code, reason, got)
		}
	}

	if _, err := svc.ValidatePromo(ctx, "DANCE20", 99999); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound, got %v", err)
	}
}

func TestPurchaseCreditsFullLessonCount(t *testing.T) {
	svc, db := setupPaymentService(t)
	ctx := context.Background()

	plan := seedPlan(t, db, "8 lessons", 8, 30, 800000, true)
	user := paymentUser(t, db, 2)

	result, err := svc.Purchase(ctx, user.ID, PurchaseRequest{PlanID: plan.ID})
	if err != nil {
		t.Fatalf("Purchase returned error: %v", err)
	}
	if result.PricePaid != 800000 || result.Discount != 0 {
		t.Fatalf("unexpected pricing: %+v", result)
	}
	if result.NewBalance != 10 {
		t.Fatalf("expected balance 10, got %d", result.NewBalance)
	}
	sub := result.Subscription
	if sub.LessonsRemaining != 8 || !sub.IsActive {
		t.Fatalf("unexpected subscription: %+v", sub)
	}
	if got := sub.ExpiresAt.Sub(sub.StartsAt); got != 30*24*time.Hour {
		t.Fatalf("expected 30 day validity, got %v", got)
	}

	var entry domain.Transaction
	if err := db.Where("user_id = ? AND type = ?", user.ID, domain.TransactionPurchase).First(&entry).Error; err != nil {
		t.Fatalf("expected a purchase ledger entry: %v", err)
	}
	if entry.Amount != 8 || entry.SubscriptionID == nil || *entry.SubscriptionID != sub.ID {
		t.Fatalf("unexpected ledger entry: %+v", entry)
	}
}

func TestPurchaseWithPromo(t *testing.T) {
	svc, db := setupPaymentService(t)
	ctx := context.Background()

	plan := seedPlan(t, db, "8 lessons", 8, 30, 800000, true)
	past := time.Now().UTC().AddDate(0, 0, -1)
	future := time.Now().UTC().AddDate(0, 0, 30)
	promo := seedPromo(t, db, "DANCE20", intPtr(20), nil, intPtr(5), past, future)
	user := paymentUser(t, db, 0)

	result, err := svc.Purchase(ctx, user.ID, PurchaseRequest{PlanID: plan.ID, PromoCode: "dance20"})
	if err != nil {
		t.Fatalf("Purchase returned error: %v", err)
	}
	if result.PricePaid != 640000 || result.Discount != 160000 {
		t.Fatalf("unexpected discounted pricing: %+v", result)
	}
	// the discount changes the price, not the credited lessons
	if result.NewBalance != 8 {
		t.Fatalf("expected full 8 lessons credited, got %d", result.NewBalance)
	}

	var reloaded domain.Promotion
	if err := db.First(&reloaded, promo.ID).Error; err != nil {
		t.Fatalf("failed to reload promo: %v", err)
	}
	if reloaded.CurrentUses != 1 {
		t.Fatalf("expected current_uses 1, got %d", reloaded.CurrentUses)
	}
}

func TestPurchaseRejections(t *testing.T) {
	svc, db := setupPaymentService(t)
	ctx := context.Background()

	inactive := seedPlan(t, db, "retired", 8, 30, 800000, false)
	plan := seedPlan(t, db, "8 lessons", 8, 30, 800000, true)
	user := paymentUser(t, db, 0)

	if _, err := svc.Purchase(ctx, user.ID, PurchaseRequest{PlanID: 99999}); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound for unknown plan, got %v", err)
	}
	if _, err := svc.Purchase(ctx, user.ID, PurchaseRequest{PlanID: inactive.ID}); !errors.Is(err, ErrPlanNotFound) {
		t.Fatalf("expected ErrPlanNotFound for inactive plan, got %v", err)
	}
	if _, err := svc.Purchase(ctx, user.ID, PurchaseRequest{PlanID: plan.ID, PromoCode: "NOPE"}); !errors.Is(err, ErrPromoInvalid) {
		t.Fatalf("expected ErrPromoInvalid, got %v", err)
	}

	// a failed purchase leaves no trace
	var subs, entries int64
	if err := db.Model(&domain.Subscription{}).Count(&subs).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if err := db.Model(&domain.Transaction{}).Count(&entries).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if subs != 0 || entries != 0 {
		t.Fatalf("expected no subscriptions or ledger entries, got %d and %d", subs, entries)
	}
	var reloaded domain.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if reloaded.Balance != 0 {
		t.Fatalf("expected untouched balance, got %d", reloaded.Balance)
	}
}

func TestPurchaseStopsAtPromoUseLimit(t *testing.T) {
	svc, db := setupPaymentService(t)
	ctx := context.Background()

	plan := seedPlan(t, db, "8 lessons", 8, 30, 800000, true)
	past := time.Now().UTC().AddDate(0, 0, -1)
	future := time.Now().UTC().AddDate(0, 0, 30)
	promo := seedPromo(t, db, "ONCE", intPtr(50), nil, intPtr(1), past, future)
	first := paymentUser(t, db, 0)
	second := paymentUser(t, db, 0)

	if _, err := svc.Purchase(ctx, first.ID, PurchaseRequest{PlanID: plan.ID, PromoCode: "ONCE"}); err != nil {
		t.Fatalf("first redemption failed: %v", err)
	}
	if _, err := svc.Purchase(ctx, second.ID, PurchaseRequest{PlanID: plan.ID, PromoCode: "ONCE"}); !errors.Is(err, ErrPromoInvalid) {
		t.Fatalf("expected ErrPromoInvalid on exhausted code, got %v", err)
	}

	var reloaded domain.Promotion
	if err := db.First(&reloaded, promo.ID).Error; err != nil {
		t.Fatalf("failed to reload promo: %v", err)
	}
	if reloaded.CurrentUses != 1 {
		t.Fatalf("expected current_uses to stay at 1, got %d", reloaded.CurrentUses)
	}
}

func TestDeactivateExpired(t *testing.T) {
	svc, db := setupPaymentService(t)
	ctx := context.Background()

	plan := seedPlan(t, db, "8 lessons", 8, 30, 800000, true)
	user := paymentUser(t, db, 5)

	now := time.Now().UTC()
	expired := domain.Subscription{UserID: user.ID, PlanID: plan.ID, LessonsRemaining: 3,
		StartsAt: now.AddDate(0, 0, -40), ExpiresAt: now.AddDate(0, 0, -10), IsActive: true}
	current := domain.Subscription{UserID: user.ID, PlanID: plan.ID, LessonsRemaining: 8,
		StartsAt: now, ExpiresAt: now.AddDate(0, 0, 30), IsActive: true}
	if err := db.Create(&expired).Error; err != nil {
		t.Fatalf("failed to seed subscription: %v", err)
	}
	if err := db.Create(&current).Error; err != nil {
		t.Fatalf("failed to seed subscription: %v", err)
	}

	count, err := svc.DeactivateExpired(ctx)
	if err != nil {
		t.Fatalf("DeactivateExpired returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 deactivated subscription, got %d", count)
	}

	again, err := svc.DeactivateExpired(ctx)
	if err != nil {
		t.Fatalf("DeactivateExpired returned error: %v", err)
	}
	if again != 0 {
		t.Fatalf("expected idempotent second run, got %d", again)
	}

	var reloadedUser domain.User
	if err := db.First(&reloadedUser, user.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}
	if reloadedUser.Balance != 5 {
		t.Fatalf("expiry must not claw back balance, got %d", reloadedUser.Balance)
	}
}
