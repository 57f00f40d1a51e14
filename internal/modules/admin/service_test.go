package admin

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
	"dancemax/internal/modules/booking"
	"dancemax/internal/modules/payment"
	"dancemax/internal/modules/schedule"
	"dancemax/internal/repository"
)

type fakeBroadcaster struct {
	sent map[int64]string
	fail map[int64]bool
}

func (f *fakeBroadcaster) SendText(_ context.Context, telegramID int64, text string) error {
	if f.fail[telegramID] {
		return errors.New("blocked by user")
	}
	if f.sent == nil {
		f.sent = map[int64]string{}
	}
	f.sent[telegramID] = text
	return nil
}

func setupAdminService(t *testing.T) (*Service, *gorm.DB, *fakeBroadcaster) {
	t.Helper()
	dsn := fmt.Sprintf("file:admin_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	bcast := &fakeBroadcaster{}
	bookingSvc := booking.NewService(db, nil)
	paymentSvc := payment.NewService(db)
	scheduleSvc := schedule.NewService(repository.NewLessonRepository(db), repository.NewBookingRepository(db))
	return NewService(db, bookingSvc, paymentSvc, scheduleSvc, bcast), db, bcast
}

func seedDirectionAndTeacher(t *testing.T, db *gorm.DB) (*domain.Direction, *domain.Teacher) {
	t.Helper()
	d := &domain.Direction{Name: "Vogue", Slug: "vogue", Status: domain.CatalogActive}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("failed to seed direction: %v", err)
	}
	tc := &domain.Teacher{Name: "Alia", Slug: "alia", Status: domain.CatalogActive}
	if err := db.Create(tc).Error; err != nil {
		t.Fatalf("failed to seed teacher: %v", err)
	}
	return d, tc
}

func TestCreateAndUpdateLesson(t *testing.T) {
	svc, db, _ := setupAdminService(t)
	ctx := context.Background()
	direction, teacher := seedDirectionAndTeacher(t, db)

	lesson, err := svc.CreateLesson(ctx, CreateLessonRequest{
		DirectionID: direction.ID,
		TeacherID:   teacher.ID,
		Date:        "2026-09-10",
		StartTime:   "18:00",
		EndTime:     "19:30",
		Room:        "Hall B",
		MaxSpots:    12,
	})
	if err != nil {
		t.Fatalf("CreateLesson returned error: %v", err)
	}
	if lesson.Level != domain.LevelAll {
		t.Fatalf("expected default level 'all', got %s", lesson.Level)
	}
	if lesson.Direction == nil || lesson.Direction.Slug != "vogue" {
		t.Fatalf("expected direction preloaded, got %+v", lesson.Direction)
	}

	cases := []CreateLessonRequest{
		{DirectionID: direction.ID, TeacherID: teacher.ID, Date: "10.09.2026", StartTime: "18:00", EndTime: "19:00", MaxSpots: 5},
		{DirectionID: direction.ID, TeacherID: teacher.ID, Date: "2026-09-10", StartTime: "19:00", EndTime: "18:00", MaxSpots: 5},
		{DirectionID: direction.ID, TeacherID: teacher.ID, Date: "2026-09-10", StartTime: "18:00", EndTime: "19:00", MaxSpots: 0},
	}
	for i, req := range cases {
		if _, err := svc.CreateLesson(ctx, req); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
	if _, err := svc.CreateLesson(ctx, CreateLessonRequest{
		DirectionID: 99999, TeacherID: teacher.ID,
		Date: "2026-09-10", StartTime: "18:00", EndTime: "19:00", MaxSpots: 5,
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown direction, got %v", err)
	}

	room := "Hall C"
	spots := 8
	updated, err := svc.UpdateLesson(ctx, lesson.ID, UpdateLessonRequest{Room: &room, MaxSpots: &spots})
	if err != nil {
		t.Fatalf("UpdateLesson returned error: %v", err)
	}
	if updated.Room != "Hall C" || updated.MaxSpots != 8 {
		t.Fatalf("unexpected updated lesson: %+v", updated)
	}

	badStart := "20:00"
	if _, err := svc.UpdateLesson(ctx, lesson.ID, UpdateLessonRequest{StartTime: &badStart}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for inverted times, got %v", err)
	}
	if _, err := svc.UpdateLesson(ctx, 99999, UpdateLessonRequest{Room: &room}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStudentListingAndDetail(t *testing.T) {
	svc, db, _ := setupAdminService(t)
	ctx := context.Background()

	users := []domain.User{
		{TelegramID: 1, FirstName: "Anna", Username: "anna_dance", Balance: 3},
		{TelegramID: 2, FirstName: "Boris", Balance: 0},
		{TelegramID: 3, FirstName: "Root", IsAdmin: true},
	}
	for i := range users {
		if err := db.Create(&users[i]).Error; err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	all, err := svc.ListStudents(ctx, "", 0, 50)
	if err != nil {
		t.Fatalf("ListStudents returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("admins must be excluded, expected 2 students, got %d", len(all))
	}

	found, err := svc.ListStudents(ctx, "ANNA", 0, 50)
	if err != nil {
		t.Fatalf("ListStudents returned error: %v", err)
	}
	if len(found) != 1 || found[0].FirstName != "Anna" {
		t.Fatalf("expected case-insensitive search to find Anna, got %+v", found)
	}

	direction, teacher := seedDirectionAndTeacher(t, db)
	lesson := domain.Lesson{DirectionID: direction.ID, TeacherID: teacher.ID,
		Date: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), StartTime: "18:00", EndTime: "19:00", MaxSpots: 10, Level: domain.LevelAll}
	if err := db.Create(&lesson).Error; err != nil {
		t.Fatalf("failed to seed lesson: %v", err)
	}
	statuses := []domain.BookingStatus{domain.BookingActive, domain.BookingAttended, domain.BookingAttended, domain.BookingMissed}
	for _, st := range statuses {
		b := domain.Booking{UserID: users[0].ID, LessonID: lesson.ID, Status: st, BookedAt: time.Now()}
		if err := db.Create(&b).Error; err != nil {
			t.Fatalf("failed to seed booking: %v", err)
		}
	}

	detail, err := svc.GetStudent(ctx, users[0].ID)
	if err != nil {
		t.Fatalf("GetStudent returned error: %v", err)
	}
	if detail.ActiveBookings != 1 || detail.AttendedBookings != 2 || detail.MissedBookings != 1 {
		t.Fatalf("unexpected booking counts: %+v", detail)
	}

	if _, err := svc.GetStudent(ctx, 99999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDirectionSlugConflict(t *testing.T) {
	svc, _, _ := setupAdminService(t)
	ctx := context.Background()

	if _, err := svc.CreateDirection(ctx, DirectionRequest{Name: "Hip-Hop", Slug: "Hip-Hop"}); err != nil {
		t.Fatalf("CreateDirection returned error: %v", err)
	}
	if _, err := svc.CreateDirection(ctx, DirectionRequest{Name: "Another", Slug: "hip-hop"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate slug, got %v", err)
	}
	if _, err := svc.CreateDirection(ctx, DirectionRequest{Name: "Bad", Slug: "bad", Status: "archived"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}
}

func TestTeacherDirectionsManagement(t *testing.T) {
	svc, _, _ := setupAdminService(t)
	ctx := context.Background()

	hiphop, err := svc.CreateDirection(ctx, DirectionRequest{Name: "Hip-Hop", Slug: "hip-hop"})
	if err != nil {
		t.Fatalf("CreateDirection returned error: %v", err)
	}
	ballet, err := svc.CreateDirection(ctx, DirectionRequest{Name: "Ballet", Slug: "ballet"})
	if err != nil {
		t.Fatalf("CreateDirection returned error: %v", err)
	}

	teacher, err := svc.CreateTeacher(ctx, TeacherRequest{
		Name: "Marat", Slug: "marat", DirectionIDs: []int64{hiphop.ID},
	})
	if err != nil {
		t.Fatalf("CreateTeacher returned error: %v", err)
	}
	if len(teacher.Directions) != 1 || teacher.Directions[0].Slug != "hip-hop" {
		t.Fatalf("expected teacher bound to hip-hop, got %+v", teacher.Directions)
	}

	updated, err := svc.UpdateTeacher(ctx, teacher.ID, TeacherRequest{
		Name: "Marat", Slug: "marat", DirectionIDs: []int64{ballet.ID},
	})
	if err != nil {
		t.Fatalf("UpdateTeacher returned error: %v", err)
	}
	if len(updated.Directions) != 1 || updated.Directions[0].Slug != "ballet" {
		t.Fatalf("expected directions replaced with ballet, got %+v", updated.Directions)
	}

	if _, err := svc.CreateTeacher(ctx, TeacherRequest{
		Name: "Ghost", Slug: "ghost", DirectionIDs: []int64{99999},
	}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown direction id, got %v", err)
	}
}

func TestPlanAndPromotionValidation(t *testing.T) {
	svc, _, _ := setupAdminService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, PlanRequest{Name: "8 lessons", LessonsCount: 8, ValidityDays: 30, Price: 800000})
	if err != nil {
		t.Fatalf("CreatePlan returned error: %v", err)
	}
	if !plan.IsActive {
		t.Fatal("expected new plan to default to active")
	}
	if _, err := svc.CreatePlan(ctx, PlanRequest{Name: "bad", LessonsCount: 0, ValidityDays: 30, Price: 1}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	pct := 20
	promo, err := svc.CreatePromotion(ctx, PromotionRequest{
		Title: "Autumn", PromoCode: "dance20", DiscountPercent: &pct,
		ValidFrom: "2026-09-01", ValidUntil: "2026-10-01",
	})
	if err != nil {
		t.Fatalf("CreatePromotion returned error: %v", err)
	}
	if promo.PromoCode != "DANCE20" {
		t.Fatalf("expected promo code to be normalized, got %q", promo.PromoCode)
	}

	if _, err := svc.CreatePromotion(ctx, PromotionRequest{
		Title: "Dup", PromoCode: "DANCE20", DiscountPercent: &pct,
		ValidFrom: "2026-09-01", ValidUntil: "2026-10-01",
	}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on duplicate code, got %v", err)
	}

	bad := []PromotionRequest{
		{Title: "window", DiscountPercent: &pct, ValidFrom: "2026-10-01", ValidUntil: "2026-09-01"},
		{Title: "nodiscount", ValidFrom: "2026-09-01", ValidUntil: "2026-10-01"},
	}
	over := 150
	bad = append(bad, PromotionRequest{Title: "percent", DiscountPercent: &over, ValidFrom: "2026-09-01", ValidUntil: "2026-10-01"})
	for i, req := range bad {
		if _, err := svc.CreatePromotion(ctx, req); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestDashboardCounters(t *testing.T) {
	svc, db, _ := setupAdminService(t)
	ctx := context.Background()

	student := domain.User{TelegramID: 1, FirstName: "Anna", Balance: 3}
	idle := domain.User{TelegramID: 2, FirstName: "Boris", Balance: 0}
	admin := domain.User{TelegramID: 3, FirstName: "Root", IsAdmin: true}
	for _, u := range []*domain.User{&student, &idle, &admin} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	direction, teacher := seedDirectionAndTeacher(t, db)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	open := domain.Lesson{DirectionID: direction.ID, TeacherID: teacher.ID, Date: today,
		StartTime: "10:00", EndTime: "11:00", MaxSpots: 10, Level: domain.LevelAll}
	gone := domain.Lesson{DirectionID: direction.ID, TeacherID: teacher.ID, Date: today,
		StartTime: "12:00", EndTime: "13:00", MaxSpots: 10, Level: domain.LevelAll, IsCancelled: true}
	for _, l := range []*domain.Lesson{&open, &gone} {
		if err := db.Create(l).Error; err != nil {
			t.Fatalf("failed to seed lesson: %v", err)
		}
	}
	b := domain.Booking{UserID: student.ID, LessonID: open.ID, Status: domain.BookingActive, BookedAt: time.Now()}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("failed to seed booking: %v", err)
	}
	entry := domain.Transaction{UserID: student.ID, Type: domain.TransactionPurchase, Amount: 8, CreatedAt: time.Now().UTC()}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("failed to seed transaction: %v", err)
	}

	stats, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard returned error: %v", err)
	}
	if stats.TotalStudents != 2 || stats.ActiveStudents != 1 {
		t.Fatalf("unexpected student counts: %+v", stats)
	}
	if stats.LessonsToday != 2 || stats.CancelledToday != 1 {
		t.Fatalf("unexpected lesson counts: %+v", stats)
	}
	if stats.BookingsToday != 1 || stats.LessonsSoldMonth != 8 {
		t.Fatalf("unexpected activity counts: %+v", stats)
	}
}

func TestBroadcastTargets(t *testing.T) {
	svc, db, bcast := setupAdminService(t)
	ctx := context.Background()

	withBalance := domain.User{TelegramID: 11, FirstName: "A", Balance: 2}
	without := domain.User{TelegramID: 12, FirstName: "B", Balance: 0}
	for _, u := range []*domain.User{&withBalance, &without} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	result, err := svc.Broadcast(ctx, BroadcastRequest{Message: "hello", Target: BroadcastAll})
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}
	if result.Recipients != 2 || result.Sent != 2 {
		t.Fatalf("unexpected broadcast result: %+v", result)
	}
	if bcast.sent[11] != "hello" || bcast.sent[12] != "hello" {
		t.Fatalf("expected both users messaged, got %+v", bcast.sent)
	}

	bcast.sent = nil
	result, err = svc.Broadcast(ctx, BroadcastRequest{Message: "credits", Target: BroadcastActive})
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}
	if result.Recipients != 1 || bcast.sent[11] != "credits" {
		t.Fatalf("expected only users with balance, got %+v", bcast.sent)
	}

	if _, err := svc.Broadcast(ctx, BroadcastRequest{Message: "x", Target: "everyone"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown target, got %v", err)
	}
	if _, err := svc.Broadcast(ctx, BroadcastRequest{Message: "x", Target: BroadcastByDirection}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation without direction_id, got %v", err)
	}
}

func TestBroadcastByDirectionAndFailures(t *testing.T) {
	svc, db, bcast := setupAdminService(t)
	ctx := context.Background()

	direction, teacher := seedDirectionAndTeacher(t, db)
	other := domain.Direction{Name: "Ballet", Slug: "ballet", Status: domain.CatalogActive}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("failed to seed direction: %v", err)
	}

	dancer := domain.User{TelegramID: 21, FirstName: "A", Balance: 2}
	balletDancer := domain.User{TelegramID: 22, FirstName: "B", Balance: 2}
	for _, u := range []*domain.User{&dancer, &balletDancer} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("failed to seed user: %v", err)
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	vogueLesson := domain.Lesson{DirectionID: direction.ID, TeacherID: teacher.ID, Date: today,
		StartTime: "10:00", EndTime: "11:00", MaxSpots: 10, Level: domain.LevelAll}
	balletLesson := domain.Lesson{DirectionID: other.ID, TeacherID: teacher.ID, Date: today,
		StartTime: "12:00", EndTime: "13:00", MaxSpots: 10, Level: domain.LevelAll}
	for _, l := range []*domain.Lesson{&vogueLesson, &balletLesson} {
		if err := db.Create(l).Error; err != nil {
			t.Fatalf("failed to seed lesson: %v", err)
		}
	}
	bookings := []domain.Booking{
		{UserID: dancer.ID, LessonID: vogueLesson.ID, Status: domain.BookingActive, BookedAt: time.Now()},
		{UserID: balletDancer.ID, LessonID: balletLesson.ID, Status: domain.BookingActive, BookedAt: time.Now()},
	}
	for i := range bookings {
		if err := db.Create(&bookings[i]).Error; err != nil {
			t.Fatalf("failed to seed booking: %v", err)
		}
	}

	result, err := svc.Broadcast(ctx, BroadcastRequest{
		Message: "vogue news", Target: BroadcastByDirection, DirectionID: direction.ID,
	})
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}
	if result.Recipients != 1 || bcast.sent[21] != "vogue news" {
		t.Fatalf("expected only the vogue dancer, got %+v", bcast.sent)
	}
	if _, ok := bcast.sent[22]; ok {
		t.Fatal("ballet dancer must not receive a vogue broadcast")
	}

	// delivery failures are skipped, not fatal
	bcast.fail = map[int64]bool{21: true}
	result, err = svc.Broadcast(ctx, BroadcastRequest{Message: "again", Target: BroadcastAll})
	if err != nil {
		t.Fatalf("Broadcast returned error: %v", err)
	}
	if result.Recipients != 2 || result.Sent != 1 {
		t.Fatalf("expected one failed delivery, got %+v", result)
	}
}
