package main

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	_ "modernc.org/sqlite"

	"dancemax/internal/config"
	"dancemax/internal/database"
	"dancemax/internal/domain"
	"dancemax/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM transactions")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM subscriptions")
	db.Exec("DELETE FROM lessons")
	db.Exec("DELETE FROM special_courses")
	db.Exec("DELETE FROM teacher_directions")
	db.Exec("DELETE FROM teachers")
	db.Exec("DELETE FROM directions")
	db.Exec("DELETE FROM subscription_plans")
	db.Exec("DELETE FROM promotions")
	db.Exec("DELETE FROM users")

	// ================== DIRECTIONS ==================
	log.Println("Creating directions...")
	directions := []domain.Direction{
		{Name: "Hip-Hop", Slug: "hip-hop", ShortDescription: "Street dance basics and choreo", Color: "#F97316", Icon: "🔥", Status: domain.CatalogActive, SortOrder: 1},
		{Name: "Contemporary", Slug: "contemporary", ShortDescription: "Flow, floorwork and improvisation", Color: "#38BDF8", Icon: "🌊", Status: domain.CatalogActive, SortOrder: 2},
		{Name: "High Heels", Slug: "high-heels", ShortDescription: "Confidence and style in heels", Color: "#EC4899", Icon: "👠", Status: domain.CatalogActive, SortOrder: 3},
		{Name: "Breaking", Slug: "breaking", ShortDescription: "Power moves and footwork", Color: "#A3E635", Icon: "🌀", Status: domain.CatalogActive, SortOrder: 4},
	}
	for i := range directions {
		db.Create(&directions[i])
	}

	// ================== TEACHERS ==================
	log.Println("Creating teachers...")
	teachers := []domain.Teacher{
		{Name: "Aizhan Serikova", Slug: "aizhan-serikova", Bio: "Hip-hop battles judge, 10 years on stage", ExperienceYears: 10, Status: domain.CatalogActive, Directions: []domain.Direction{directions[0], directions[3]}},
		{Name: "Dmitry Kim", Slug: "dmitry-kim", Bio: "Contemporary choreographer", ExperienceYears: 7, Status: domain.CatalogActive, Directions: []domain.Direction{directions[1]}},
		{Name: "Madina Alieva", Slug: "madina-alieva", Bio: "High heels and frame up strip", ExperienceYears: 5, Status: domain.CatalogActive, Directions: []domain.Direction{directions[2]}},
	}
	for i := range teachers {
		db.Create(&teachers[i])
	}

	// ================== LESSONS ==================
	// Two weeks of lessons starting today, 2-3 per day.
	log.Println("Creating lessons...")
	slots := []struct {
		start, end string
		room       string
	}{
		{"18:00", "19:00", "Hall A"},
		{"19:00", "20:30", "Hall A"},
		{"20:30", "22:00", "Hall B"},
	}
	levels := []domain.LessonLevel{domain.LevelBeginner, domain.LevelIntermediate, domain.LevelAll}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	created := 0
	for day := 0; day < 14; day++ {
		date := today.AddDate(0, 0, day)
		for i, slot := range slots {
			teacher := teachers[rand.Intn(len(teachers))]
			direction := teacher.Directions[rand.Intn(len(teacher.Directions))]
			db.Create(&domain.Lesson{
				DirectionID: direction.ID,
				TeacherID:   teacher.ID,
				Date:        date,
				StartTime:   slot.start,
				EndTime:     slot.end,
				Room:        slot.room,
				MaxSpots:    8 + rand.Intn(7),
				Level:       levels[i%len(levels)],
			})
			created++
		}
	}
	log.Printf("Created %d lessons", created)

	// ================== PLANS ==================
	log.Println("Creating subscription plans...")
	plans := []domain.SubscriptionPlan{
		{Name: "Trial", LessonsCount: 1, ValidityDays: 7, Price: 300000, Description: "One lesson to try us out", IsActive: true, SortOrder: 1},
		{Name: "Start 4", LessonsCount: 4, ValidityDays: 30, Price: 1000000, Description: "4 lessons in 30 days", IsActive: true, SortOrder: 2},
		{Name: "Base 8", LessonsCount: 8, ValidityDays: 30, Price: 1800000, Description: "8 lessons in 30 days", IsPopular: true, IsActive: true, SortOrder: 3},
		{Name: "Unlimited-ish 16", LessonsCount: 16, ValidityDays: 30, Price: 3200000, Description: "16 lessons in 30 days", IsActive: true, SortOrder: 4},
	}
	for i := range plans {
		db.Create(&plans[i])
	}

	// ================== PROMOTIONS ==================
	log.Println("Creating promotions...")
	pct := 20
	uses := 100
	db.Create(&domain.Promotion{
		Title:           "First month -20%",
		Description:     "Welcome discount for new students",
		PromoCode:       "DANCE20",
		DiscountPercent: &pct,
		ValidFrom:       today.AddDate(0, 0, -1),
		ValidUntil:      today.AddDate(0, 1, 0),
		MaxUses:         &uses,
		IsActive:        true,
	})
	amount := 200000
	db.Create(&domain.Promotion{
		Title:          "Bring a friend",
		Description:    "2000 KZT off any plan",
		PromoCode:      "FRIEND",
		DiscountAmount: &amount,
		ValidFrom:      today.AddDate(0, 0, -1),
		ValidUntil:     today.AddDate(0, 3, 0),
		IsActive:       true,
	})

	// ================== COURSES ==================
	log.Println("Creating special courses...")
	db.Create(&domain.SpecialCourse{
		Name:            "Hip-Hop Intensive",
		Description:     "5-day choreography camp with a showcase",
		DirectionID:     &directions[0].ID,
		TeacherID:       &teachers[0].ID,
		Price:           2500000,
		LessonsCount:    5,
		StartDate:       today.AddDate(0, 0, 10),
		MaxParticipants: 12,
		Status:          domain.CatalogActive,
	})

	// ================== USERS ==================
	log.Println("Creating demo students...")
	for i := 0; i < 3; i++ {
		db.Create(&domain.User{
			TelegramID: int64(100001 + i),
			FirstName:  fmt.Sprintf("Student %d", i+1),
			Username:   fmt.Sprintf("student%d", i+1),
		})
	}
	for id := range cfg.AdminIDs {
		db.Create(&domain.User{
			TelegramID: id,
			FirstName:  "Admin",
			IsAdmin:    true,
		})
		log.Printf("Admin created: telegram_id=%d", id)
	}

	log.Println("Seed complete")
}
