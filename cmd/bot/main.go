package main

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	_ "modernc.org/sqlite"

	"dancemax/internal/bot"
	"dancemax/internal/config"
	"dancemax/internal/database"
	"dancemax/internal/modules/profile"
	"dancemax/internal/modules/schedule"
	"dancemax/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.BotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is empty")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	profileService := profile.NewService(db)
	scheduleService := schedule.NewService(lessonRepo, bookingRepo)

	b := bot.New(api, cfg.WebAppURL, userRepo, profileService, scheduleService)
	if err := b.Start(); err != nil {
		log.Fatal(err)
	}
}
