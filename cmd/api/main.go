package main

import (
	"log"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	_ "modernc.org/sqlite"

	"dancemax/internal/bot"
	"dancemax/internal/config"
	"dancemax/internal/database"
	"dancemax/internal/middleware"
	"dancemax/internal/modules/admin"
	"dancemax/internal/modules/auth"
	"dancemax/internal/modules/booking"
	"dancemax/internal/modules/catalog"
	"dancemax/internal/modules/payment"
	"dancemax/internal/modules/profile"
	"dancemax/internal/modules/schedule"
	"dancemax/internal/notifier"
	jwtsvc "dancemax/internal/pkg/jwt"
	"dancemax/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	// One bot client shared by the notifier and the webhook feed.
	var botAPI *tgbotapi.BotAPI
	var bookingNotifier booking.Notifier
	var broadcaster admin.Broadcaster
	if cfg.BotToken != "" {
		botAPI, err = tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			log.Fatal(err)
		}
		tg := notifier.NewTelegramNotifier(botAPI)
		bookingNotifier = tg
		broadcaster = tg
	}

	authService := auth.NewService(userRepo, tokens, cfg.BotToken, cfg.AdminIDs)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	scheduleService := schedule.NewService(lessonRepo, bookingRepo)
	scheduleHandler := schedule.NewHandler(scheduleService)

	bookingService := booking.NewService(db, bookingNotifier)
	bookingHandler := booking.NewHandler(bookingService)

	paymentService := payment.NewService(db)
	paymentHandler := payment.NewHandler(paymentService)

	profileService := profile.NewService(db)
	profileHandler := profile.NewHandler(profileService)

	adminService := admin.NewService(db, bookingService, paymentService, scheduleService, broadcaster)
	adminHandler := admin.NewHandler(adminService)

	if cfg.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		catalogHandler.RegisterRoutes(v1)

		if botAPI != nil {
			b := bot.New(botAPI, cfg.WebAppURL, userRepo, profileService, scheduleService)
			b.RegisterWebhook(v1)
		}

		protected := v1.Group("/")
		protected.Use(middleware.Auth(tokens, userRepo))
		{
			authHandler.RegisterRoutes(protected)
			scheduleHandler.RegisterRoutes(protected)
			bookingHandler.RegisterRoutes(protected)
			paymentHandler.RegisterRoutes(protected)
			profileHandler.RegisterRoutes(protected)
		}

		adminGroup := v1.Group("/admin")
		adminGroup.Use(middleware.Auth(tokens, userRepo), middleware.AdminOnly())
		{
			adminHandler.RegisterRoutes(adminGroup)
		}
	}

	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
