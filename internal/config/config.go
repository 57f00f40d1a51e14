package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDatabaseURL = "dancemax.db"
	defaultJWTSecret   = "change-me-jwt-secret"
	defaultJWTTTL      = "168h"
	defaultHTTPAddr    = ":8080"
	defaultWebAppURL   = "http://localhost:5173"
	defaultOrigins     = "http://localhost:5173,http://localhost:3000"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	DatabaseURL    string
	JWTSecret      string
	JWTTTL         time.Duration
	BotToken       string
	WebAppURL      string
	AdminIDs       map[int64]bool
	AllowedOrigins []string
}

// Load reads the configuration from environment variables; a .env file is
// picked up first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:      strings.ToLower(getEnv("APP_ENV", "dev")),
		HTTPAddr:    getEnv("HTTP_ADDR", defaultHTTPAddr),
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),
		JWTSecret:   getEnv("JWT_SECRET", defaultJWTSecret),
		BotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		WebAppURL:   getEnv("TELEGRAM_WEBAPP_URL", defaultWebAppURL),
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", defaultJWTTTL))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	cfg.JWTTTL = ttl

	cfg.AdminIDs = map[int64]bool{}
	for _, part := range strings.Split(os.Getenv("ADMIN_IDS"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_IDS entry %q: %w", part, err)
		}
		cfg.AdminIDs[id] = true
	}

	for _, origin := range strings.Split(getEnv("ALLOWED_ORIGINS", defaultOrigins), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if cfg.AppEnv != "dev" && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set outside dev")
	}

	return cfg, nil
}

func getEnv(name, def string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return def
}
