package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"dancemax/internal/domain"
	"dancemax/internal/pkg/jwt"
	"dancemax/internal/repository"
)

const testBotToken = "110201543:AAHdqTcvCH1vGWJxfSeofSAs0K5PALDsaw"

func signInitData(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func buildInitData(t *testing.T, userJSON string) string {
	t.Helper()
	values := url.Values{}
	values.Set("auth_date", "1719999999")
	values.Set("user", userJSON)
	values.Set("hash", signInitData(values, testBotToken))
	return values.Encode()
}

func setupAuthService(t *testing.T, adminIDs map[int64]bool) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	tokens := jwt.New("test-secret", time.Hour)
	return NewService(repository.NewUserRepository(db), tokens, testBotToken, adminIDs), db
}

func TestLoginCreatesUserOnFirstVisit(t *testing.T) {
	svc, db := setupAuthService(t, nil)

	initData := buildInitData(t, `{"id":99281932,"first_name":"Anna","last_name":"Petrova","username":"anna_dance"}`)
	result, err := svc.Login(context.Background(), initData)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a session token")
	}
	if result.User.TelegramID != 99281932 || result.User.FirstName != "Anna" {
		t.Fatalf("unexpected user in response: %+v", result.User)
	}
	if result.User.IsAdmin {
		t.Fatal("expected a regular user")
	}
	if result.User.Balance != 0 {
		t.Fatalf("expected zero starting balance, got %d", result.User.Balance)
	}

	var stored domain.User
	if err := db.Where("telegram_id = ?", int64(99281932)).First(&stored).Error; err != nil {
		t.Fatalf("expected user row to be created: %v", err)
	}
}

func TestLoginRefreshesProfileAndKeepsBalance(t *testing.T) {
	svc, db := setupAuthService(t, nil)

	existing := domain.User{TelegramID: 555, FirstName: "Old", Username: "old_name", Balance: 7}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	initData := buildInitData(t, `{"id":555,"first_name":"New","username":"new_name"}`)
	result, err := svc.Login(context.Background(), initData)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.User.FirstName != "New" || result.User.Username != "new_name" {
		t.Fatalf("expected refreshed profile, got %+v", result.User)
	}
	if result.User.Balance != 7 {
		t.Fatalf("login must not touch the balance, got %d", result.User.Balance)
	}

	var count int64
	if err := db.Model(&domain.User{}).Where("telegram_id = ?", int64(555)).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single user row, got %d", count)
	}
}

func TestLoginGrantsAdminFromConfiguredIDs(t *testing.T) {
	svc, _ := setupAuthService(t, map[int64]bool{777: true})

	initData := buildInitData(t, `{"id":777,"first_name":"Boss"}`)
	result, err := svc.Login(context.Background(), initData)
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if !result.User.IsAdmin {
		t.Fatal("expected configured telegram id to become admin")
	}

	claims, err := jwt.New("test-secret", time.Hour).ValidateToken(result.Token)
	if err != nil {
		t.Fatalf("issued token failed validation: %v", err)
	}
	if claims.TelegramID != 777 || !claims.IsAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestLoginRejectsForgedInitData(t *testing.T) {
	svc, db := setupAuthService(t, nil)

	initData := buildInitData(t, `{"id":42,"first_name":"Mallory"}`)
	forged := strings.Replace(initData, "Mallory", "Trudy", 1)

	if _, err := svc.Login(context.Background(), forged); !errors.Is(err, ErrInvalidInitData) {
		t.Fatalf("expected ErrInvalidInitData, got %v", err)
	}

	var count int64
	if err := db.Model(&domain.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatal("forged login must not create users")
	}
}

func TestGetByTelegramID(t *testing.T) {
	svc, db := setupAuthService(t, nil)

	if _, err := svc.GetByTelegramID(context.Background(), 1); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	seed := domain.User{TelegramID: 1, FirstName: "Anna", Balance: 2}
	if err := db.Create(&seed).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	user, err := svc.GetByTelegramID(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetByTelegramID returned error: %v", err)
	}
	if user.FirstName != "Anna" || user.Balance != 2 {
		t.Fatalf("unexpected user: %+v", user)
	}
}
