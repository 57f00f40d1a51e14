package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"dancemax/internal/domain"
	"dancemax/internal/pkg/jwt"
	"dancemax/internal/repository"
)

func setupUsers(t *testing.T) *repository.UserRepository {
	t.Helper()
	dsn := fmt.Sprintf("file:middleware_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	if err := db.Create(&domain.User{TelegramID: 42, FirstName: "Anna"}).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	if err := db.Create(&domain.User{TelegramID: 77, FirstName: "Boss", IsAdmin: true}).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	return repository.NewUserRepository(db)
}

func TestAuthValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := jwt.New("test-secret-123", time.Hour)
	users := setupUsers(t)
	validToken, _ := tokens.GenerateToken(42, false)

	router := gin.New()
	router.Use(Auth(tokens, users))
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"telegram_id": c.GetInt64("telegram_id"),
			"is_admin":    c.GetBool("is_admin"),
		})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+validToken)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "42")
}

func TestAuthRejectsBadTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := jwt.New("test-secret-123", time.Hour)
	users := setupUsers(t)
	foreign, _ := jwt.New("other-secret", time.Hour).GenerateToken(42, false)

	router := gin.New()
	router.Use(Auth(tokens, users))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("handler must not be reached")
	})

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Token abc",
		"garbage":        "Bearer not-a-jwt",
		"wrong secret":   "Bearer " + foreign,
	}
	for name, header := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}

func TestAuthRejectsUnknownAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := jwt.New("test-secret-123", time.Hour)
	users := setupUsers(t)
	ghost, _ := tokens.GenerateToken(99999, false)

	router := gin.New()
	router.Use(Auth(tokens, users))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("handler must not be reached")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+ghost)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := jwt.New("test-secret-123", time.Hour)
	users := setupUsers(t)

	router := gin.New()
	router.Use(Auth(tokens, users), AdminOnly())
	router.GET("/admin", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	adminToken, _ := tokens.GenerateToken(77, true)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	studentToken, _ := tokens.GenerateToken(42, false)
	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+studentToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
