package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dancemax/internal/pkg/jwt"
	"dancemax/internal/pkg/response"
	"dancemax/internal/repository"
)

// Auth validates the bearer token and resolves the account. Handlers
// downstream read "user_id" (internal id), "telegram_id" and "is_admin"
// from the gin context.
func Auth(tokens *jwt.Service, users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			abortUnauthorized(c, "Missing or malformed Authorization header")
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			abortUnauthorized(c, "Empty token")
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		user, err := users.GetByTelegramID(c.Request.Context(), claims.TelegramID)
		if err != nil {
			abortUnauthorized(c, "Unknown account")
			return
		}

		c.Set("user_id", user.ID)
		c.Set("telegram_id", user.TelegramID)
		c.Set("is_admin", user.IsAdmin)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
	c.Abort()
}
