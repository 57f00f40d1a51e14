package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dancemax/internal/pkg/response"
)

// AdminOnly gates staff endpoints. The admin flag comes from the user
// row, not the token, so demotions apply immediately.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool("is_admin") {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}
