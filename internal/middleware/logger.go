package middleware

import (
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"dancemax/internal/pkg/response"
)

// RequestLogger tags every request with an id, logs slow and failing
// requests and converts panics into a clean 500.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Printf("[%s] panic on %s %s: %v\n%s",
					requestID, c.Request.Method, c.Request.URL.Path, recovered, debug.Stack())
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				c.Abort()
				return
			}

			status := c.Writer.Status()
			elapsed := time.Since(start)
			if status >= http.StatusInternalServerError {
				log.Printf("[%s] %s %s -> %d in %s",
					requestID, c.Request.Method, c.Request.URL.Path, status, elapsed)
			}
		}()

		c.Next()
	}
}
