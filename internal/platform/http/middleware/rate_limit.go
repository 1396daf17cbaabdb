package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"user_backend/internal/shared/ratelimiter"
)

// RateLimit answers 429 when the client IP exceeds the limiter's rate.
// A nil limiter disables the check.
func RateLimit(l ratelimiter.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if !l.Allow(ip) {
			slog.Warn("rate limit exceeded", "remote_addr", ip, "path", c.Request.URL.Path)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
