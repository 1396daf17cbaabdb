package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"user_backend/internal/platform/metrics"
)

// Metrics records request duration and count, labelled by the matched route.
// Requests to /metrics itself are not recorded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if c.Request.URL.Path == "/metrics" {
			return
		}
		m.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
