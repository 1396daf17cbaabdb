// Package handler provides HTTP handlers for platform-level endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const defaultPingTimeout = 2 * time.Second

// Pinger reports whether a backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler serves /healthz.
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler. A nil db turns the endpoint into a pure liveness probe.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: defaultPingTimeout}
}

// Health handles /healthz. It answers according to the HTTP method and prevents caching.
// GET and other body-carrying methods report 503 when the database does not answer a ping.
func (h *HealthHandler) Health(c *gin.Context) {
	// Never cache health responses
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	status := http.StatusOK
	dbState := "ok"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			slog.Error("health check: database ping failed", "error", err)
			status = http.StatusServiceUnavailable
			dbState = "unavailable"
		}
	}

	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}
	if status != http.StatusOK {
		c.JSON(status, gin.H{"status": "unavailable", "database": dbState})
		return
	}
	c.JSON(status, gin.H{"status": "ok", "database": dbState})
}
