package router

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	usershandler "user_backend/internal/feature/users/transport/handler"
	"user_backend/internal/platform/http/handler"
	"user_backend/internal/platform/http/middleware"
	"user_backend/internal/platform/metrics"
	"user_backend/internal/shared/ratelimiter"
)

// Options carries the router-level settings.
type Options struct {
	CORSAllowOrigins []string
	MaxBodyBytes     int64
	Logger           *slog.Logger

	// WriteLimiter throttles POST, PUT and DELETE per client IP. Nil disables it.
	WriteLimiter ratelimiter.Limiter
}

// Deps groups everything the router mounts.
type Deps struct {
	Users    *usershandler.UserHandler
	Health   *handler.HealthHandler
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// NewRouter builds the gin engine with the platform middleware, /healthz, /metrics and the /users routes.
func NewRouter(opts Options, deps Deps) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Recoverer(),
		middleware.RequestLog(opts.Logger),
		cors.New(corsConfig(opts.CORSAllowOrigins)),
	)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	// Liveness and readiness
	r.GET("/healthz", deps.Health.Health)
	r.HEAD("/healthz", deps.Health.Health)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	users := r.Group("/users")
	users.Use(middleware.MaxBytes(opts.MaxBodyBytes))
	{
		limit := middleware.RateLimit(opts.WriteLimiter)
		users.GET("", deps.Users.List)
		users.POST("", limit, deps.Users.Create)
		users.GET("/:id", deps.Users.Get)
		users.PUT("/:id", limit, deps.Users.Update)
		users.DELETE("/:id", limit, deps.Users.Delete)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}
