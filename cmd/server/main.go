package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redisv9 "github.com/redis/go-redis/v9"

	"user_backend/internal/app/config"
	"user_backend/internal/app/di"
	"user_backend/internal/app/router"
	platformdb "user_backend/internal/platform/db"
	"user_backend/internal/platform/http/handler"
	"user_backend/internal/platform/logger"
	"user_backend/internal/platform/metrics"
	"user_backend/internal/platform/password"
	platformredis "user_backend/internal/platform/redis"
	"user_backend/internal/shared/ratelimiter"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env
	envErr := godotenv.Load(".env")

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)
	if envErr != nil {
		slog.Info(".env not found; using system environment variables")
	}
	if logger.IsProduction(cfg.Env) {
		gin.SetMode(gin.ReleaseMode)
	}

	// db
	db, err := platformdb.OpenDB(cfg.DB)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()
	slog.Info("database connected", "driver", cfg.DB.Driver)

	// Redis
	var rdb *redisv9.Client
	if !cfg.Redis.Enabled() {
		slog.Warn("REDIS_HOST is not set. Running without cache.")
	} else if tmp, err := platformredis.NewRedisClient(context.Background(), cfg.Redis); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Plaintext passwords are for development only
	if cfg.PasswordHasher == "" || cfg.PasswordHasher == password.NamePlain {
		slog.Warn("PASSWORD_HASHER=plain: passwords are stored as received. Set PASSWORD_HASHER=bcrypt in production.")
	}

	// Handler
	usersH, err := di.NewUserHandler(db, rdb, cfg.CacheTTL, cfg.PasswordHasher)
	if err != nil {
		return err
	}
	healthH := handler.NewHealthHandler(sqlDB)

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	opts := router.Options{
		CORSAllowOrigins: cfg.CORSAllowOrigins,
		MaxBodyBytes:     cfg.MaxBodyBytes,
		Logger:           log,
	}
	if cfg.WriteRateLimit > 0 {
		opts.WriteLimiter = ratelimiter.NewRateLimiter(cfg.WriteRateLimit, time.Minute, cfg.WriteBurst)
	}

	// Router
	r := router.NewRouter(opts, router.Deps{
		Users:    usersH,
		Health:   healthH,
		Metrics:  m,
		Gatherer: reg,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
