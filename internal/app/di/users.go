// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"user_backend/internal/feature/users/adapters"
	"user_backend/internal/feature/users/transport/handler"
	"user_backend/internal/feature/users/usecase"
	"user_backend/internal/platform/cache"
	"user_backend/internal/platform/password"
)

// NewUserRepository creates a UserRepository implementation.
// If Redis is available, the GORM repository is wrapped in a Redis cache.
// Otherwise, the GORM repository is used directly.
func NewUserRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) usecase.UserRepository {
	repo := adapters.NewUserGorm(db)
	if rdb != nil {
		return cache.NewCachingUserRepository(rdb, ttl, repo, "users")
	}
	return repo
}

// NewPasswordHasher returns the hasher selected by name (PASSWORD_HASHER).
func NewPasswordHasher(name string) (usecase.PasswordHasher, error) {
	return password.New(name)
}

// NewUserHandler wires repository, usecase and handler for the /users resource.
func NewUserHandler(db *gorm.DB, rdb *redis.Client, ttl time.Duration, hasherName string) (*handler.UserHandler, error) {
	hasher, err := NewPasswordHasher(hasherName)
	if err != nil {
		return nil, err
	}
	uc := usecase.NewUserUsecase(NewUserRepository(db, rdb, ttl), hasher)
	return handler.NewUserHandler(uc), nil
}
