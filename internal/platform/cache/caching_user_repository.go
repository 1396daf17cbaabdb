// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/usecase"
)

// CachingUserRepository decorates a UserRepository with Redis caching.
// Reads are served from Redis when possible; every successful write
// invalidates the list key and the affected user's key.
//
// Invalidation is cache-aside: a read that loaded from storage before a
// concurrent write invalidated the key can still store its older result
// afterwards. Such an entry is served until it expires, so staleness is
// bounded by ttl.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// NewCachingUserRepository decorates a UserRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
// A nil rdb disables caching and every call goes straight to inner.
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create inserts the user and drops the cached list.
func (c *CachingUserRepository) Create(ctx context.Context, user *entity.User) error {
	if err := c.inner.Create(ctx, user); err != nil {
		return err
	}
	c.invalidate(ctx, c.listKey())
	return nil
}

// FindAll returns all users, checking the cache first.
func (c *CachingUserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	if c.rdb == nil {
		return c.inner.FindAll(ctx)
	}

	key := c.listKey()
	var cached []entity.User
	if c.load(ctx, key, &cached) {
		if cached == nil {
			cached = []entity.User{}
		}
		return cached, nil
	}

	users, err := c.inner.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, users)
	return users, nil
}

// FindByID returns a single user, checking the cache first.
// Absence is never cached.
func (c *CachingUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.userKey(id)
	var cached entity.User
	if c.load(ctx, key, &cached) {
		return &cached, nil
	}

	user, err := c.inner.FindByID(ctx, id)
	if err != nil || user == nil {
		return user, err
	}
	c.store(ctx, key, user)
	return user, nil
}

// Update writes the user and drops both the list and the user's own key.
func (c *CachingUserRepository) Update(ctx context.Context, user *entity.User) error {
	if err := c.inner.Update(ctx, user); err != nil {
		return err
	}
	c.invalidate(ctx, c.listKey(), c.userKey(user.ID))
	return nil
}

// Delete removes the user and drops both the list and the user's own key.
func (c *CachingUserRepository) Delete(ctx context.Context, id uint) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, c.listKey(), c.userKey(id))
	return nil
}

// load reads key into out. It reports false on a miss, a Redis error or a corrupted entry.
func (c *CachingUserRepository) load(ctx context.Context, key string, out any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		if err != nil && !errors.Is(err, redis.Nil) {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(b, out); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// store writes v under key (best effort).
func (c *CachingUserRepository) store(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
}

// invalidate deletes keys (best effort).
func (c *CachingUserRepository) invalidate(ctx context.Context, keys ...string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}

func (c *CachingUserRepository) listKey() string {
	return c.namespace + ":all"
}

func (c *CachingUserRepository) userKey(id uint) string {
	return fmt.Sprintf("%s:id:%d", c.namespace, id)
}
