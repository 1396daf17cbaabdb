// Package adapters provides repository implementations for the users feature.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"user_backend/internal/feature/users/domain/entity"
	"user_backend/internal/feature/users/usecase"
)

// timestampPrecision matches the default DATETIME(3) precision GORM uses for
// MySQL, so an entity returned from Create equals the row read back later.
const timestampPrecision = time.Millisecond

// userGorm is a GORM implementation of the UserRepository interface.
// It works with any dialector opened by platform/db (MySQL, PostgreSQL, SQLite).
type userGorm struct {
	db  *gorm.DB
	now func() time.Time
}

// Compile-time check to ensure userGorm implements UserRepository.
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm creates a new instance of userGorm.
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db, now: time.Now}
}

func (r *userGorm) timestamp() time.Time {
	return r.now().UTC().Truncate(timestampPrecision)
}

// Create inserts the user and fills in ID, CreatedAt and UpdatedAt on u.
// Both timestamps come from a single clock reading.
func (r *userGorm) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("create user: nil user")
	}
	now := r.timestamp()
	model := UserModelFromEntity(u)
	model.ID = 0
	model.CreatedAt = now
	model.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("create user: %w", classifyError(err))
	}

	u.ID = model.ID
	u.CreatedAt = model.CreatedAt
	u.UpdatedAt = model.UpdatedAt
	return nil
}

// FindAll returns all users ordered by ID.
func (r *userGorm) FindAll(ctx context.Context) ([]entity.User, error) {
	var models []UserModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}

	users := make([]entity.User, 0, len(models))
	for i := range models {
		users = append(users, *models[i].ToEntity())
	}
	return users, nil
}

// FindByID returns the user with the given ID, or (nil, nil) if there is none.
func (r *userGorm) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return model.ToEntity(), nil
}

// Update writes name, email and password and refreshes UpdatedAt.
// CreatedAt is never written. A user without an ID is reported as not found.
func (r *userGorm) Update(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("update user: nil user")
	}
	if !u.IsPersisted() {
		return usecase.ErrUserNotFound
	}
	now := r.timestamp()
	if now.Before(u.CreatedAt) {
		now = u.CreatedAt
	}

	result := r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"name":       u.Name,
			"email":      u.Email,
			"password":   u.Password,
			"updated_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("update user %d: %w", u.ID, classifyError(result.Error))
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}

	u.UpdatedAt = now
	return nil
}

// Delete removes the user with the given ID.
func (r *userGorm) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&UserModel{})
	if result.Error != nil {
		return fmt.Errorf("delete user %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}
