package usecase

import (
	"context"
	"errors"
	"fmt"

	"user_backend/internal/feature/users/domain/entity"
)

// UserRepository abstracts the persistence layer for user entities.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UserRepository interface {
	// Create persists a new user and assigns its ID and timestamps.
	Create(ctx context.Context, user *entity.User) error

	// FindAll returns every stored user ordered by ID. An empty table yields an empty slice.
	FindAll(ctx context.Context) ([]entity.User, error)

	// FindByID returns the user with the given ID, or (nil, nil) when no row matches.
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// Update writes the mutable fields of an existing user and refreshes UpdatedAt.
	// It returns ErrUserNotFound when no row matches user.ID.
	Update(ctx context.Context, user *entity.User) error

	// Delete removes the user with the given ID.
	// It returns ErrUserNotFound when no row matches.
	Delete(ctx context.Context, id uint) error
}

// PasswordHasher turns the password received from a client into the value
// that gets stored. Errors that implement InvalidInput() bool and report true
// are treated as client mistakes.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// hashPassword runs the hasher and tags rejected input with ErrInvalidPassword.
func (u *UserUsecase) hashPassword(password string) (string, error) {
	stored, err := u.hasher.Hash(password)
	if err == nil {
		return stored, nil
	}
	var inputErr interface{ InvalidInput() bool }
	if errors.As(err, &inputErr) && inputErr.InvalidInput() {
		return "", fmt.Errorf("%w: %v", ErrInvalidPassword, err)
	}
	return "", fmt.Errorf("failed to hash password: %w", err)
}

// UserUsecase provides the CRUD operations behind the /users resource.
type UserUsecase struct {
	repo   UserRepository
	hasher PasswordHasher
}

// NewUserUsecase creates a new UserUsecase with the given repository and hasher.
func NewUserUsecase(repo UserRepository, hasher PasswordHasher) *UserUsecase {
	return &UserUsecase{repo: repo, hasher: hasher}
}

// ListUsers returns all stored users.
func (u *UserUsecase) ListUsers(ctx context.Context) ([]entity.User, error) {
	return u.repo.FindAll(ctx)
}

// CreateUser builds a user from the given fields and persists it.
func (u *UserUsecase) CreateUser(ctx context.Context, name, email, password string) (*entity.User, error) {
	stored, err := u.hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := entity.NewUser(name, email, stored)
	if err := u.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns the user with the given ID or ErrUserNotFound.
func (u *UserUsecase) GetUser(ctx context.Context, id uint) (*entity.User, error) {
	user, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateUser fetches the user, replaces its fields and persists the result.
func (u *UserUsecase) UpdateUser(ctx context.Context, id uint, name, email, password string) (*entity.User, error) {
	user, err := u.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	stored, err := u.hashPassword(password)
	if err != nil {
		return nil, err
	}
	user.Name = name
	user.Email = email
	user.Password = stored
	if err := u.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the user with the given ID.
func (u *UserUsecase) DeleteUser(ctx context.Context, id uint) error {
	return u.repo.Delete(ctx, id)
}
