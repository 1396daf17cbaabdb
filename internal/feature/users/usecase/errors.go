// Package usecase implements the business logic for the users feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned when no user matches the requested ID.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidPassword is returned when the password hasher rejects the
	// password itself, for example bcrypt's 72 byte limit.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrConstraintViolation is returned when storage rejects a write because a
	// column constraint was violated (value too long, duplicate key, NOT NULL).
	// It is still a storage error and is reported to clients as a server error.
	ErrConstraintViolation = errors.New("storage constraint violated")
)
