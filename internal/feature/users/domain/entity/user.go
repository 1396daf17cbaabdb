// Package entity defines the domain entities for the users feature.
package entity

import "time"

// User represents a user record managed by the service.
// It is a plain value type; column mapping lives in the adapters package.
type User struct {
	// ID is assigned by storage on creation and never changes afterwards.
	ID uint

	Name  string
	Email string

	// Password is stored exactly as handed over by the usecase layer.
	// Whether that value is a hash depends on the configured hasher.
	Password string

	// CreatedAt is set once when the record is created.
	CreatedAt time.Time

	// UpdatedAt equals CreatedAt right after creation and is refreshed on every update.
	UpdatedAt time.Time
}

// NewUser returns an unpersisted user with the required fields set.
// ID and timestamps stay zero until the user is created in storage.
func NewUser(name, email, password string) *User {
	return &User{
		Name:     name,
		Email:    email,
		Password: password,
	}
}

// IsPersisted reports whether the user has been assigned a storage ID.
func (u *User) IsPersisted() bool {
	return u.ID != 0
}
