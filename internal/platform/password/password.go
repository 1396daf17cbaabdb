// Package password provides the password hashers selectable through PASSWORD_HASHER.
package password

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher names accepted by New.
const (
	NamePlain  = "plain"
	NameBcrypt = "bcrypt"
)

// Hasher turns a client-supplied password into its stored form.
type Hasher interface {
	Hash(password string) (string, error)
}

// InputError marks a password the hasher refuses to accept, as opposed to a
// failure of the hasher itself.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }

func (e *InputError) Unwrap() error { return e.Err }

// InvalidInput always reports true.
func (e *InputError) InvalidInput() bool { return true }

// Plain stores passwords exactly as received.
type Plain struct{}

// Hash returns password unchanged.
func (Plain) Hash(password string) (string, error) {
	return password, nil
}

// Bcrypt stores bcrypt hashes.
type Bcrypt struct {
	Cost int
}

// Hash returns the bcrypt hash of password. Zero Cost means bcrypt.DefaultCost.
func (b Bcrypt) Hash(password string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", &InputError{Err: err}
	}
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hashed), nil
}

// New returns the hasher registered under name. An empty name selects Plain.
func New(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NamePlain:
		return Plain{}, nil
	case NameBcrypt:
		return Bcrypt{}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}
