package service

import (
	"errors"

	"github.com/swpbansode/expense-tracker/internal/storage"
)

var (
	// ErrInvalidAmount is returned when an amount does not parse as a
	// finite number.
	ErrInvalidAmount = errors.New("service: invalid amount format")
	// ErrMissingFields is returned when signup input is empty after
	// trimming.
	ErrMissingFields = errors.New("service: missing username or password")
	// ErrInvalidCredentials is returned on any login failure. Unknown
	// username and wrong password are indistinguishable.
	ErrInvalidCredentials = errors.New("service: invalid credentials")

	// ErrUsernameTaken and ErrNotFound are re-exported storage sentinels
	// so callers only need to know this package.
	ErrUsernameTaken = storage.ErrUsernameTaken
	ErrNotFound      = storage.ErrNotFound
)
