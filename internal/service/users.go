package service

import (
	"strings"

	"github.com/swpbansode/expense-tracker/internal/auth"
	"github.com/swpbansode/expense-tracker/internal/models"
	"github.com/swpbansode/expense-tracker/internal/storage"
)

// Users handles account registration and authentication.
type Users struct {
	db *storage.DB
}

// NewUsers creates a user service backed by db.
func NewUsers(db *storage.DB) *Users {
	return &Users{db: db}
}

// Signup registers a new account. The username is trimmed; an empty
// username or password yields ErrMissingFields, a duplicate username
// ErrUsernameTaken.
func (s *Users) Signup(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingFields
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return s.db.CreateUser(username, hash)
}

// Authenticate verifies a username/password pair. Any failure, whether the
// user does not exist or the password is wrong, yields
// ErrInvalidCredentials.
func (s *Users) Authenticate(username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)

	user, err := s.db.GetUserByUsername(username)
	if err != nil || !auth.CheckPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// ByID fetches a user by id.
func (s *Users) ByID(id int64) (*models.User, error) {
	return s.db.GetUserByID(id)
}
