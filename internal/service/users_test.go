package service

import (
	"testing"

	"github.com/swpbansode/expense-tracker/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.NewDB(":memory:")
	require.NoError(t, err, "failed to create test database")
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSignupAndAuthenticate(t *testing.T) {
	users := NewUsers(newTestDB(t))

	created, err := users.Signup("alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)

	user, err := users.Authenticate("alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
}

func TestSignupTrimsUsername(t *testing.T) {
	users := NewUsers(newTestDB(t))

	created, err := users.Signup("  alice  ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)

	// Login with surrounding whitespace also works after trimming.
	_, err = users.Authenticate(" alice ", "hunter22")
	assert.NoError(t, err)
}

func TestSignupMissingFields(t *testing.T) {
	users := NewUsers(newTestDB(t))

	for _, tc := range []struct{ username, password string }{
		{"", "secret"},
		{"   ", "secret"},
		{"alice", ""},
		{"alice", "   "},
	} {
		_, err := users.Signup(tc.username, tc.password)
		assert.ErrorIs(t, err, ErrMissingFields, "username=%q password=%q", tc.username, tc.password)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	users := NewUsers(db)

	_, err := users.Signup("alice", "hunter22")
	require.NoError(t, err)

	_, err = users.Signup("alice", "other-password")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	count, err := db.UserCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAuthenticateFailuresIndistinguishable(t *testing.T) {
	users := NewUsers(newTestDB(t))

	_, err := users.Signup("alice", "hunter22")
	require.NoError(t, err)

	// Unknown user and wrong password yield the same error.
	_, unknownErr := users.Authenticate("bob", "hunter22")
	_, wrongPassErr := users.Authenticate("alice", "wrong")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr, wrongPassErr)
}
