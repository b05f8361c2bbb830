package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(newTestDB(t), nopLogger(), "test-secret", "1h")
}

func TestRegisterAndLogin(t *testing.T) {
	s := newAuthService(t)

	user, err := s.Register("editor@example.edu", "hunter22", "", "editor")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "editor", user.Role)
	// The stored password is a bcrypt hash, never the plaintext.
	assert.NotEqual(t, "hunter22", user.Password)

	token, err := s.Login("editor@example.edu", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "editor@example.edu", claims.Email)
	assert.Equal(t, "editor", claims.Role)
}

func TestRegisterValidation(t *testing.T) {
	s := newAuthService(t)

	_, err := s.Register("", "", "", "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Errors, 3)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	s := newAuthService(t)

	_, err := s.Register("dup@example.edu", "pw1", "", "admin")
	require.NoError(t, err)

	_, err = s.Register("dup@example.edu", "pw2", "", "editor")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newAuthService(t)

	_, err := s.Register("who@example.edu", "correct", "", "editor")
	require.NoError(t, err)

	_, err = s.Login("who@example.edu", "wrong")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = s.Login("nobody@example.edu", "whatever")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	s := newAuthService(t)

	_, err := s.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Tokens signed with a different secret are rejected too.
	other := NewAuthService(s.DB, nopLogger(), "other-secret", "1h")
	_, err = other.Register("x@example.edu", "pw", "", "editor")
	require.NoError(t, err)
	token, err := other.Login("x@example.edu", "pw")
	require.NoError(t, err)

	_, err = s.VerifyToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
