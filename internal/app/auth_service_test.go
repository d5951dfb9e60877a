package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"docuchat/internal/pkg/jwtutil"
)

const testJWTSecret = "test-secret"

func newAuthFixture() (*AuthService, *memUserStore, *mockRevoker) {
	users := &memUserStore{}
	revoker := &mockRevoker{}
	svc := NewAuthService(users, revoker, testJWTSecret, time.Hour)
	return svc, users, revoker
}

func TestRegisterSuccess(t *testing.T) {
	svc, users, _ := newAuthFixture()

	result, err := svc.Register(RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotNil(t, result.User)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, "alice@example.com", result.User.Email)

	require.Len(t, users.users, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.users[0].PasswordHash), []byte("password123")))

	claims, err := jwtutil.ParseToken(testJWTSecret, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "a@b.com", Password: "short"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Username: "alice", Email: "other@b.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Register(RegisterInput{Username: "bob", Email: "A@B.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestLoginSuccess(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	result, err := svc.Login(LoginInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "alice", result.User.Username)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Register(RegisterInput{Username: "alice", Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.Login(LoginInput{Username: "alice", Password: "wrongpassword"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Login(LoginInput{Username: "nobody", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _, revoker := newAuthFixture()

	err := svc.Logout(context.Background(), "token-123", time.Now().Add(time.Hour))
	require.NoError(t, err)

	revoked, err := revoker.IsRevoked(context.Background(), "token-123")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestLogoutRequiresTokenID(t *testing.T) {
	svc, _, _ := newAuthFixture()

	err := svc.Logout(context.Background(), "", time.Now())
	assert.ErrorIs(t, err, ErrInvalidInput)
}
