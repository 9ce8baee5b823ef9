package service

import (
	"context"
	"testing"
	"time"

	"formaai/backend/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret-do-not-use"

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testJWTSecret, time.Hour)

	token, user, err := svc.Register(context.Background(), "Alice", "Alice@Example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)

	// Email is normalized; every account starts on the free tier; the hash
	// never leaves the service.
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, domain.TierFree, user.Tier)
	assert.Empty(t, user.PasswordHash)

	stored, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testJWTSecret, time.Hour)

	_, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "Mallory", "alice@example.com", "password456")
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testJWTSecret, time.Hour)

	_, registered, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	token, user, err := svc.Login(context.Background(), "alice@example.com", "password123")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	// The token carries the uid and tier claims the middleware relies on.
	claims := struct {
		UserID string      `json:"uid"`
		Tier   domain.Tier `json:"tier"`
		jwt.RegisteredClaims
	}{}
	parsed, err := jwt.ParseWithClaims(token, &claims, func(tok *jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.TierFree, claims.Tier)
	assert.Equal(t, "formaai", claims.Issuer)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testJWTSecret, time.Hour)

	_, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "alice@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), testJWTSecret, time.Hour)

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "password123")
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLogin_CaseInsensitiveEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testJWTSecret, time.Hour)

	_, _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, user, err := svc.Login(context.Background(), "ALICE@Example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
}
