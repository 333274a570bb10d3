package utils

import (
	"testing"
	"time"

	"github.com/gustoapp/auth-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-that-is-at-least-32-characters-long"

func newTestManager() *JWTManager {
	return NewJWTManager(testSecret, 30*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.DecodeToken(token, domain.TokenKindAccess)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, domain.TokenKindAccess, claims.Kind)
	assert.Greater(t, claims.Exp, claims.Iat)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	claims, err := m.DecodeToken(token, domain.TokenKindRefresh)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.TokenKindRefresh, claims.Kind)
	assert.Empty(t, claims.Role)
}

func TestKindConfusion(t *testing.T) {
	m := newTestManager()

	accessToken, err := m.GenerateAccessToken("user-1", domain.RoleUser)
	require.NoError(t, err)
	refreshToken, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	// An access token must never validate as a refresh token, and vice versa
	_, err = m.DecodeToken(accessToken, domain.TokenKindRefresh)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = m.DecodeToken(refreshToken, domain.TokenKindAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	m := NewJWTManager(testSecret, -time.Minute, -time.Minute)

	accessToken, err := m.GenerateAccessToken("user-1", domain.RoleUser)
	require.NoError(t, err)
	refreshToken, err := m.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = m.DecodeToken(accessToken, domain.TokenKindAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = m.DecodeToken(refreshToken, domain.TokenKindRefresh)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewJWTManager("another-secret-key-that-is-32-characters-x", 30*time.Minute, 7*24*time.Hour)

	token, err := m.GenerateAccessToken("user-1", domain.RoleUser)
	require.NoError(t, err)

	_, err = other.DecodeToken(token, domain.TokenKindAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestMalformedToken(t *testing.T) {
	m := newTestManager()

	for _, tokenString := range []string{"", "garbage", "a.b.c", "header.payload"} {
		_, err := m.DecodeToken(tokenString, domain.TokenKindAccess)
		assert.ErrorIs(t, err, domain.ErrInvalidToken, "token %q", tokenString)
	}
}

func TestTamperedToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("user-1", domain.RoleUser)
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = m.DecodeToken(tampered, domain.TokenKindAccess)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
