package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	m := NewJWTManager("test-secret", "streamguide")

	token, err := m.GenerateToken("user-1", "member", "access", time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "member", claims.Role)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, "streamguide", claims.Issuer)
}

func TestGenerateTokenPair(t *testing.T) {
	m := NewJWTManager("test-secret", "streamguide")

	pair, err := m.GenerateTokenPair("user-2", "admin", time.Minute, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	access, err := m.ParseToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "access", access.Type)
	assert.Equal(t, "admin", access.Role)

	refresh, err := m.ParseToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "refresh", refresh.Type)
	assert.Equal(t, "user-2", refresh.UserID)
}

func TestParseTokenExpired(t *testing.T) {
	m := NewJWTManager("test-secret", "streamguide")

	token, err := m.GenerateToken("user-3", "member", "access", -time.Minute)
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseTokenWrongSecret(t *testing.T) {
	m := NewJWTManager("test-secret", "streamguide")
	other := NewJWTManager("another-secret", "streamguide")

	token, err := m.GenerateToken("user-4", "member", "access", time.Minute)
	require.NoError(t, err)

	_, err = other.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", "streamguide")

	_, err := m.ParseToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
