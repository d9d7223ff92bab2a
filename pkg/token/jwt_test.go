package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	manager := NewJWTManager("test-secret", 24, 7)

	tokenStr, err := manager.GenerateToken(42, "ada")
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	claims, err := manager.VerifyToken(tokenStr)
	require.NoError(t, err)
	require.Equal(t, uint(42), claims.UserID)
	require.Equal(t, "ada", claims.Username)
	require.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestRefreshTokenHasLongerExpiry(t *testing.T) {
	manager := NewJWTManager("test-secret", 24, 7)

	refresh, err := manager.GenerateRefreshToken(42, "ada")
	require.NoError(t, err)

	claims, err := manager.VerifyToken(refresh)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	manager := NewJWTManager("secret-a", 24, 7)
	other := NewJWTManager("secret-b", 24, 7)

	tokenStr, err := manager.GenerateToken(1, "ada")
	require.NoError(t, err)

	_, err = other.VerifyToken(tokenStr)
	require.Error(t, err)
}

func TestVerifyTokenGarbage(t *testing.T) {
	manager := NewJWTManager("test-secret", 24, 7)

	_, err := manager.VerifyToken("not-a-jwt")
	require.Error(t, err)

	_, err = manager.VerifyToken("")
	require.Error(t, err)
}
