package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthenticator(accessExp, refreshExp time.Duration) *JWTAuthenticator {
	return NewJWTAuthenticator("access-secret", "refresh-secret", accessExp, refreshExp, "gigbay", "gigbay")
}

func TestGenerateAndValidateTokens(t *testing.T) {
	a := newTestAuthenticator(time.Hour, 24*time.Hour)

	access, refresh, err := a.GenerateTokens(42, "business")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	token, err := a.ValidateAccessToken(access)
	require.NoError(t, err)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.EqualValues(t, 42, claims["sub"])
	assert.Equal(t, "business", claims["role"])
	assert.Equal(t, "gigbay", claims["iss"])

	refreshed, err := a.ValidateRefreshToken(refresh)
	require.NoError(t, err)

	refreshClaims, ok := refreshed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.EqualValues(t, 42, refreshClaims["sub"])
	// The refresh token carries no role; the stored role is reloaded instead.
	assert.NotContains(t, refreshClaims, "role")
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	a := newTestAuthenticator(time.Hour, 24*time.Hour)

	access, refresh, err := a.GenerateTokens(7, "customer")
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(refresh)
	assert.Error(t, err)

	_, err = a.ValidateRefreshToken(access)
	assert.Error(t, err)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	a := newTestAuthenticator(-time.Minute, -time.Minute)

	access, refresh, err := a.GenerateTokens(7, "customer")
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(access)
	assert.Error(t, err)

	_, err = a.ValidateRefreshToken(refresh)
	assert.Error(t, err)
}

func TestForeignSecretIsRejected(t *testing.T) {
	a := newTestAuthenticator(time.Hour, 24*time.Hour)
	other := NewJWTAuthenticator("other-secret", "other-refresh", time.Hour, 24*time.Hour, "gigbay", "gigbay")

	access, _, err := other.GenerateTokens(7, "customer")
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(access)
	assert.Error(t, err)
}
