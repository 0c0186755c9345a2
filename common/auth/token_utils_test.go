package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khushipatel79/e-commerce-BE/common/auth"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := auth.NewTokenManager("test-secret", 15*time.Minute)

	tok, err := m.GenerateAccessToken("u1", "a@b.c", "admin")
	require.NoError(t, err)

	claims, err := m.ParseAndValidateToken(tok, auth.TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "a@b.c", claims.Email)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseRejectsWrongSecretAndType(t *testing.T) {
	m := auth.NewTokenManager("test-secret", time.Minute)
	other := auth.NewTokenManager("other-secret", time.Minute)

	tok, err := other.GenerateAccessToken("u1", "a@b.c", "user")
	require.NoError(t, err)
	_, err = m.ParseAndValidateToken(tok, auth.TokenTypeAccess)
	assert.Error(t, err)

	tok, err = m.GenerateAccessToken("u1", "a@b.c", "user")
	require.NoError(t, err)
	_, err = m.ParseAndValidateToken(tok, "refresh")
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	m := auth.NewTokenManager("test-secret", time.Minute)
	claims := jwt.MapClaims{
		"sub": "u1",
		"typ": auth.TokenTypeAccess,
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.ParseAndValidateToken(tok, auth.TokenTypeAccess)
	assert.Error(t, err)
}

func TestOpaqueTokensAreHashedDeterministically(t *testing.T) {
	m := auth.NewTokenManager("test-secret", time.Minute)

	raw, hash, err := m.NewRefreshToken()
	require.NoError(t, err)
	assert.Len(t, raw, 80)
	assert.Equal(t, hash, m.HashToken(raw))
	assert.NotEqual(t, raw, hash)

	raw2, _, err := m.NewResetToken()
	require.NoError(t, err)
	assert.Len(t, raw2, 64)
	assert.NotEqual(t, raw, raw2)
}
