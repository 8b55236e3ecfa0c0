package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s3cret", "u-1", "jdoe", "ENGINEER", 15*time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken("s3cret", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, "ENGINEER", claims.Role)
}

func TestParseAccessTokenRejects(t *testing.T) {
	good, err := NewAccessToken("s3cret", "u-1", "jdoe", "ADMIN", time.Minute)
	require.NoError(t, err)
	expired, err := NewAccessToken("s3cret", "u-1", "jdoe", "ADMIN", -time.Minute)
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "u-1", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"wrong secret": good.Token,
		"expired":      expired.Token,
		"alg none":     none,
		"garbage":      "not-a-jwt",
	} {
		secret := "s3cret"
		if name == "wrong secret" {
			secret = "other"
		}
		_, err := ParseAccessToken(secret, raw)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	r, err := NewRefreshToken(24 * time.Hour)
	require.NoError(t, err)
	assert.Len(t, r.Raw, 96)
	assert.Len(t, HashRefreshRaw(r.Raw), 64)
	assert.Equal(t, HashRefreshRaw(r.Raw), HashRefreshRaw(r.Raw))
	assert.NotEqual(t, r.Raw, HashRefreshRaw(r.Raw))
}

func TestPasswords(t *testing.T) {
	h, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, VerifyPassword(h, "correct horse"))
	assert.False(t, VerifyPassword(h, "wrong horse"))

	_, err = HashPassword("short", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrWeakPassword)
}
