package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "alice@example.com", "user", false, "professional", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), tok.Exp, 5*time.Second)

	claims, err := ParseAccessToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", claims.Email())
	assert.Equal(t, "user", claims.Role)
	assert.False(t, claims.IsAdmin)
	assert.Equal(t, "professional", claims.Plan)
}

func TestAccessTokenWithoutPlan(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "ops@example.com", "admin", true, "", 60)
	require.NoError(t, err)

	claims, err := ParseAccessToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
	assert.Empty(t, claims.Plan)
}

func TestParseAccessTokenExpired(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "alice@example.com", "user", false, "", -1)
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "alice@example.com", "user", false, "", 60)
	require.NoError(t, err)

	_, err = ParseAccessToken("another-secret", tok.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessTokenTampered(t *testing.T) {
	tok, err := NewAccessToken(testSecret, "alice@example.com", "user", false, "", 60)
	require.NoError(t, err)

	parts := strings.Split(tok.Token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = ParseAccessToken(testSecret, tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessTokenGarbage(t *testing.T) {
	_, err := ParseAccessToken(testSecret, "not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseAccessTokenMissingSubject(t *testing.T) {
	// Signed correctly but carries no sub claim.
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "user",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := raw.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, signed)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestParseAccessTokenRejectsNoneAlgorithm(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "alice@example.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAccessToken(testSecret, signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
