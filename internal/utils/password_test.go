package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Sup3r$ecret", 4)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, VerifyPassword(hash, "Sup3r$ecret"))
	assert.False(t, VerifyPassword(hash, "sup3r$ecret"))
}

func TestVerifyPasswordOrDummy(t *testing.T) {
	hash, err := HashPassword("Sup3r$ecret", 4)
	require.NoError(t, err)

	assert.True(t, VerifyPasswordOrDummy(hash, "Sup3r$ecret"))
	assert.False(t, VerifyPasswordOrDummy(hash, "wrong"))
	// No stored hash must always fail, even with the value the dummy hash
	// was generated from guessed correctly.
	assert.False(t, VerifyPasswordOrDummy("", "Sup3r$ecret"))
	assert.False(t, VerifyPasswordOrDummy("", ""))
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Abcdef1$", true},
		{"valid long", "Str0ng&Password!", true},
		{"too short", "Ab1$xyz", false},
		{"no uppercase", "abcdef1$", false},
		{"no lowercase", "ABCDEF1$", false},
		{"no digit", "Abcdefg$", false},
		{"no symbol", "Abcdefg1", false},
		{"disallowed char", "Abcdef1$ ", false},
		{"disallowed symbol", "Abcdef1#", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, reason := ValidatePassword(tc.password)
			assert.Equal(t, tc.ok, ok)
			if !tc.ok {
				assert.NotEmpty(t, reason)
			}
		})
	}
}
