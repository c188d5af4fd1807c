package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractURLAndTitle(t *testing.T) {
	tests := []struct {
		in, url, title string
	}{
		{"React Guide - https://react.dev/learn", "https://react.dev/learn", "React Guide"},
		{"MDN - Guide - https://developer.mozilla.org/x y", "https://developer.mozilla.org/x", "MDN"},
		{"https://go.dev/tour only", "https://go.dev/tour", "only"},
		{"Read the handbook", "", "Read the handbook"},
		{"", "", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.url, ExtractURL(tt.in), tt.in)
		assert.Equal(t, tt.title, ExtractTitle(tt.in), tt.in)
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héllo", TruncateRunes("héllo wörld", 5))
	assert.Equal(t, "short", TruncateRunes("short", 50))
	assert.Equal(t, "", TruncateRunes("abc", 0))
	assert.Equal(t, 11, RuneLen("héllo wörld"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "ui-ux-design", Slugify("UI/UX Design"))
	assert.Equal(t, "backend-development", Slugify("  Backend Development "))
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)

	token, err := issuer.CreateToken("staff", "staff")
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "staff", claims.Role)
	assert.Equal(t, "staff", claims.Subject)

	_, err = NewTokenIssuer("other-secret", time.Minute).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.CreateToken("staff", "staff")
	require.NoError(t, err)

	_, err = NewTokenIssuer("test-secret", time.Minute).ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenIssuerWithoutSecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Minute).CreateToken("staff", "staff")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NoError(t, ComparePasswords(hash, "hunter2"))
	assert.Error(t, ComparePasswords(hash, "hunter3"))
}

func TestFormatUnix(t *testing.T) {
	assert.Equal(t, "", FormatUnix(0))
	assert.Equal(t, "2023-11-14T22:13:20Z", FormatUnix(1_700_000_000))
	assert.Equal(t, "", FormatUnixPtr(nil))
}
