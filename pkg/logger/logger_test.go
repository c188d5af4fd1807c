package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKVsRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{
		"stage", "primary",
		"api_key", "sk-live",
		"Email", "a@b.co",
		"dangling",
	})

	assert.Equal(t, []interface{}{
		"stage", "primary",
		"api_key", "[REDACTED]",
		"Email", "[REDACTED]",
		"dangling",
	}, got)
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"development", "production"} {
		l, err := New(mode)
		assert.NoError(t, err, mode)
		assert.NotNil(t, l.SugaredLogger)
	}
}
