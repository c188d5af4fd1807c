package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PLAN_PRIMARY_TIMEOUT", "")
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("IMAGE_GENERATE_TIMEOUT", "")
	t.Setenv("VISION_TIMEOUT", "")
	t.Setenv("SESSION_SWEEP_INTERVAL", "")

	c := Load()

	assert.Equal(t, 175*time.Second, c.PlanPrimaryTimeout)
	assert.Equal(t, 30*time.Second, c.PlanMinimalTimeout)
	assert.Equal(t, "openai", c.LLMProvider)
	assert.True(t, c.PlanAutoApprove)
	assert.Equal(t, 120*time.Second, c.ImageGenerateTimeout)
	assert.Equal(t, 60*time.Second, c.VisionTimeout)
	assert.Equal(t, 10*time.Minute, c.SessionSweepInterval)
	assert.False(t, c.SMTP.Enabled())
}

func TestLoadOverridesAndWarnings(t *testing.T) {
	t.Setenv("PLAN_MINIMAL_TIMEOUT", "12s")
	t.Setenv("PLAN_PRIMARY_TIMEOUT", "soon")
	t.Setenv("REDIS_DB", "two")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("APP_ENV", "production")

	c := Load()

	assert.Equal(t, 12*time.Second, c.PlanMinimalTimeout)
	assert.Equal(t, 175*time.Second, c.PlanPrimaryTimeout)
	assert.Equal(t, 0, c.RedisDB)
	assert.Len(t, c.Warnings, 2)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSAllowedOrigins)
	assert.True(t, c.IsProduction())
}
