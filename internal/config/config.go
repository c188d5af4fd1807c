package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv     string
	Port       string
	AppBaseURL string

	DBDriver    string
	PostgresURL string
	SQLitePath  string

	SessionBackend       string
	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	SessionCookie        string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int

	LLMProvider       string
	OpenAIAPIKey      string
	OpenAIBaseURL     string
	OpenAITextModel   string
	OpenAIVisionModel string
	GeminiAPIKey      string
	GeminiModel       string

	PlanPrimaryTimeout time.Duration
	PlanMinimalTimeout time.Duration
	PlanReviewEnabled  bool
	PlanReviewTimeout  time.Duration
	PlanAutoApprove    bool

	MediaRoot            string
	WatermarkText        string
	WatermarkFontPath    string
	WatermarkLogoPath    string
	ImageGenerateTimeout time.Duration
	VisionTimeout        time.Duration
	ImageDownloadTimeout time.Duration

	JWTSecret         string
	JWTTTL            time.Duration
	StaffUsername     string
	StaffPasswordHash string

	SMTP             SMTPSettings
	StaffNotifyEmail string

	CORSAllowedOrigins []string

	OtelEnabled  bool
	OtelEndpoint string
	OtelInsecure bool

	// Warnings lists values that could not be parsed and were replaced by
	// their defaults.
	Warnings []string
}

type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	UseSSL   bool
}

// Enabled reports whether outgoing mail is configured.
func (s SMTPSettings) Enabled() bool { return s.Host != "" }

func (c *Config) IsProduction() bool {
	switch strings.ToLower(c.AppEnv) {
	case "prod", "production":
		return true
	}
	return false
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	get := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
		return def
	}

	c := &Config{}
	duration := func(k string, def time.Duration) time.Duration {
		raw := get(k, "")
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			c.Warnings = append(c.Warnings, fmt.Sprintf("%s=%q is not a positive duration, using %s", k, raw, def))
			return def
		}
		return d
	}
	integer := func(k string, def int) int {
		raw := get(k, "")
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.Warnings = append(c.Warnings, fmt.Sprintf("%s=%q is not an integer, using %d", k, raw, def))
			return def
		}
		return n
	}
	boolean := func(k string, def bool) bool {
		raw := get(k, "")
		if raw == "" {
			return def
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			c.Warnings = append(c.Warnings, fmt.Sprintf("%s=%q is not a boolean, using %t", k, raw, def))
			return def
		}
		return b
	}

	c.AppEnv = get("APP_ENV", "development")
	c.Port = get("PORT", "8080")
	c.AppBaseURL = strings.TrimRight(get("APP_BASE_URL", "http://localhost:8080"), "/")

	c.DBDriver = strings.ToLower(get("DB_DRIVER", "postgres"))
	c.PostgresURL = get("POSTGRES_URL", "")
	c.SQLitePath = get("SQLITE_PATH", "holou.db")

	c.SessionBackend = strings.ToLower(get("SESSION_BACKEND", "memory"))
	c.SessionTTL = duration("SESSION_TTL", 14*24*time.Hour)
	c.SessionSweepInterval = duration("SESSION_SWEEP_INTERVAL", 10*time.Minute)
	c.SessionCookie = get("SESSION_COOKIE", "holou_session")
	c.RedisAddr = get("REDIS_ADDR", "localhost:6379")
	c.RedisPassword = get("REDIS_PASSWORD", "")
	c.RedisDB = integer("REDIS_DB", 0)

	c.LLMProvider = strings.ToLower(get("LLM_PROVIDER", "openai"))
	c.OpenAIAPIKey = get("OPENAI_API_KEY", "")
	c.OpenAIBaseURL = get("OPENAI_BASE_URL", "")
	c.OpenAITextModel = get("OPENAI_TEXT_MODEL", "gpt-4o-mini")
	c.OpenAIVisionModel = get("OPENAI_VISION_MODEL", "gpt-4o")
	c.GeminiAPIKey = get("GEMINI_API_KEY", "")
	c.GeminiModel = get("GEMINI_MODEL", "gemini-1.5-flash")

	c.PlanPrimaryTimeout = duration("PLAN_PRIMARY_TIMEOUT", 175*time.Second)
	c.PlanMinimalTimeout = duration("PLAN_MINIMAL_TIMEOUT", 30*time.Second)
	c.PlanReviewEnabled = boolean("PLAN_REVIEW_ENABLED", false)
	c.PlanReviewTimeout = duration("PLAN_REVIEW_TIMEOUT", 60*time.Second)
	c.PlanAutoApprove = boolean("PLAN_AUTO_APPROVE", true)

	c.MediaRoot = get("MEDIA_ROOT", "media")
	c.WatermarkText = get("WATERMARK_TEXT", "Holou")
	c.WatermarkFontPath = get("WATERMARK_FONT_PATH", "")
	c.WatermarkLogoPath = get("WATERMARK_LOGO_PATH", "")
	c.ImageGenerateTimeout = duration("IMAGE_GENERATE_TIMEOUT", 120*time.Second)
	c.VisionTimeout = duration("VISION_TIMEOUT", 60*time.Second)
	c.ImageDownloadTimeout = duration("IMAGE_DOWNLOAD_TIMEOUT", 30*time.Second)

	c.JWTSecret = get("JWT_SECRET", "")
	c.JWTTTL = duration("JWT_TTL", 60*time.Minute)
	c.StaffUsername = get("STAFF_USERNAME", "")
	c.StaffPasswordHash = get("STAFF_PASSWORD_HASH", "")

	c.SMTP = SMTPSettings{
		Host:     get("SMTP_HOST", ""),
		Port:     integer("SMTP_PORT", 587),
		Username: get("SMTP_USERNAME", ""),
		Password: get("SMTP_PASSWORD", ""),
		From:     get("SMTP_FROM", ""),
		FromName: get("SMTP_FROM_NAME", "Holou"),
		UseSSL:   boolean("SMTP_USE_SSL", false),
	}
	c.StaffNotifyEmail = get("STAFF_NOTIFY_EMAIL", "")

	c.CORSAllowedOrigins = splitList(get("CORS_ALLOWED_ORIGINS", ""))

	c.OtelEnabled = boolean("OTEL_ENABLED", false)
	c.OtelEndpoint = get("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	c.OtelInsecure = boolean("OTEL_EXPORTER_OTLP_INSECURE", false)

	return c
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
