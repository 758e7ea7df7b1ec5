package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// PlaceholderAPIKey is the sample value shipped in .env templates. It never counts as a credential.
const PlaceholderAPIKey = "your-openai-api-key-here"

const defaultCORSOrigins = "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173"

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string `validate:"oneof=dev local staging production"`
	Version         string `validate:"required"`
	CORSAllowOrigin []string

	StoreDriver string `validate:"oneof=memory postgres sqlite"`
	DatabaseURL string `validate:"required_if=StoreDriver postgres"`
	SQLitePath  string `validate:"required_if=StoreDriver sqlite"`

	LLMProvider     string `validate:"oneof=openai gemini"`
	LLMModel        string `validate:"required"`
	OpenAIAPIKey    string
	GeminiAPIKey    string
	AnalysisTimeout time.Duration `validate:"gt=0"`

	MaxUploadBytes  int64   `validate:"gt=0"`
	UploadRateLimit float64 `validate:"gte=0"`
	UploadRateBurst int     `validate:"gte=0"`

	ArchiveStore  string `validate:"oneof=none local s3"`
	LocalStoreDir string `validate:"required_if=ArchiveStore local"`
	AWSRegion     string
	S3Bucket      string `validate:"required_if=ArchiveStore s3"`
	S3Prefix      string
	SSEKMSKeyID   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files; variables already set in the environment win.
	if files := existing(".env", "cmd/.env"); len(files) > 0 {
		_ = godotenv.Load(files...)
	}

	provider := normalizeProvider(getEnv("LLM_PROVIDER", "openai"))
	return Config{
		Port:            getEnv("PORT", "8000"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		Version:         getEnv("APP_VERSION", "1.0.0"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", defaultCORSOrigins)),
		StoreDriver:     normalizeStoreDriver(getEnv("STORE_DRIVER", "sqlite")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		SQLitePath:      getEnv("SQLITE_PATH", "./resume_screening.db"),
		LLMProvider:     provider,
		LLMModel:        getEnv("LLM_MODEL", defaultModel(provider)),
		OpenAIAPIKey:    strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		GeminiAPIKey:    strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		AnalysisTimeout: getEnvDuration("ANALYSIS_TIMEOUT", 60*time.Second),
		MaxUploadBytes:  getEnvInt64("MAX_UPLOAD_BYTES", 10<<20),
		UploadRateLimit: getEnvFloat("UPLOAD_RATE_LIMIT_RPS", 0),
		UploadRateBurst: int(getEnvInt64("UPLOAD_RATE_LIMIT_BURST", 5)),
		ArchiveStore:    normalizeArchiveStore(getEnv("ARCHIVE_STORE", "none")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
	}
}

// Validate checks cross-field requirements such as DATABASE_URL for the postgres driver.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// AnalysisAPIKey returns the credential for the configured provider, or "" when it is
// missing or still the template placeholder.
func (c Config) AnalysisAPIKey() string {
	key := c.OpenAIAPIKey
	if c.LLMProvider == "gemini" {
		key = c.GeminiAPIKey
	}
	if key == PlaceholderAPIKey {
		return ""
	}
	return key
}

func existing(paths ...string) []string {
	var out []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	return out
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt64(key string, def int64) int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return def
	}
	return v
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreDriver(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "postgresql", "pg":
		return "postgres"
	case "memory", "mem":
		return "memory"
	default:
		return "sqlite"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return "gemini"
	default:
		return "openai"
	}
}

func normalizeArchiveStore(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "local":
		return "local"
	default:
		return "none"
	}
}

func defaultModel(provider string) string {
	if provider == "gemini" {
		return "gemini-2.5-flash"
	}
	return "gpt-3.5-turbo"
}
