// Package config handles application configuration.
//
// Go Pattern: Configuration via environment variables with sensible defaults.
// Values are resolved in three layers: built-in defaults, then an optional
// YAML file named by CONFIG_FILE, then environment variables. Each layer
// only overrides what it sets.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReportDir is where rendered reports are written and served from.
const ReportDir = "./reports"

// Config holds all application configuration.
// Go Pattern: Struct tags drive the YAML overlay. Secrets are tagged `yaml:"-"`
// so they can only come from the environment.
type Config struct {
	// Server settings
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"` // "debug", "release", or "test"

	// OpenAI settings (analysis completions)
	OpenAIAPIKey  string `yaml:"-"`
	OpenAIBaseURL string `yaml:"openai_base_url"` // Optional: OpenAI-compatible gateway

	// CORS — "*" allows every origin
	AllowedOrigins []string `yaml:"cors_origins"`

	// Rate limiting for the analysis endpoints
	AnalyzeRateLimit int `yaml:"analyze_rate_limit"` // Requests per hour per client IP, 0 disables

	// Report webhooks
	WebhookURLs   []string `yaml:"webhook_urls"`
	WebhookSecret string   `yaml:"-"`

	// Optional report mirror
	Minio MinioConfig `yaml:"minio"`
}

// MinioConfig configures the optional object-storage mirror.
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
	AccessKey string `yaml:"-"`
	SecretKey string `yaml:"-"`
}

// Enabled reports whether a MinIO endpoint is configured.
func (m MinioConfig) Enabled() bool {
	return m.Endpoint != ""
}

// Load reads configuration with sensible defaults.
//
// Go Pattern: Functions that can fail return (value, error). This is Go's
// alternative to exceptions — the caller MUST handle the error.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             "8080",
		GinMode:          "debug",
		AllowedOrigins:   []string{"*"}, // any origin, matching the browser client's expectations
		AnalyzeRateLimit: 60,
	}

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)

	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)

	cfg.AllowedOrigins = getEnvList("CORS_ORIGIN", cfg.AllowedOrigins)
	cfg.AnalyzeRateLimit = getEnvInt("ANALYZE_RATE_LIMIT", cfg.AnalyzeRateLimit)

	cfg.WebhookURLs = getEnvList("REPORT_WEBHOOK_URLS", cfg.WebhookURLs)
	cfg.WebhookSecret = getEnv("REPORT_WEBHOOK_SECRET", "")

	cfg.Minio.Endpoint = getEnv("MINIO_ENDPOINT", cfg.Minio.Endpoint)
	cfg.Minio.Bucket = getEnv("MINIO_BUCKET", cfg.Minio.Bucket)
	cfg.Minio.Region = getEnv("MINIO_REGION", cfg.Minio.Region)
	cfg.Minio.UseSSL = getEnvBool("MINIO_USE_SSL", cfg.Minio.UseSSL)
	cfg.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", "")
	cfg.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", "")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile overlays values from a YAML file onto cfg.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid GIN_MODE %q; use debug, release or test", c.GinMode)
	}

	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}

	if c.Minio.Enabled() {
		if c.Minio.Bucket == "" {
			return fmt.Errorf("MINIO_BUCKET must be set when MINIO_ENDPOINT is set")
		}
		if c.Minio.AccessKey == "" || c.Minio.SecretKey == "" {
			return fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY must be set when MINIO_ENDPOINT is set")
		}
	}

	return nil
}

// getEnv reads an environment variable with a fallback default.
// Go Pattern: Small helper functions are idiomatic. Go favors simple,
// composable functions over complex frameworks.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvInt reads an integer environment variable with a fallback.
func getEnvInt(key string, fallback int) int {
	str := getEnv(key, "")
	if str == "" {
		return fallback
	}
	// strconv.Atoi converts a string to an int — like parseInt() in JavaScript
	val, err := strconv.Atoi(str)
	if err != nil {
		return fallback
	}
	return val
}

// getEnvBool reads a boolean environment variable ("true", "1", ...).
func getEnvBool(key string, fallback bool) bool {
	val, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return val
}

// getEnvList reads a comma-separated environment variable.
// Blank entries are dropped; an unset variable keeps the fallback.
func getEnvList(key string, fallback []string) []string {
	str, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(str, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
