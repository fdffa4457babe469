package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the CLI configuration loaded from environment variables.
type Config struct {
	// Provider selection
	Provider string
	Model    string

	// API keys
	AnthropicKey  string
	OpenAIKey     string
	OpenAIBaseURL string
	GoogleKey     string

	// Data layer
	CachePath     string
	CacheTTL      time.Duration
	StaleFallback bool

	// Agent config
	MaxIterations int
	Timeout       time.Duration
	LogLevel      string // debug, info, warn, error
}

// LoadConfig loads configuration from environment variables.
// It loads a .env file if present (silent fail if not found).
func LoadConfig() (*Config, error) {
	godotenv.Load() // Load .env file if present

	cfg := &Config{
		Provider:      getEnvOrDefault("GRUNNLAG_PROVIDER", "anthropic"),
		Model:         os.Getenv("GRUNNLAG_MODEL"),
		AnthropicKey:  os.Getenv("ANTHROPIC_API_KEY"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		GoogleKey:     os.Getenv("GOOGLE_API_KEY"),
		CachePath:     getEnvOrDefault("GRUNNLAG_CACHE", defaultCachePath()),
		CacheTTL:      getEnvDurationOrDefault("GRUNNLAG_CACHE_TTL", 24*time.Hour),
		StaleFallback: getEnvBoolOrDefault("GRUNNLAG_STALE_FALLBACK", true),
		MaxIterations: getEnvIntOrDefault("GRUNNLAG_MAX_ITERATIONS", 6),
		Timeout:       getEnvDurationOrDefault("GRUNNLAG_TIMEOUT", 2*time.Minute),
		LogLevel:      getEnvOrDefault("GRUNNLAG_LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case "openai":
		// A local OpenAI-compatible endpoint (Ollama, LM Studio) needs no key.
		if c.OpenAIKey == "" && c.OpenAIBaseURL == "" {
			return fmt.Errorf("OPENAI_API_KEY or OPENAI_BASE_URL is required for openai provider")
		}
	case "google":
		if c.GoogleKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for google provider")
		}
	default:
		return fmt.Errorf("unknown provider: %s (must be anthropic, openai, or google)", c.Provider)
	}
	return nil
}

func defaultCachePath() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "grunnlag", "datasets.db")
	}
	return "grunnlag-datasets.db"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
