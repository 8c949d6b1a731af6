// Package config provides environment-driven configuration for the service.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds everything the service needs to run. Values come from the
// environment (a .env file is loaded by the CLI before this is read).
type Config struct {
	Port        int    `validate:"gte=1,lte=65535"`
	DatabaseURL string `validate:"required"`

	GeminiAPIKey  string `validate:"required"`
	UploadBaseURL string `validate:"required,url"`
	StrongModel   string `validate:"required"`
	FastModel     string `validate:"required"`

	// Candidate-pool and shortlist bounds.
	PoolLimit     int `validate:"gte=1"`
	MinCandidates int `validate:"gte=1"`
	BatchSize     int `validate:"gte=1"`

	// Background trigger pool size.
	Workers int `validate:"gte=1"`

	RankTimeout   time.Duration `validate:"gt=0"`
	UploadTimeout time.Duration `validate:"gt=0"`

	LogJSON  bool
	LogDebug bool
}

// Load reads configuration from the environment, applying defaults for
// everything except credentials and the database URL.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          envInt("PORT", 8080),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		UploadBaseURL: envString("GEMINI_UPLOAD_BASE_URL", "https://generativelanguage.googleapis.com"),
		StrongModel:   envString("MATCH_STRONG_MODEL", "gemini-1.5-pro"),
		FastModel:     envString("MATCH_FAST_MODEL", "gemini-1.5-flash"),
		PoolLimit:     envInt("MATCH_POOL_LIMIT", 50),
		MinCandidates: envInt("MATCH_MIN_CANDIDATES", 3),
		BatchSize:     envInt("MATCH_BATCH_SIZE", 10),
		Workers:       envInt("MATCH_WORKERS", 4),
		RankTimeout:   envDuration("MATCH_RANK_TIMEOUT", 3*time.Minute),
		UploadTimeout: envDuration("MATCH_UPLOAD_TIMEOUT", 30*time.Second),
		LogJSON:       envBool("LOG_JSON", false),
		LogDebug:      envBool("LOG_DEBUG", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.MinCandidates > c.BatchSize {
		return fmt.Errorf("invalid configuration: MATCH_MIN_CANDIDATES (%d) exceeds MATCH_BATCH_SIZE (%d)", c.MinCandidates, c.BatchSize)
	}
	return nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
