// Package config loads application configuration from the environment,
// with optional .env file support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the service needs at startup.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
	Cron        CronConfig
	Storage     StorageConfig
	Letters     LetterConfig
}

// CronConfig controls the in-process daily autopilot scheduler.
type CronConfig struct {
	Enabled  bool
	Schedule string // standard cron expression
}

// StorageConfig selects where generated letters are stored.
// Driver "local" writes to disk; "r2" uploads to Cloudflare R2.
type StorageConfig struct {
	Driver       string
	LocalDir     string
	LocalBaseURL string
	R2AccountID  string
	R2AccessKey  string
	R2SecretKey  string
	R2Bucket     string
	R2PublicURL  string
}

// LetterConfig tunes PDF rendering.
type LetterConfig struct {
	// ArabicFontPath points at a UTF-8 TTF used for Arabic letters.
	// When empty the renderer falls back to the built-in core font.
	ArabicFontPath string
}

// Load reads configuration from the environment. A .env file, if present,
// is merged in first (it never overrides real environment variables).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Cron: CronConfig{
			Enabled:  getenvBool("AUTOPILOT_CRON_ENABLED", true),
			Schedule: getenv("AUTOPILOT_CRON_SCHEDULE", "0 3 * * *"),
		},
		Storage: StorageConfig{
			Driver:       getenv("STORAGE_DRIVER", "local"),
			LocalDir:     getenv("STORAGE_LOCAL_DIR", "./data/letters"),
			LocalBaseURL: getenv("STORAGE_LOCAL_BASE_URL", "http://localhost:8080/files"),
			R2AccountID:  os.Getenv("R2_ACCOUNT_ID"),
			R2AccessKey:  os.Getenv("R2_ACCESS_KEY_ID"),
			R2SecretKey:  os.Getenv("R2_SECRET_ACCESS_KEY"),
			R2Bucket:     os.Getenv("R2_BUCKET"),
			R2PublicURL:  os.Getenv("R2_PUBLIC_URL"),
		},
		Letters: LetterConfig{
			ArabicFontPath: os.Getenv("LETTER_ARABIC_FONT_PATH"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Storage.Driver == "r2" {
		if cfg.Storage.R2AccountID == "" || cfg.Storage.R2AccessKey == "" ||
			cfg.Storage.R2SecretKey == "" || cfg.Storage.R2Bucket == "" {
			return nil, fmt.Errorf("R2 storage selected but R2_* variables are incomplete")
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
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
