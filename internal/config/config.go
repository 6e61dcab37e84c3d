package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// VerifyToken is the shared secret echoed back during the webhook
	// verification handshake.
	VerifyToken string

	// GraphAPIURL is the base URL for Meta Graph API message sends.
	GraphAPIURL string

	DatabaseURL string // PostgreSQL; when empty the SQLite backend is used
	SQLitePath  string
	RedisURL    string // optional; enables API rate limiting
}

const defaultGraphAPIURL = "https://graph.facebook.com/v17.0"

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "3001"),
		Env:         getEnv("ENV", "development"),
		VerifyToken: getEnv("VERIFY_TOKEN", "verify_token_example"),
		GraphAPIURL: getEnv("GRAPH_API_URL", defaultGraphAPIURL),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getEnv("SQLITE_PATH", "./data/inbox.db"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}

	// In production, require an explicit verification secret
	if cfg.Env == "production" && os.Getenv("VERIFY_TOKEN") == "" {
		panic("VERIFY_TOKEN is required in production")
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
