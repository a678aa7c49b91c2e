package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration, sourced from environment
// variables with optional .env support.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// Model provider settings. APIKey empty means every model call
	// fails and callers fall back to canned responses.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Persistence and uploads.
	DataFile   string
	UploadsDir string
	RedisURL   string

	// Base URL used to build public links to uploaded files.
	PublicBaseURL string
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8000"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		LogLevel:      parseLogLevel(getEnv("LOG_LEVEL", "info")),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		DataFile:      getEnv("DATA_FILE", "users_db.json"),
		UploadsDir:    getEnv("UPLOADS_DIR", "uploads"),
		RedisURL:      os.Getenv("REDIS_URL"),
	}
	cfg.PublicBaseURL = getEnv("PUBLIC_BASE_URL", fmt.Sprintf("http://localhost:%s", cfg.Port))

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
