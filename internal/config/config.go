package config

import (
	"os"
	"strconv"
	"strings"
)

// Config keeps runtime settings for the server.
type Config struct {
	Port          string
	DatabaseURL   string
	RetentionDays int
	Development   bool
}

// Load reads configuration from environment variables with sane defaults.
// JWT_SECRET is deliberately not read here; auth.InitJWTSecret owns it and
// fails fast at startup when it is absent.
func Load() Config {
	cfg := Config{
		Port:          strings.TrimSpace(os.Getenv("PORT")),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RetentionDays: parseDays(strings.TrimSpace(os.Getenv("ARCHIVED_RETENTION_DAYS"))),
		Development:   os.Getenv("APP_ENV") != "production",
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskboard.db"
	}

	if cfg.RetentionDays == 0 {
		cfg.RetentionDays = 30
	}

	return cfg
}

func parseDays(raw string) int {
	if raw == "" {
		return 0
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return 0
	}
	return days
}
