package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/log"
	"fintrack/internal/storage"
)

type Config struct {
	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// Seeding
	SeedMode   string
	SeedRandom uint64

	// Dashboard
	TrendMonths       int
	RenewalWindowDays int

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),

		SeedMode:   getEnv("SEED_MODE", string(storage.SeedMinimal)),
		SeedRandom: getEnvUint64("SEED_RANDOM", 42),

		TrendMonths:       getEnvInt("TREND_MONTHS", 6),
		RenewalWindowDays: getEnvInt("RENEWAL_WINDOW_DAYS", 7),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// RenewalWindow is RenewalWindowDays as a duration.
func (c *Config) RenewalWindow() time.Duration {
	return time.Duration(c.RenewalWindowDays) * 24 * time.Hour
}

// Validate validates the configuration and returns an error listing every problem.
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"sqlite", "memory"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if !storage.SeedMode(c.SeedMode).IsValid() {
		errors = append(errors, fmt.Sprintf("invalid seed mode '%s': must be '%s' or '%s'", c.SeedMode, storage.SeedMinimal, storage.SeedDemo))
	}

	if c.TrendMonths < 1 || c.TrendMonths > 120 {
		errors = append(errors, fmt.Sprintf("invalid trend months %d: must be between 1 and 120", c.TrendMonths))
	}

	if c.RenewalWindowDays < 1 || c.RenewalWindowDays > 366 {
		errors = append(errors, fmt.Sprintf("invalid renewal window %d days: must be between 1 and 366", c.RenewalWindowDays))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// StorageOptions maps the seeding settings onto store options.
func (c *Config) StorageOptions(logger *log.Logger) storage.Options {
	return storage.Options{
		SeedMode:   storage.SeedMode(c.SeedMode),
		SeedRandom: c.SeedRandom,
		Logger:     logger,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvUint64(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if u, err := strconv.ParseUint(value, 10, 64); err == nil {
			return u
		}
	}
	return defaultValue
}
