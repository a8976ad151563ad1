package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DatabaseURL    string
	Port           int
	LogLevel       string
	DevMode        bool
	ExportSchedule string // cron spec for the nightly CSV export job
	ExportDir      string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		Port:           getEnvAsInt("PORT", getEnvAsInt("FLASK_PORT", 5000)),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DevMode:        getEnvAsBool("DEV_MODE", false),
		ExportSchedule: getEnv("EXPORT_SCHEDULE", "@daily"),
		ExportDir:      getEnv("EXPORT_DIR", "./exports"),
	}

	// DATABASE_URL wins; otherwise assemble from the PG* parts
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = buildDatabaseURL()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL (or PGHOST/PGDATABASE/PGUSER) is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}

// buildDatabaseURL assembles a connection string from the PG* variables.
func buildDatabaseURL() string {
	host := getEnv("PGHOST", "")
	if host == "" {
		return ""
	}

	user := getEnv("PGUSER", "postgres")
	dbname := getEnv("PGDATABASE", "postgres")
	port := getEnv("PGPORT", "5432")
	sslmode := getEnv("PGSSLMODE", "disable")

	var b strings.Builder
	b.WriteString("postgres://")
	b.WriteString(user)
	if pass := getEnv("PGPASSWORD", ""); pass != "" {
		b.WriteString(":")
		b.WriteString(pass)
	}
	fmt.Fprintf(&b, "@%s:%s/%s?sslmode=%s", host, port, dbname, sslmode)
	return b.String()
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
