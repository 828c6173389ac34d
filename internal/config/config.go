// Package config reads the server configuration from the environment.
// main loads .env first; every variable has a default suitable for local
// development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // DAILY_TIMEZONE must resolve on hosts without zoneinfo
)

// Config holds application configuration.
type Config struct {
	Port     string
	LogLevel string

	DatabaseType string // memory | sqlite | sqlite-pure | postgres | mysql
	DatabasePath string
	DatabaseURL  string

	DictionaryFile string // empty: embedded dictionary
	DailyLocation  *time.Location
	RevealDuration time.Duration

	PlayerSecret string
	CookieName   string
	ClientOrigin string
	Production   bool
}

const devSecret = "dev_secret_change_me"

// Load reads configuration from environment variables with defaults.
func Load() (*Config, error) {
	c := &Config{
		Port:           getEnv("PORT", "5175"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		DatabaseType:   strings.ToLower(getEnv("DATABASE_TYPE", "sqlite")),
		DatabasePath:   getEnv("DB_PATH", "./data/wordle.db"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DictionaryFile: os.Getenv("WORDS_DICTIONARY_FILE"),
		PlayerSecret:   getEnv("PLAYER_SECRET", devSecret),
		CookieName:     getEnv("COOKIE_NAME", "wordle_player"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("NODE_ENV") == "production",
	}

	loc, err := time.LoadLocation(getEnv("DAILY_TIMEZONE", "Europe/Tirane"))
	if err != nil {
		return nil, fmt.Errorf("config: DAILY_TIMEZONE: %w", err)
	}
	c.DailyLocation = loc

	ms, err := strconv.Atoi(getEnv("REVEAL_MS", "1500"))
	if err != nil || ms < 0 {
		return nil, fmt.Errorf("config: REVEAL_MS must be a non-negative integer, got %q", os.Getenv("REVEAL_MS"))
	}
	c.RevealDuration = time.Duration(ms) * time.Millisecond

	switch c.DatabaseType {
	case "memory", "sqlite", "sqlite3", "sqlite-pure":
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			return nil, fmt.Errorf("config: DATABASE_URL is required for %s", c.DatabaseType)
		}
	default:
		return nil, fmt.Errorf("config: unknown DATABASE_TYPE %q", c.DatabaseType)
	}
	if c.Production && c.PlayerSecret == devSecret {
		return nil, errors.New("config: PLAYER_SECRET must be set in production")
	}
	return c, nil
}

// Addr is the listen address.
func (c *Config) Addr() string { return ":" + c.Port }

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
