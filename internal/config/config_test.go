package config

import (
	"strings"
	"testing"
	"time"
)

var allVars = []string{
	"PORT", "LOG_LEVEL", "DATABASE_TYPE", "DB_PATH", "DATABASE_URL", "WORDS_DICTIONARY_FILE",
	"DAILY_TIMEZONE", "REVEAL_MS", "PLAYER_SECRET", "COOKIE_NAME", "CLIENT_ORIGIN", "NODE_ENV",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Addr() != ":5175" || c.DatabaseType != "sqlite" || c.DatabasePath != "./data/wordle.db" {
		t.Errorf("defaults = %+v", c)
	}
	if c.DailyLocation.String() != "Europe/Tirane" {
		t.Errorf("DailyLocation = %s", c.DailyLocation)
	}
	if c.RevealDuration != 1500*time.Millisecond {
		t.Errorf("RevealDuration = %s", c.RevealDuration)
	}
	if c.CookieName != "wordle_player" || c.ClientOrigin != "http://localhost:5173" || c.Production {
		t.Errorf("cookie/cors defaults = %+v", c)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("DATABASE_TYPE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/wordle")
	t.Setenv("DAILY_TIMEZONE", "UTC")
	t.Setenv("REVEAL_MS", "0")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("PLAYER_SECRET", "s3cret")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Port != "8080" || c.DatabaseType != "postgres" || c.RevealDuration != 0 || !c.Production {
		t.Errorf("overrides = %+v", c)
	}
	if c.DailyLocation != time.UTC {
		t.Errorf("DailyLocation = %s", c.DailyLocation)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"bad timezone", map[string]string{"DAILY_TIMEZONE": "Mars/Olympus"}, "DAILY_TIMEZONE"},
		{"bad reveal", map[string]string{"REVEAL_MS": "soon"}, "REVEAL_MS"},
		{"negative reveal", map[string]string{"REVEAL_MS": "-1"}, "REVEAL_MS"},
		{"unknown database", map[string]string{"DATABASE_TYPE": "mongo"}, "DATABASE_TYPE"},
		{"mysql without url", map[string]string{"DATABASE_TYPE": "mysql"}, "DATABASE_URL"},
		{"production default secret", map[string]string{"NODE_ENV": "production"}, "PLAYER_SECRET"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load err = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestLoad_MemoryNeedsNoDialect(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_TYPE", "memory")
	if _, err := Load(); err != nil {
		t.Errorf("Load(memory): %v", err)
	}
}
