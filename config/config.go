/*
Package config reads application configuration from the environment.

PURPOSE:
  One place for every knob. A .env file is loaded when present
  (development convenience); real deployments set the environment
  directly. cmd/server layers flag overrides on top for the values
  people change most (port, database path).

VARIABLES:
  PORT               HTTP port                    (default 8080)
  DATABASE_PATH      SQLite path, ":memory:" ok   (default finance.db)
  REDIS_ADDR         Redis host:port, empty = in-memory cache
  LOG_LEVEL          debug|info|warn|error        (default info)
  PRETTY_LOGS        console log format           (default false)
  SNAPSHOT_SCHEDULE  cron spec for the nightly portfolio snapshot
                     (default "0 2 * * *")
*/
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port             int
	DatabasePath     string
	RedisAddr        string
	LogLevel         string
	PrettyLogs       bool
	SnapshotSchedule string
}

// Load reads configuration from the environment, loading .env first if
// one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnvAsInt("PORT", 8080),
		DatabasePath:     getEnv("DATABASE_PATH", "finance.db"),
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PrettyLogs:       getEnvAsBool("PRETTY_LOGS", false),
		SnapshotSchedule: getEnv("SNAPSHOT_SCHEDULE", "0 2 * * *"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT %d out of range", c.Port)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
