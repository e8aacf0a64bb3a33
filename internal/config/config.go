// Package config loads service configuration from the environment.
// A .env file is honored when present; real environment variables win.
package config

import (
	"fmt"
	"log"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the insight service.
type Config struct {
	Port string `env:"PORT" env-default:"8080"`
	Env  string `env:"GO_ENV" env-default:"development"`

	// Bucket storage backend. DATABASE_URL selects PostgreSQL,
	// otherwise SQLITE_PATH selects SQLite; with neither set the
	// service runs on in-memory storage.
	DatabaseURL string `env:"DATABASE_URL" env-default:""`
	SQLitePath  string `env:"SQLITE_PATH" env-default:""`

	// Remote analysis service consumed by the chat router.
	AIBackendURL string `env:"AI_BACKEND_URL" env-default:"http://localhost:8000"`

	// Seed 24h of synthetic air and traffic readings when those
	// stores are empty. Meant for demos, off by default.
	SeedDemoData bool `env:"SEED_DEMO_DATA" env-default:"false"`
}

// Load reads the configuration, loading .env first if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to read environment: %w", err)
	}
	return &cfg, nil
}
