package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage type constants
const (
	StorageTypeNone   = "none"
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// Server holds process-level configuration
type Server struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"8000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// StorageType selects the store backend; "none" serves defaults only
	StorageType string `env:"STORAGE_TYPE" envDefault:"none"`
	RedisURL    string `env:"REDIS_URL"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"data/shadowsprint.db"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	Game Game
}

// Load reads configuration from an optional .env file and the environment
func Load() (Server, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.StorageType = strings.ToLower(strings.TrimSpace(cfg.StorageType))
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints
func (c Server) Validate() error {
	switch c.StorageType {
	case StorageTypeNone, StorageTypeMemory, StorageTypeSQLite:
	case StorageTypeRedis:
		if c.RedisURL == "" {
			return errors.New("REDIS_URL required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("invalid STORAGE_TYPE %q: must be none, memory, redis or sqlite", c.StorageType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	return c.Game.Validate()
}

// SlogLevel maps LogLevel to a slog level, defaulting to info
func (c Server) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
