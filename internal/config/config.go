// Package config reads the server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dfryer1193/bitacora/blog/persistence"
	"github.com/dfryer1193/bitacora/shared/db/sqlite"
	"github.com/rs/zerolog"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

type Config struct {
	Addr    string
	Store   string
	SlotKey string

	SQLite *sqlite.SQLiteConfig
	Redis  *persistence.RedisConfig

	LogLevel  zerolog.Level
	LogFormat string
}

// Load reads every setting, falling back to defaults for unset variables
func Load() (*Config, error) {
	cfg := &Config{
		Addr:      envOrDefault("BITACORA_ADDR", ":8080"),
		Store:     envOrDefault("BITACORA_STORE", StoreSQLite),
		SlotKey:   envOrDefault("BITACORA_SLOT_KEY", persistence.DefaultSlotKey),
		SQLite:    sqlite.NewSQLiteConfig(),
		LogFormat: envOrDefault("LOG_FORMAT", LogFormatJSON),
	}

	if cfg.Store != StoreSQLite && cfg.Store != StoreRedis {
		return nil, fmt.Errorf("BITACORA_STORE must be %q or %q, got %q", StoreSQLite, StoreRedis, cfg.Store)
	}
	if cfg.LogFormat != LogFormatJSON && cfg.LogFormat != LogFormatConsole {
		return nil, fmt.Errorf("LOG_FORMAT must be %q or %q, got %q", LogFormatJSON, LogFormatConsole, cfg.LogFormat)
	}

	redisCfg, err := NewRedisConfig()
	if err != nil {
		return nil, err
	}
	cfg.Redis = redisCfg

	level, err := zerolog.ParseLevel(envOrDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	cfg.LogLevel = level

	return cfg, nil
}

// NewRedisConfig reads REDIS_ADDR, REDIS_PASSWORD and REDIS_DB
func NewRedisConfig() (*persistence.RedisConfig, error) {
	db := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("REDIS_DB must be a non-negative integer, got %q", raw)
		}
		db = n
	}

	return &persistence.RedisConfig{
		Addr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
