// Package config loads settings from BOOKS_-prefixed environment variables.
// A .env file in the working directory is read first when present.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const Prefix = "BOOKS_"

type Config struct {
	DatabaseURL     string        `koanf:"database_url" validate:"required"`
	BindAddr        string        `koanf:"bind_addr" validate:"required"`
	LogLevel        string        `koanf:"log_level" validate:"oneof=debug info warn error"`
	LogFormat       string        `koanf:"log_format" validate:"oneof=text json"`
	DebugMode       bool          `koanf:"debug_mode"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

func defaults() *Config {
	return &Config{
		BindAddr:        ":8080",
		LogLevel:        "debug",
		LogFormat:       "text",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads the environment over the defaults and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(Prefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, Prefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) Level() slog.Level {
	var lvl slog.Level
	_ = lvl.UnmarshalText([]byte(c.LogLevel))
	return lvl
}
