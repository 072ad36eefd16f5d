// Package config loads process configuration from the environment.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Config is the process configuration. CLI flags override it.
type Config struct {
	Store         string        `env:"STEPWISE_STORE" envDefault:"file"`
	Dir           string        `env:"STEPWISE_DIR" envDefault:".stepwise/models"`
	RedisAddr     string        `env:"STEPWISE_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string        `env:"STEPWISE_REDIS_PASSWORD"`
	RedisDB       int           `env:"STEPWISE_REDIS_DB" envDefault:"0"`
	RedisTTL      time.Duration `env:"STEPWISE_REDIS_TTL" envDefault:"0s"`
	LockTTL       time.Duration `env:"STEPWISE_LOCK_TTL" envDefault:"30s"`
	LogLevel      string        `env:"STEPWISE_LOG_LEVEL" envDefault:"info"`
	// Compact drops derived states from stored snapshots; they are
	// re-derived on load.
	Compact       bool   `env:"STEPWISE_COMPACT" envDefault:"false"`
	EncryptionKey string `env:"STEPWISE_ENCRYPTION_KEY"`
	// FallbackKeys are older encryption keys, comma separated.
	FallbackKeys []string `env:"STEPWISE_ENCRYPTION_FALLBACK_KEYS" envSeparator:","`
}

// Load parses the environment into a validated Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env cannot check by itself.
func (c Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want %s, %s or %s)", c.Store, StoreFile, StoreRedis, StoreMemory)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, _, err := c.Keys(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Keys decodes the hex encryption keys. A nil active key means encryption is off.
func (c Config) Keys() (active []byte, fallback [][]byte, err error) {
	if c.EncryptionKey == "" {
		if len(c.FallbackKeys) > 0 {
			return nil, nil, fmt.Errorf("fallback keys need an active encryption key")
		}
		return nil, nil, nil
	}
	if active, err = decodeKey(c.EncryptionKey); err != nil {
		return nil, nil, fmt.Errorf("STEPWISE_ENCRYPTION_KEY: %w", err)
	}
	for i, k := range c.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("fallback key %d: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("key must be hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be 32 bytes (64 hex chars), got %d bytes", len(key))
	}
	return key, nil
}
