package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backend selectors.
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "30m" or "1h" (yaml.v3 has no native support for that).
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std converts to the standard library type.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// RedisConfig configures the key-value backend.
type RedisConfig struct {
	// URL is a URL-style endpoint, e.g. redis://localhost:6379/0.
	URL string `yaml:"url"`
	// Prefix is the key namespace for session records.
	Prefix string `yaml:"prefix"`
	// TTL, when non-zero, expires session records at the backend level.
	TTL Duration `yaml:"ttl"`
	// Locking serializes same-session updates across processes.
	Locking bool `yaml:"locking"`
}

// ServerConfig configures the HTTP and SSE listeners.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// Config is the process configuration: YAML file, overridden by
// CTXSTORE_* environment variables.
type Config struct {
	Store    string       `yaml:"store"`
	Redis    RedisConfig  `yaml:"redis"`
	Server   ServerConfig `yaml:"server"`
	LogLevel string       `yaml:"log_level"`
}

// Default returns the built-in configuration: redis on the local
// standard port, the cline context prefix, no expiry.
func Default() *Config {
	return &Config{
		Store: StoreRedis,
		Redis: RedisConfig{
			URL:    "redis://localhost:6379/0",
			Prefix: "cline:context:",
		},
		Server: ServerConfig{
			Port: 8080,
		},
		LogLevel: "info",
	}
}

// Load builds the configuration from defaults, then the YAML file at
// path (skipped when path is empty), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("CTXSTORE_STORE"); v != "" {
		c.Store = v
	}
	if v := os.Getenv("CTXSTORE_REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("CTXSTORE_PREFIX"); v != "" {
		c.Redis.Prefix = v
	}
	if v := os.Getenv("CTXSTORE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Redis.TTL = Duration(d)
		}
	}
	if v := os.Getenv("CTXSTORE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("CTXSTORE_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}
