package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "shopbot/core/config"
	coredatabase "shopbot/core/database"
	"shopbot/core/telegram/state"
)

// Session backends.
const (
	SessionsMemory = "memory"
	SessionsRedis  = "redis"
)

// SessionsConfig selects where wizard sessions live. Memory is the default
// and fits a single-instance bot; Redis keeps half-finished wizards across
// restarts.
type SessionsConfig struct {
	Backend string            `yaml:"backend" envconfig:"SESSIONS_BACKEND"`
	Redis   state.RedisConfig `yaml:"redis"`
}

// Config is the full shopbot configuration: the shared core settings plus
// the database and session backend.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Sessions SessionsConfig      `yaml:"sessions"`
}

// CoreConfig exposes the embedded core configuration to the runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	if c == nil {
		return nil
	}
	return &c.Config
}

// LoadConfig reads YAML configuration and applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return nil, err
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Sessions.Backend))
	switch backend {
	case "":
		backend = SessionsMemory
	case SessionsMemory, SessionsRedis:
	default:
		return nil, fmt.Errorf("unknown sessions backend: %q", cfg.Sessions.Backend)
	}
	cfg.Sessions.Backend = backend
	if backend == SessionsRedis && cfg.Sessions.Redis.Addr == "" {
		return nil, fmt.Errorf("sessions.redis.addr is required for the redis backend")
	}

	return &cfg, nil
}
