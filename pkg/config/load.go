package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// NewConfig returns a Config with boolean fields that default to true
// already set. yaml.Unmarshal only overwrites fields present in the
// document, so this must be the unmarshal target.
func NewConfig() *Config {
	cfg := &Config{}
	cfg.Telemetry.Metrics.Enabled = true
	return cfg
}

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention RELOG_SECTION_FIELD (e.g., RELOG_PROJECT_NAME). Environment
// variables always take precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format RELOG_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Project overrides
	if val := os.Getenv("RELOG_PROJECT_NAME"); val != "" {
		cfg.Project.Name = val
	}
	if val := os.Getenv("RELOG_PROJECT_ENVIRONMENT"); val != "" {
		cfg.Project.Environment = Environment(val).Normalize()
	}
	// NODE_ENV-style indicator, recognized for drop-in compatibility with
	// deployments that only set the runtime environment variable.
	if val := os.Getenv("RELOG_ENV"); val != "" {
		cfg.Project.Environment = Environment(val).Normalize()
	}

	// Recorder overrides
	if val := os.Getenv("RELOG_RECORDER_SLOW_TIME"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Recorder.SlowTime = &d
		}
	}
	if val := os.Getenv("RELOG_RECORDER_PENDING_DELAY"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Recorder.PendingDelay = d
		}
	}

	// Store overrides
	if val := os.Getenv("RELOG_STORE_BACKEND"); val != "" {
		cfg.Store.Backend = val
	}
	if val := os.Getenv("RELOG_STORE_REDIS_ADDR"); val != "" {
		cfg.Store.Redis.Addr = val
	}
	if val := os.Getenv("RELOG_STORE_REDIS_LOCAL_ADDR"); val != "" {
		cfg.Store.Redis.LocalAddr = val
	}
	if val := os.Getenv("RELOG_STORE_REDIS_PASSWORD"); val != "" {
		cfg.Store.Redis.Password = val
	}
	if val := os.Getenv("RELOG_STORE_REDIS_DB"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Store.Redis.DB = i
		}
	}
	if val := os.Getenv("RELOG_STORE_SQLITE_PATH"); val != "" {
		cfg.Store.SQLite.Path = val
	}
	if val := os.Getenv("RELOG_STORE_BREAKER_COOLDOWN"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Store.Breaker.Cooldown = d
		}
	}

	// Server overrides
	if val := os.Getenv("RELOG_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}

	// Telemetry overrides
	if val := os.Getenv("RELOG_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("RELOG_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("RELOG_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
