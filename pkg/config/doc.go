// Package config provides configuration management for relog.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention RELOG_SECTION_FIELD.
// For example:
//
//   - RELOG_PROJECT_NAME overrides project.name
//   - RELOG_STORE_REDIS_ADDR overrides store.redis.addr
//   - RELOG_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Hot Reload
//
// When recorder.watch is enabled, a Watcher reloads the file on change and
// hands the new configuration to a callback, so runtime-tunable recorder
// options (slow_time, ttl, log_types) apply without a restart.
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	project:
//	  name: "my-service"
//	  environment: "production"
//
//	store:
//	  backend: "redis"
//	  redis:
//	    addr: "redis.internal:6379"
//
//	recorder:
//	  slow_time: 1s
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
