package config

import "time"

// Config is the root configuration structure for relog.
// It contains all configuration sections for the project identity,
// request recorder, key-value store, ops server, and telemetry.
type Config struct {
	// Project contains the project identity used to namespace store keys.
	Project ProjectConfig `yaml:"project"`

	// Recorder contains configuration for the request log recorder.
	Recorder RecorderConfig `yaml:"recorder"`

	// Store contains configuration for the key-value store backend.
	Store StoreConfig `yaml:"store"`

	// Server contains configuration for the ops HTTP server.
	Server ServerConfig `yaml:"server"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// Environment identifies the runtime environment. It selects the
// namespace suffix appended to the project name and, for development,
// redirects the store connection to a local endpoint.
type Environment string

const (
	// EnvTest namespaces keys with a ".test" suffix.
	EnvTest Environment = "test"
	// EnvProduction namespaces keys with a ".prod" suffix.
	EnvProduction Environment = "production"
	// EnvDevelopment namespaces keys with a ".dev" suffix and redirects
	// the store connection to the local endpoint.
	EnvDevelopment Environment = "development"
	// EnvOther applies no suffix and uses the default endpoint.
	EnvOther Environment = "other"
)

// Normalize maps accepted aliases ("prod", "dev") onto the canonical
// environment values. Unknown or empty values map to EnvOther.
func (e Environment) Normalize() Environment {
	switch e {
	case EnvTest:
		return EnvTest
	case EnvProduction, "prod":
		return EnvProduction
	case EnvDevelopment, "dev":
		return EnvDevelopment
	default:
		return EnvOther
	}
}

// Suffix returns the namespace suffix for the environment,
// e.g. ".test", ".prod", ".dev", or "" for other.
func (e Environment) Suffix() string {
	switch e.Normalize() {
	case EnvTest:
		return ".test"
	case EnvProduction:
		return ".prod"
	case EnvDevelopment:
		return ".dev"
	default:
		return ""
	}
}

// ProjectConfig identifies the project whose requests are being recorded.
type ProjectConfig struct {
	// Name is the project name used in store key prefixes.
	// Required. Must match (?i)^[a-z_\-. ]+$.
	Name string `yaml:"name"`

	// Environment is the runtime environment indicator.
	// Options: "test", "production" (or "prod"), "development" (or "dev").
	// Any other value applies no namespace suffix.
	// Default: "other"
	Environment Environment `yaml:"environment"`
}

// RecorderConfig contains configuration for the request log recorder.
type RecorderConfig struct {
	// SlowTime is the duration above which a completed request is
	// classified as slow. Zero disables slow detection.
	// Default: 1s
	SlowTime *time.Duration `yaml:"slow_time"`

	// PendingDelay is how long to wait before writing an in-flight
	// request as a pending record. Requests that complete sooner never
	// produce a pending entry.
	// Default: 4s
	PendingDelay time.Duration `yaml:"pending_delay"`

	// TTL contains per-type expiration overrides for stored records.
	TTL TTLConfig `yaml:"ttl"`

	// LogTypes is an allow-list of record types to persist
	// ("pending", "completed", "slow", "error"). Empty means all types.
	LogTypes []string `yaml:"log_types"`

	// BodyLimit is the maximum number of request body bytes captured
	// into a record.
	// Default: 65536 (64KB)
	BodyLimit int `yaml:"body_limit"`

	// Watch enables hot reloading of slow_time, ttl, and log_types when
	// the configuration file changes.
	// Default: false
	Watch bool `yaml:"watch"`
}

// TTLConfig contains per-type expiration overrides. Zero values fall
// back to the type default (pending=10d, completed=1d, slow=10d, error=10d).
type TTLConfig struct {
	// Pending is the TTL for pending records.
	Pending time.Duration `yaml:"pending"`

	// Completed is the TTL for completed records.
	Completed time.Duration `yaml:"completed"`

	// Slow is the TTL for slow records.
	Slow time.Duration `yaml:"slow"`

	// Error is the TTL for error records.
	Error time.Duration `yaml:"error"`
}

// StoreConfig contains configuration for the key-value store backend.
type StoreConfig struct {
	// Backend specifies the store backend.
	// Options: "redis", "sqlite", "memory"
	// Default: "redis"
	Backend string `yaml:"backend"`

	// Redis contains Redis-specific configuration.
	Redis RedisConfig `yaml:"redis"`

	// SQLite contains SQLite-specific configuration.
	SQLite SQLiteConfig `yaml:"sqlite"`

	// Breaker contains circuit breaker configuration.
	Breaker BreakerConfig `yaml:"breaker"`
}

// RedisConfig contains Redis-specific configuration.
type RedisConfig struct {
	// Addr is the default remote endpoint ("host:port").
	// Default: "127.0.0.1:6379"
	Addr string `yaml:"addr"`

	// LocalAddr is the endpoint used when the environment is development.
	// Default: "127.0.0.1:6379"
	LocalAddr string `yaml:"local_addr"`

	// Password is the optional server password.
	Password string `yaml:"password"`

	// DB is the database index.
	// Default: 0
	DB int `yaml:"db"`

	// DialTimeout is the timeout for establishing a connection.
	// Default: 5s
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

// EffectiveAddr returns the endpoint to connect to for the given
// environment: development redirects to LocalAddr, everything else
// uses Addr.
func (c *RedisConfig) EffectiveAddr(env Environment) string {
	if env.Normalize() == EnvDevelopment {
		return c.LocalAddr
	}
	return c.Addr
}

// SQLiteConfig contains SQLite-specific configuration.
type SQLiteConfig struct {
	// Path is the file path for the SQLite database.
	// Default: "data/relog.db"
	Path string `yaml:"path"`

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// SweepSchedule is a cron expression for purging expired keys.
	// Default: "@every 1m"
	SweepSchedule string `yaml:"sweep_schedule"`
}

// BreakerConfig contains circuit breaker configuration for store access.
type BreakerConfig struct {
	// Cooldown is how long store access is suppressed after a
	// connection-level failure.
	// Default: 5m
	Cooldown time.Duration `yaml:"cooldown"`
}

// ServerConfig contains configuration for the ops HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request when
	// keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "relog"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "recorder"
	Subsystem string `yaml:"subsystem"`
}
