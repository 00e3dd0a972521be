package config

import (
	"fmt"
	"regexp"
	"strings"
)

// projectNamePattern matches valid project names: letters, underscores,
// hyphens, dots, and spaces. Case-insensitive.
var projectNamePattern = regexp.MustCompile(`(?i)^[a-z_\-. ]+$`)

// recordTypes are the record type names accepted in log_types.
var recordTypes = map[string]bool{
	"pending":   true,
	"completed": true,
	"slow":      true,
	"error":     true,
}

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "project.name").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateProject(&cfg.Project)...)
	errs = append(errs, validateRecorder(&cfg.Recorder)...)
	errs = append(errs, validateStore(&cfg.Store)...)
	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// ValidateProjectName checks a project name against the allowed pattern.
// An invalid name is a fatal configuration error: the recorder refuses to
// start rather than write records under a malformed key namespace.
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name is required")
	}
	if !projectNamePattern.MatchString(name) {
		return fmt.Errorf("project name %q must match %s", name, projectNamePattern.String())
	}
	return nil
}

// validateProject validates project identity configuration.
func validateProject(cfg *ProjectConfig) []FieldError {
	var errs []FieldError

	if err := ValidateProjectName(cfg.Name); err != nil {
		errs = append(errs, FieldError{
			Field:   "project.name",
			Message: err.Error(),
		})
	}

	return errs
}

// validateRecorder validates recorder configuration.
func validateRecorder(cfg *RecorderConfig) []FieldError {
	var errs []FieldError

	if cfg.SlowTime != nil && *cfg.SlowTime < 0 {
		errs = append(errs, FieldError{
			Field:   "recorder.slow_time",
			Message: "slow time must be non-negative (0 disables slow detection)",
		})
	}
	if cfg.PendingDelay < 0 {
		errs = append(errs, FieldError{
			Field:   "recorder.pending_delay",
			Message: "pending delay must be non-negative",
		})
	}
	if cfg.BodyLimit < 0 {
		errs = append(errs, FieldError{
			Field:   "recorder.body_limit",
			Message: "body limit must be non-negative",
		})
	}

	for _, field := range []struct {
		name string
		val  int64
	}{
		{"recorder.ttl.pending", int64(cfg.TTL.Pending)},
		{"recorder.ttl.completed", int64(cfg.TTL.Completed)},
		{"recorder.ttl.slow", int64(cfg.TTL.Slow)},
		{"recorder.ttl.error", int64(cfg.TTL.Error)},
	} {
		if field.val < 0 {
			errs = append(errs, FieldError{
				Field:   field.name,
				Message: "ttl must be non-negative",
			})
		}
	}

	for _, t := range cfg.LogTypes {
		if !recordTypes[t] {
			errs = append(errs, FieldError{
				Field:   "recorder.log_types",
				Message: fmt.Sprintf("unknown record type %q (valid: pending, completed, slow, error)", t),
			})
		}
	}

	return errs
}

// validateStore validates store configuration.
func validateStore(cfg *StoreConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "redis", "sqlite", "memory":
	default:
		errs = append(errs, FieldError{
			Field:   "store.backend",
			Message: fmt.Sprintf("unsupported backend %q (valid: redis, sqlite, memory)", cfg.Backend),
		})
	}

	if cfg.Backend == "redis" && cfg.Redis.Addr == "" {
		errs = append(errs, FieldError{
			Field:   "store.redis.addr",
			Message: "redis address is required",
		})
	}
	if cfg.Backend == "sqlite" && cfg.SQLite.Path == "" {
		errs = append(errs, FieldError{
			Field:   "store.sqlite.path",
			Message: "sqlite path is required",
		})
	}
	if cfg.Breaker.Cooldown < 0 {
		errs = append(errs, FieldError{
			Field:   "store.breaker.cooldown",
			Message: "breaker cooldown must be non-negative",
		})
	}

	return errs
}

// validateServer validates ops server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}
	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be non-negative",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be non-negative",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be non-negative",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error", "":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown log level %q (valid: debug, info, warn, error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text", "":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown log format %q (valid: json, text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Path == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path is required when metrics are enabled",
		})
	}

	return errs
}
