package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := NewConfig()
	cfg.Project.Name = "api"
	ApplyDefaults(cfg)
	return cfg
}

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"api", false},
		{"my-service", false},
		{"my_service", false},
		{"my.service", false},
		{"My Service", false},
		{"", true},
		{"api/v2", true},
		{"api:prod", true},
		{"api2", true},
		{"über", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateProjectName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateProjectName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestValidateValidConfig(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("Validate() on valid config returned %v", err)
	}
}

func TestValidateFieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "negative slow time",
			mutate:    func(c *Config) { d := -time.Second; c.Recorder.SlowTime = &d },
			wantField: "recorder.slow_time",
		},
		{
			name:      "negative pending delay",
			mutate:    func(c *Config) { c.Recorder.PendingDelay = -time.Second },
			wantField: "recorder.pending_delay",
		},
		{
			name:      "negative ttl",
			mutate:    func(c *Config) { c.Recorder.TTL.Error = -time.Hour },
			wantField: "recorder.ttl.error",
		},
		{
			name:      "unknown log type",
			mutate:    func(c *Config) { c.Recorder.LogTypes = []string{"fast"} },
			wantField: "recorder.log_types",
		},
		{
			name:      "unsupported backend",
			mutate:    func(c *Config) { c.Store.Backend = "dynamo" },
			wantField: "store.backend",
		},
		{
			name:      "redis without addr",
			mutate:    func(c *Config) { c.Store.Redis.Addr = "" },
			wantField: "store.redis.addr",
		},
		{
			name: "sqlite without path",
			mutate: func(c *Config) {
				c.Store.Backend = "sqlite"
				c.Store.SQLite.Path = ""
			},
			wantField: "store.sqlite.path",
		},
		{
			name:      "negative breaker cooldown",
			mutate:    func(c *Config) { c.Store.Breaker.Cooldown = -time.Minute },
			wantField: "store.breaker.cooldown",
		},
		{
			name:      "empty listen address",
			mutate:    func(c *Config) { c.Server.ListenAddress = "" },
			wantField: "server.listen_address",
		},
		{
			name:      "unknown log level",
			mutate:    func(c *Config) { c.Telemetry.Logging.Level = "trace" },
			wantField: "telemetry.logging.level",
		},
		{
			name:      "unknown log format",
			mutate:    func(c *Config) { c.Telemetry.Logging.Format = "logfmt" },
			wantField: "telemetry.logging.format",
		},
		{
			name: "metrics enabled without path",
			mutate: func(c *Config) {
				c.Telemetry.Metrics.Enabled = true
				c.Telemetry.Metrics.Path = ""
			},
			wantField: "telemetry.metrics.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("Validate() did not fail")
			}

			verr, ok := err.(ValidationError)
			if !ok {
				t.Fatalf("Validate() returned %T, want ValidationError", err)
			}

			found := false
			for _, fe := range verr.Errors {
				if fe.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() errors %v do not include field %q", verr.Errors, tt.wantField)
			}
		})
	}
}

func TestValidationErrorFormatting(t *testing.T) {
	t.Run("single error", func(t *testing.T) {
		err := ValidationError{Errors: []FieldError{
			{Field: "project.name", Message: "project name is required"},
		}}
		if !strings.Contains(err.Error(), "project.name") {
			t.Errorf("Error() = %q, missing field name", err.Error())
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		err := ValidationError{Errors: []FieldError{
			{Field: "project.name", Message: "project name is required"},
			{Field: "store.backend", Message: "unsupported backend"},
		}}
		msg := err.Error()
		if !strings.Contains(msg, "2 errors") {
			t.Errorf("Error() = %q, missing error count", msg)
		}
		if !strings.Contains(msg, "project.name") || !strings.Contains(msg, "store.backend") {
			t.Errorf("Error() = %q, missing field names", msg)
		}
	})
}
