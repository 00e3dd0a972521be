package config

import "time"

// Default values for configuration fields.
const (
	// Recorder defaults
	DefaultSlowTime     = 1 * time.Second
	DefaultPendingDelay = 4 * time.Second
	DefaultBodyLimit    = 65536 // 64KB

	// Record TTL defaults
	DefaultTTLPending   = 10 * 24 * time.Hour
	DefaultTTLCompleted = 24 * time.Hour
	DefaultTTLSlow      = 10 * 24 * time.Hour
	DefaultTTLError     = 10 * 24 * time.Hour

	// Store defaults
	DefaultStoreBackend      = "redis"
	DefaultRedisAddr         = "127.0.0.1:6379"
	DefaultRedisLocalAddr    = "127.0.0.1:6379"
	DefaultRedisDialTimeout  = 5 * time.Second
	DefaultSQLitePath        = "data/relog.db"
	DefaultSQLiteBusyTimeout = 5 * time.Second
	DefaultSQLiteSweep       = "@every 1m"
	DefaultBreakerCooldown   = 5 * time.Minute

	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8080"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "relog"
	DefaultMetricsSubsystem = "recorder"
)

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Project defaults
	cfg.Project.Environment = cfg.Project.Environment.Normalize()

	// Recorder defaults
	if cfg.Recorder.SlowTime == nil {
		d := DefaultSlowTime
		cfg.Recorder.SlowTime = &d
	}
	if cfg.Recorder.PendingDelay == 0 {
		cfg.Recorder.PendingDelay = DefaultPendingDelay
	}
	if cfg.Recorder.BodyLimit == 0 {
		cfg.Recorder.BodyLimit = DefaultBodyLimit
	}
	if cfg.Recorder.TTL.Pending == 0 {
		cfg.Recorder.TTL.Pending = DefaultTTLPending
	}
	if cfg.Recorder.TTL.Completed == 0 {
		cfg.Recorder.TTL.Completed = DefaultTTLCompleted
	}
	if cfg.Recorder.TTL.Slow == 0 {
		cfg.Recorder.TTL.Slow = DefaultTTLSlow
	}
	if cfg.Recorder.TTL.Error == 0 {
		cfg.Recorder.TTL.Error = DefaultTTLError
	}

	// Store defaults
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.Redis.Addr == "" {
		cfg.Store.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Store.Redis.LocalAddr == "" {
		cfg.Store.Redis.LocalAddr = DefaultRedisLocalAddr
	}
	if cfg.Store.Redis.DialTimeout == 0 {
		cfg.Store.Redis.DialTimeout = DefaultRedisDialTimeout
	}
	if cfg.Store.SQLite.Path == "" {
		cfg.Store.SQLite.Path = DefaultSQLitePath
	}
	if cfg.Store.SQLite.BusyTimeout == 0 {
		cfg.Store.SQLite.BusyTimeout = DefaultSQLiteBusyTimeout
	}
	if cfg.Store.SQLite.SweepSchedule == "" {
		cfg.Store.SQLite.SweepSchedule = DefaultSQLiteSweep
	}
	if cfg.Store.Breaker.Cooldown == 0 {
		cfg.Store.Breaker.Cooldown = DefaultBreakerCooldown
	}

	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}
