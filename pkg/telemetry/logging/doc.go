// Package logging provides structured logging setup for relog.
//
// Loggers are built on log/slog with JSON or text output. Setup installs
// the configured logger as the process default; components derive their
// own loggers with slog.Default().With("component", name).
package logging
