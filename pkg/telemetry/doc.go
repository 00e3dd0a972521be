// Package telemetry provides observability for relog.
//
// # Components
//
//   - logging: structured logging built on log/slog
//   - metrics: Prometheus metrics for the request log recorder
//
// # Usage
//
//	// Install the configured logger as the process default
//	logger, err := logging.Setup(&cfg.Telemetry.Logging)
//
//	// Create the metrics collector and mount its handler
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// Neither component sits on the request hot path: recorder store writes
// run asynchronously and metric updates are counter increments.
package telemetry
