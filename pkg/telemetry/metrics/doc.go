// Package metrics provides Prometheus metrics for the request log recorder.
//
// A Collector owns a private registry and exposes counters for store writes,
// failures, and stale-key deletions, a gauge for the circuit breaker state,
// and a request duration histogram labeled by terminal record type. The
// Handler method serves the registry in Prometheus exposition format.
package metrics
