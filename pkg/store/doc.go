// Package store provides key-value storage backends for request log records.
//
// The recorder talks to storage through the KV interface, which covers the
// four operations it needs: an atomic counter (Incr), expiring writes
// (SetEx), deletion (Del), and reads (Get). Three implementations exist:
//
//   - Redis: the production backend, backed by a Redis server
//   - SQLite: a file-backed alternative that emulates key expiry with an
//     expires_at column and a cron-driven sweeper
//   - Memory: an in-memory map for testing
//
// Connection-level failures are wrapped with ErrUnavailable so callers can
// tell an unreachable store apart from a failed command and open the
// circuit breaker accordingly.
//
// Keys follow a fixed layout built by KeyBuilder:
//
//	rLog:<project>[.env]:id           - record ID counter, never expires
//	rLog:<project>[.env]:<code>:<id>  - serialized record, per-type TTL
//
// where <code> is p (pending), c (completed), s (slow), or e (error).
package store
