// Package recorder implements the request-logging middleware.
//
// The middleware attaches a mutable Record to every request (except OPTIONS
// and HEAD), schedules a delayed "pending" write, and performs an
// authoritative final write when the response completes. The final write
// reclassifies the record from its outcome:
//
//   - error: the info map carries a truthy "error" annotation
//   - slow: duration exceeded the configured slow threshold
//   - completed: everything else
//
// Records are stored under rLog:<project>[.env]:<code>:<id> keys with
// type-specific TTLs; when the final type differs from a previously written
// one, the stale key is deleted in the same serialized write step.
//
// Downstream handlers reach the record through FromContext and may annotate
// it (Set, SetError), force a rewrite (Update), or suppress logging
// entirely (Ignore).
//
// Logging is strictly best-effort: all store errors are logged and
// swallowed, an unreachable store opens a circuit breaker for a cooldown
// window, and no store call ever delays the response.
package recorder
