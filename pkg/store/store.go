package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist or has expired.
var ErrNotFound = errors.New("key not found")

// ErrUnavailable marks connection-level failures: the store could not be
// reached at all, as opposed to a command failing. Callers use this to
// decide whether to open the circuit breaker.
var ErrUnavailable = errors.New("store unavailable")

// IsUnavailable reports whether err indicates a connection-level outage.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// KV is the key-value store consumed by the request log recorder.
// Implementations must be safe for concurrent use; Incr must be atomic
// within the store.
type KV interface {
	// Incr atomically increments the integer at key and returns the new
	// value. A missing key counts from zero, so the first call returns 1.
	// The counter never expires.
	Incr(ctx context.Context, key string) (int64, error)

	// SetEx writes value under key with the given time-to-live.
	SetEx(ctx context.Context, key string, ttl time.Duration, value string) error

	// Del removes key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error

	// Get returns the value at key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Ping checks connectivity.
	Ping(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close() error
}

// Opener lazily produces a connected KV. The recorder owns the handle it
// returns: the connection is opened on first use and closed at shutdown.
type Opener func() (KV, error)

// StoreError represents an error from a store backend.
type StoreError struct {
	Backend   string // Backend type ("redis", "sqlite", "memory")
	Operation string // Operation that failed ("incr", "setex", "del", "get")
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// NewStoreError creates a new StoreError.
func NewStoreError(backend, operation string, cause error) *StoreError {
	return &StoreError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}
