package store

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// entry is a stored value with an optional expiry deadline.
type entry struct {
	value   string
	expires time.Time // zero means no expiry
}

// Memory implements the KV interface using an in-memory map.
// This implementation is intended for testing only and should not be
// used in production.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry

	// unavailable simulates a connection-level outage (for testing).
	unavailable bool

	setCalls int
	delCalls int
}

// NewMemory creates a new in-memory store backend.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

// Incr atomically increments the integer at key and returns the new value.
func (m *Memory) Incr(ctx context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unavailable {
		return 0, NewStoreError("memory", "incr", ErrUnavailable)
	}

	var n int64
	if e, ok := m.get(key); ok {
		parsed, err := strconv.ParseInt(e.value, 10, 64)
		if err != nil {
			return 0, NewStoreError("memory", "incr", err)
		}
		n = parsed
	}
	n++
	m.entries[key] = entry{value: strconv.FormatInt(n, 10)}
	return n, nil
}

// SetEx writes value under key with the given time-to-live.
func (m *Memory) SetEx(ctx context.Context, key string, ttl time.Duration, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unavailable {
		return NewStoreError("memory", "setex", ErrUnavailable)
	}

	m.setCalls++
	m.entries[key] = entry{value: value, expires: time.Now().Add(ttl)}
	return nil
}

// Del removes key. Deleting a missing key is not an error.
func (m *Memory) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unavailable {
		return NewStoreError("memory", "del", ErrUnavailable)
	}

	m.delCalls++
	delete(m.entries, key)
	return nil
}

// Get returns the value at key, or ErrNotFound.
func (m *Memory) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unavailable {
		return "", NewStoreError("memory", "get", ErrUnavailable)
	}

	e, ok := m.get(key)
	if !ok {
		return "", ErrNotFound
	}
	return e.value, nil
}

// Ping checks connectivity.
func (m *Memory) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unavailable {
		return NewStoreError("memory", "ping", ErrUnavailable)
	}
	return nil
}

// Close releases resources held by the backend.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]entry)
	return nil
}

// get returns a live entry, dropping it lazily if expired.
// Caller must hold the mutex.
func (m *Memory) get(key string) (entry, bool) {
	e, ok := m.entries[key]
	if !ok {
		return entry{}, false
	}
	if !e.expires.IsZero() && time.Now().After(e.expires) {
		delete(m.entries, key)
		return entry{}, false
	}
	return e, true
}

// SetUnavailable toggles simulated connection failure (for testing).
func (m *Memory) SetUnavailable(down bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unavailable = down
}

// TTL returns the remaining time-to-live for key (for testing).
// The second return is false if the key is missing or has no expiry.
func (m *Memory) TTL(key string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.get(key)
	if !ok || e.expires.IsZero() {
		return 0, false
	}
	return time.Until(e.expires), true
}

// Keys returns all live keys (for testing).
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		if _, ok := m.get(k); ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// SetCalls returns the number of SetEx calls observed (for testing).
func (m *Memory) SetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCalls
}

// DelCalls returns the number of Del calls observed (for testing).
func (m *Memory) DelCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delCalls
}
