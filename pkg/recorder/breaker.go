package recorder

import (
	"log/slog"
	"sync"
	"time"
)

// breaker suppresses store access for a cooldown window after a
// connection-level failure, so an unreachable store is not hammered on
// every request. A zero cooldown disables the breaker entirely.
type breaker struct {
	cooldown time.Duration
	logger   *slog.Logger
	notify   func(open bool)

	mu    sync.Mutex
	open  bool
	until time.Time
}

func newBreaker(cooldown time.Duration, logger *slog.Logger, notify func(bool)) *breaker {
	return &breaker{
		cooldown: cooldown,
		logger:   logger,
		notify:   notify,
	}
}

// Allow reports whether store access is currently permitted. An open
// breaker closes itself once the cooldown window has elapsed.
func (b *breaker) Allow() bool {
	if b.cooldown <= 0 {
		return true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return true
	}
	if time.Now().Before(b.until) {
		return false
	}

	b.open = false
	b.logger.Info("store circuit breaker closed")
	if b.notify != nil {
		b.notify(false)
	}
	return true
}

// Trip opens the breaker for the cooldown window. Tripping an already-open
// breaker extends the window.
func (b *breaker) Trip() {
	if b.cooldown <= 0 {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.until = time.Now().Add(b.cooldown)
	if b.open {
		return
	}

	b.open = true
	b.logger.Warn("store circuit breaker opened", "cooldown", b.cooldown)
	if b.notify != nil {
		b.notify(true)
	}
}
