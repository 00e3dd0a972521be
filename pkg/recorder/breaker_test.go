package recorder

import (
	"log/slog"
	"testing"
	"time"
)

func TestBreakerTripAndRecover(t *testing.T) {
	var transitions []bool
	b := newBreaker(30*time.Millisecond, slog.Default(), func(open bool) {
		transitions = append(transitions, open)
	})

	if !b.Allow() {
		t.Fatal("new breaker not allowing access")
	}

	b.Trip()
	if b.Allow() {
		t.Fatal("tripped breaker allowing access")
	}

	time.Sleep(50 * time.Millisecond)
	if !b.Allow() {
		t.Fatal("breaker still open after cooldown")
	}

	if len(transitions) != 2 || transitions[0] != true || transitions[1] != false {
		t.Errorf("notify transitions = %v, want [true false]", transitions)
	}
}

func TestBreakerRetripExtendsWindow(t *testing.T) {
	b := newBreaker(40*time.Millisecond, slog.Default(), nil)

	b.Trip()
	time.Sleep(25 * time.Millisecond)
	b.Trip()
	time.Sleep(25 * time.Millisecond)

	// 50ms after the first trip but only 25ms after the second: the
	// extended window still holds.
	if b.Allow() {
		t.Error("breaker closed before the extended cooldown elapsed")
	}
}

func TestBreakerDisabledWithZeroCooldown(t *testing.T) {
	b := newBreaker(0, slog.Default(), nil)

	b.Trip()
	if !b.Allow() {
		t.Error("disabled breaker blocked access after Trip")
	}
}
