package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryIncr(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := m.Incr(ctx, "counter")
		if err != nil {
			t.Fatalf("Incr() error = %v", err)
		}
		if got != want {
			t.Errorf("Incr() = %d, want %d", got, want)
		}
	}
}

func TestMemorySetExGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.SetEx(ctx, "k", time.Minute, "v"); err != nil {
		t.Fatalf("SetEx() error = %v", err)
	}

	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "v" {
		t.Errorf("Get() = %q, want %q", got, "v")
	}
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.SetEx(ctx, "k", time.Nanosecond, "v"); err != nil {
		t.Fatalf("SetEx() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestMemoryGetMissing(t *testing.T) {
	m := NewMemory()

	if _, err := m.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryDel(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.SetEx(ctx, "k", time.Minute, "v"); err != nil {
		t.Fatalf("SetEx() error = %v", err)
	}
	if err := m.Del(ctx, "k"); err != nil {
		t.Fatalf("Del() error = %v", err)
	}
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Del error = %v, want ErrNotFound", err)
	}

	// Deleting a missing key is not an error.
	if err := m.Del(ctx, "missing"); err != nil {
		t.Errorf("Del() on missing key error = %v", err)
	}
}

func TestMemoryUnavailable(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.SetUnavailable(true)

	if _, err := m.Incr(ctx, "k"); !IsUnavailable(err) {
		t.Errorf("Incr() error = %v, want unavailable", err)
	}
	if err := m.SetEx(ctx, "k", time.Minute, "v"); !IsUnavailable(err) {
		t.Errorf("SetEx() error = %v, want unavailable", err)
	}
	if err := m.Del(ctx, "k"); !IsUnavailable(err) {
		t.Errorf("Del() error = %v, want unavailable", err)
	}
	if err := m.Ping(ctx); !IsUnavailable(err) {
		t.Errorf("Ping() error = %v, want unavailable", err)
	}

	m.SetUnavailable(false)
	if err := m.Ping(ctx); err != nil {
		t.Errorf("Ping() after recovery error = %v", err)
	}
}

func TestMemoryTTL(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.SetEx(ctx, "k", time.Hour, "v"); err != nil {
		t.Fatalf("SetEx() error = %v", err)
	}

	ttl, ok := m.TTL("k")
	if !ok {
		t.Fatal("TTL() ok = false, want true")
	}
	if ttl <= 0 || ttl > time.Hour {
		t.Errorf("TTL() = %v, want within (0, 1h]", ttl)
	}

	if _, ok := m.TTL("missing"); ok {
		t.Error("TTL() on missing key ok = true, want false")
	}
}

func TestMemoryStoreErrorUnwrap(t *testing.T) {
	m := NewMemory()
	m.SetUnavailable(true)

	_, err := m.Incr(context.Background(), "k")

	var se *StoreError
	if !errors.As(err, &se) {
		t.Fatalf("error %v is not a StoreError", err)
	}
	if se.Backend != "memory" || se.Operation != "incr" {
		t.Errorf("StoreError = [%s, %s], want [memory, incr]", se.Backend, se.Operation)
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("StoreError does not unwrap to ErrUnavailable")
	}
}
