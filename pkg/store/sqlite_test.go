package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()

	s, err := NewSQLite(&SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteIncr(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.Incr(ctx, "counter")
		if err != nil {
			t.Fatalf("Incr() error = %v", err)
		}
		if got != want {
			t.Errorf("Incr() = %d, want %d", got, want)
		}
	}
}

func TestSQLiteSetExGet(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.SetEx(ctx, "k", time.Minute, `{"id":1}`); err != nil {
		t.Fatalf("SetEx() error = %v", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != `{"id":1}` {
		t.Errorf("Get() = %q, want %q", got, `{"id":1}`)
	}
}

func TestSQLiteSetExOverwrite(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.SetEx(ctx, "k", time.Minute, "first"); err != nil {
		t.Fatalf("SetEx() error = %v", err)
	}
	if err := s.SetEx(ctx, "k", time.Minute, "second"); err != nil {
		t.Fatalf("SetEx() overwrite error = %v", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "second" {
		t.Errorf("Get() = %q, want %q", got, "second")
	}
}

func TestSQLiteExpiry(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.SetEx(ctx, "k", time.Nanosecond, "v"); err != nil {
		t.Fatalf("SetEx() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	// Expired rows are treated as missing even before the sweeper runs.
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after expiry error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteGetMissing(t *testing.T) {
	s := newTestSQLite(t)

	if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestSQLiteDel(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if err := s.SetEx(ctx, "k", time.Minute, "v"); err != nil {
		t.Fatalf("SetEx() error = %v", err)
	}
	if err := s.Del(ctx, "k"); err != nil {
		t.Fatalf("Del() error = %v", err)
	}
	if _, err := s.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after Del error = %v, want ErrNotFound", err)
	}

	if err := s.Del(ctx, "missing"); err != nil {
		t.Errorf("Del() on missing key error = %v", err)
	}
}

func TestSQLiteCounterSurvivesSweep(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	if _, err := s.Incr(ctx, "counter"); err != nil {
		t.Fatalf("Incr() error = %v", err)
	}
	if err := s.SetEx(ctx, "expired", time.Nanosecond, "v"); err != nil {
		t.Fatalf("SetEx() error = %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	s.sweep()

	// The counter has no expiry and must survive the sweep.
	got, err := s.Incr(ctx, "counter")
	if err != nil {
		t.Fatalf("Incr() after sweep error = %v", err)
	}
	if got != 2 {
		t.Errorf("Incr() after sweep = %d, want 2", got)
	}

	if _, err := s.Get(ctx, "expired"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() on swept key error = %v, want ErrNotFound", err)
	}
}

func TestSQLitePing(t *testing.T) {
	s := newTestSQLite(t)

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
