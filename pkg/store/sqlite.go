package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/robfig/cron/v3"
)

// schema is the key-value table. expires_at is a unix timestamp in
// nanoseconds; NULL means the row never expires.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	expires_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_kv_expires_at ON kv(expires_at) WHERE expires_at IS NOT NULL;
`

// SQLiteConfig contains configuration for the SQLite store backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// SweepSchedule is a cron expression controlling how often expired
	// rows are purged.
	// Default: "@every 1m"
	SweepSchedule string
}

// SQLite implements the KV interface using a SQLite database.
//
// SQLite has no native key expiry, so SetEx stores an absolute deadline
// alongside the value: reads treat expired rows as missing, and a
// background sweeper deletes them on a cron schedule.
type SQLite struct {
	db     *sql.DB
	cron   *cron.Cron
	logger *slog.Logger
}

// NewSQLite creates a SQLite store backend. It initializes the schema,
// enables WAL mode, and starts the expiry sweeper.
func NewSQLite(cfg *SQLiteConfig) (*SQLite, error) {
	busyTimeout := cfg.BusyTimeout
	if busyTimeout == 0 {
		busyTimeout = 5 * time.Second
	}
	schedule := cfg.SweepSchedule
	if schedule == "" {
		schedule = "@every 1m"
	}

	logger := slog.Default().With("component", "store.sqlite")

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, NewStoreError("sqlite", "open", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, NewStoreError("sqlite", "enable_wal", err)
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, NewStoreError("sqlite", "set_busy_timeout", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, NewStoreError("sqlite", "create_schema", err)
	}

	s := &SQLite{
		db:     db,
		cron:   cron.New(),
		logger: logger,
	}

	if _, err := s.cron.AddFunc(schedule, s.sweep); err != nil {
		db.Close()
		return nil, NewStoreError("sqlite", "schedule_sweep", err)
	}
	s.cron.Start()

	logger.Info("SQLite store initialized",
		"path", cfg.Path,
		"sweep_schedule", schedule,
	)

	return s, nil
}

// Incr atomically increments the integer at key and returns the new value.
func (s *SQLite) Incr(ctx context.Context, key string) (int64, error) {
	const query = `
		INSERT INTO kv (key, value, expires_at) VALUES (?, '1', NULL)
		ON CONFLICT(key) DO UPDATE SET value = CAST(CAST(kv.value AS INTEGER) + 1 AS TEXT)
		RETURNING CAST(value AS INTEGER)`

	var n int64
	if err := s.db.QueryRowContext(ctx, query, key).Scan(&n); err != nil {
		return 0, NewStoreError("sqlite", "incr", classifySQLite(err))
	}
	return n, nil
}

// SetEx writes value under key with the given time-to-live.
func (s *SQLite) SetEx(ctx context.Context, key string, ttl time.Duration, value string) error {
	const query = `
		INSERT INTO kv (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`

	expires := time.Now().Add(ttl).UnixNano()
	if _, err := s.db.ExecContext(ctx, query, key, value, expires); err != nil {
		return NewStoreError("sqlite", "setex", classifySQLite(err))
	}
	return nil
}

// Del removes key. Deleting a missing key is not an error.
func (s *SQLite) Del(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return NewStoreError("sqlite", "del", classifySQLite(err))
	}
	return nil
}

// Get returns the value at key, or ErrNotFound. Rows past their expiry
// deadline are treated as missing even before the sweeper removes them.
func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	const query = `
		SELECT value FROM kv
		WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)`

	var value string
	err := s.db.QueryRowContext(ctx, query, key, time.Now().UnixNano()).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", NewStoreError("sqlite", "get", classifySQLite(err))
	}
	return value, nil
}

// Ping checks connectivity.
func (s *SQLite) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return NewStoreError("sqlite", "ping", classifySQLite(err))
	}
	return nil
}

// Close stops the expiry sweeper and closes the database.
func (s *SQLite) Close() error {
	ctx := s.cron.Stop()
	<-ctx.Done()
	return s.db.Close()
}

// sweep deletes rows past their expiry deadline.
func (s *SQLite) sweep() {
	res, err := s.db.Exec("DELETE FROM kv WHERE expires_at IS NOT NULL AND expires_at <= ?", time.Now().UnixNano())
	if err != nil {
		s.logger.Error("expiry sweep failed", "error", err)
		return
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.logger.Debug("expiry sweep completed", "rows_deleted", n)
	}
}

// classifySQLite tags connection-level failures with ErrUnavailable.
func classifySQLite(err error) error {
	if errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
