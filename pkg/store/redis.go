package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig contains configuration for the Redis store backend.
type RedisConfig struct {
	// Addr is the server endpoint ("host:port").
	Addr string

	// Password is the optional server password.
	Password string

	// DB is the database index.
	DB int

	// DialTimeout is the timeout for establishing a connection.
	// Default: 5 seconds
	DialTimeout time.Duration
}

// Redis implements the KV interface backed by a Redis server.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis store backend. The underlying client connects
// lazily; the first command dials the server.
func NewRedis(cfg *RedisConfig) *Redis {
	dialTimeout := cfg.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: dialTimeout,
	})

	return &Redis{client: client}
}

// Incr atomically increments the integer at key and returns the new value.
func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, NewStoreError("redis", "incr", classify(err))
	}
	return n, nil
}

// SetEx writes value under key with the given time-to-live.
func (r *Redis) SetEx(ctx context.Context, key string, ttl time.Duration, value string) error {
	if err := r.client.SetEx(ctx, key, value, ttl).Err(); err != nil {
		return NewStoreError("redis", "setex", classify(err))
	}
	return nil
}

// Del removes key. Deleting a missing key is not an error.
func (r *Redis) Del(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return NewStoreError("redis", "del", classify(err))
	}
	return nil
}

// Get returns the value at key, or ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", NewStoreError("redis", "get", classify(err))
	}
	return val, nil
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return NewStoreError("redis", "ping", classify(err))
	}
	return nil
}

// Close releases the client's connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

// classify tags connection-level failures with ErrUnavailable so callers
// can distinguish an unreachable server from a failed command.
func classify(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
