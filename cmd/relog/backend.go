package main

import (
	"relog-hq/relog/pkg/config"
	"relog-hq/relog/pkg/store"
)

// buildOpener returns a lazy store opener for the configured backend. The
// development environment redirects Redis to the local endpoint.
func buildOpener(cfg *config.Config) store.Opener {
	switch cfg.Store.Backend {
	case "sqlite":
		sqliteCfg := &store.SQLiteConfig{
			Path:          cfg.Store.SQLite.Path,
			BusyTimeout:   cfg.Store.SQLite.BusyTimeout,
			SweepSchedule: cfg.Store.SQLite.SweepSchedule,
		}
		return func() (store.KV, error) {
			return store.NewSQLite(sqliteCfg)
		}

	case "memory":
		return func() (store.KV, error) {
			return store.NewMemory(), nil
		}

	default:
		redisCfg := &store.RedisConfig{
			Addr:        cfg.Store.Redis.EffectiveAddr(cfg.Project.Environment),
			Password:    cfg.Store.Redis.Password,
			DB:          cfg.Store.Redis.DB,
			DialTimeout: cfg.Store.Redis.DialTimeout,
		}
		return func() (store.KV, error) {
			return store.NewRedis(redisCfg), nil
		}
	}
}
