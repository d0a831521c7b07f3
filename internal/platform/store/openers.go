package store

import (
	"context"
	"fmt"

	perr "replyguard/internal/platform/errors"
	"replyguard/internal/platform/store/sqlite"
)

// openKV opens the backend selected by cfg.KV.Driver
func openKV(ctx context.Context, cfg Config, s *Store) (KV, error) {
	switch cfg.KV.Driver {
	case "", DriverMemory:
		s.Log.Debug().Msg("kv backend: memory")
		return NewMemory(s.Log), nil
	case DriverSQLite:
		db, err := sqlite.Open(ctx, sqlite.Config{Path: cfg.KV.Path, BusyTimeout: cfg.KV.BusyTimeout})
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "open sqlite kv %q", cfg.KV.Path)
		}
		kv, err := NewSQLite(ctx, db, s.Log, cfg.KV.WriteRetries)
		if err != nil {
			db.Close()
			return nil, err
		}
		s.Log.Debug().Str("path", cfg.KV.Path).Bool("in_memory", db.InMemory).Msg("kv backend: sqlite")
		return kv, nil
	default:
		return nil, fmt.Errorf("store: unknown kv driver %q", cfg.KV.Driver)
	}
}
