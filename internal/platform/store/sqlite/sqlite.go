// Package sqlite opens a modernc sqlite database tuned for a single writer
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Memory is the path that selects a private in-memory database
const Memory = ":memory:"

// Config configures the sqlite handle
type Config struct {
	Path        string
	BusyTimeout time.Duration
}

// DB wraps the sql handle with the resolved DSN
type DB struct {
	*sql.DB
	DSN      string
	InMemory bool
}

var sqlOpen = sql.Open

// DSN builds the connection string. In-memory databases get a unique shared-cache
// name so every pooled connection sees the same data and parallel opens stay isolated
func DSN(cfg Config) (dsn string, inMemory bool) {
	q := url.Values{}
	if cfg.BusyTimeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeout.Milliseconds()))
	}
	if cfg.Path == "" || cfg.Path == Memory {
		q.Set("mode", "memory")
		q.Set("cache", "shared")
		return "file:" + uuid.NewString() + "?" + q.Encode(), true
	}
	if len(q) == 0 {
		return cfg.Path, false
	}
	return "file:" + cfg.Path + "?" + q.Encode(), false
}

// Open opens, pings and tunes the database
func Open(ctx context.Context, cfg Config) (*DB, error) {
	dsn, mem := DSN(cfg)
	db, err := sqlOpen("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// one connection keeps the in-memory database alive and avoids lock churn
	if mem {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if !mem {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	return &DB{DB: db, DSN: dsn, InMemory: mem}, nil
}
