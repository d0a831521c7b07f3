package store

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	perr "replyguard/internal/platform/errors"
	"replyguard/internal/platform/logger"
	"replyguard/internal/platform/store/sqlite"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);`

// SQLite is a KV persisted in a single sqlite table
type SQLite struct {
	db      *sqlite.DB
	log     logger.Logger
	hub     *hub
	retries int

	mu     sync.Mutex // serializes writers so change diffs stay consistent
	closed bool
}

// NewSQLite creates the kv table if needed and wraps db
func NewSQLite(ctx context.Context, db *sqlite.DB, log logger.Logger, retries int) (*SQLite, error) {
	if _, err := db.ExecContext(ctx, kvSchema); err != nil {
		return nil, perr.FromSQLite(err, "create kv table")
	}
	if retries <= 0 {
		retries = 1
	}
	return &SQLite{db: db, log: log, hub: newHub(log, 0), retries: retries}, nil
}

// Get implements KV
func (s *SQLite) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(keys))
	if len(keys) == 0 {
		return out, nil
	}
	if s.isClosed() {
		return nil, ErrClosed
	}
	q := "SELECT key, value FROM kv WHERE key IN (" + placeholders(len(keys)) + ")"
	rows, err := s.db.QueryContext(ctx, q, anySlice(keys)...)
	if err != nil {
		return nil, perr.FromSQLite(err, "kv get")
	}
	defer rows.Close()
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, perr.FromSQLite(err, "kv scan")
		}
		out[k] = json.RawMessage(v)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromSQLite(err, "kv rows")
	}
	return out, nil
}

// Set implements KV
func (s *SQLite) Set(ctx context.Context, values map[string]any) error {
	enc, err := encodeAll(values)
	if err != nil {
		return err
	}
	if len(enc) == 0 {
		return nil
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	var changes []Change
	backoff := 20 * time.Millisecond
	for attempt := 1; ; attempt++ {
		changes, err = s.write(ctx, enc)
		if err == nil || !perr.IsRetryable(err) || attempt >= s.retries {
			break
		}
		s.log.Warn().Err(err).Int("attempt", attempt).Msg("kv write busy; retrying")
		select {
		case <-ctx.Done():
			err = ctx.Err()
		case <-time.After(backoff):
			backoff *= 2
			continue
		}
		break
	}
	s.mu.Unlock()

	if err != nil {
		return perr.FromSQLite(err, "kv set")
	}
	s.hub.publish(changes)
	return nil
}

func (s *SQLite) write(ctx context.Context, enc map[string]json.RawMessage) ([]Change, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	keys := slices.Sorted(maps.Keys(enc))
	old := make(map[string]json.RawMessage, len(keys))
	rows, err := tx.QueryContext(ctx, "SELECT key, value FROM kv WHERE key IN ("+placeholders(len(keys))+")", anySlice(keys)...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return nil, err
		}
		old[k] = json.RawMessage(v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	changes := make([]Change, 0, len(keys))
	for _, k := range keys {
		if _, err := stmt.ExecContext(ctx, k, string(enc[k]), now); err != nil {
			return nil, err
		}
		changes = append(changes, Change{Key: k, Old: old[k], New: enc[k]})
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return changes, nil
}

// Watch implements KV
func (s *SQLite) Watch(fn func([]Change)) func() { return s.hub.watch(fn) }

// Ping implements Pinger
func (s *SQLite) Ping(ctx context.Context) error {
	if s.isClosed() {
		return ErrClosed
	}
	return s.db.PingContext(ctx)
}

// Close implements KV
func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.hub.close()
	return s.db.Close()
}

func (s *SQLite) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
