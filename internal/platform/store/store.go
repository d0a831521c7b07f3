// Package store provides the key-value storage the filter persists its settings and ledger in
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"replyguard/internal/platform/logger"
)

// ErrClosed is returned by operations on a closed KV
var ErrClosed = errors.New("store: closed")

// Change describes one key written by Set. Old is nil when the key was absent
type Change struct {
	Key string
	Old json.RawMessage
	New json.RawMessage
}

// Changed reports whether the stored bytes differ
func (c Change) Changed() bool { return string(c.Old) != string(c.New) }

// KV is a flat JSON key-value store with change notification
type KV interface {
	// Get returns the stored value for each present key; absent keys are omitted
	Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error)
	// Set JSON-encodes and writes all values atomically, then notifies watchers
	Set(ctx context.Context, values map[string]any) error
	// Watch registers fn for every committed Set and returns a cancel func
	Watch(fn func([]Change)) (cancel func())
	Close() error
}

// Store is the facade over the configured backend
// zero value is safe but has no KV
type Store struct {
	// Log is the logger used by backends
	// zero means a no op zerolog logger
	Log logger.Logger

	// KV is the key-value seam, nil until Open
	KV KV
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store with the backend cfg selects
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}

	// defaults for zero logger to avoid nil checks
	s.Log = s.Log.With().Str("component", "store").Logger()

	kv, err := openKV(ctx, cfg, s)
	if err != nil {
		return nil, err
	}
	s.KV = kv
	return s, nil
}

// Guard verifies the backend is reachable
func (s *Store) Guard(ctx context.Context) error {
	if s == nil || s.KV == nil {
		return errors.New("nil store")
	}
	if p, ok := s.KV.(Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("kv: %w", err)
		}
	}
	return nil
}

// Close closes the backend; nil backends are ignored
func (s *Store) Close(_ context.Context) error {
	if s == nil || s.KV == nil {
		return nil
	}
	return s.KV.Close()
}
