package store

import (
	"context"
	"encoding/json"
	"maps"
	"slices"
	"sync"

	perr "replyguard/internal/platform/errors"
	"replyguard/internal/platform/logger"
)

// Memory is a process-local KV; values survive only as long as the process
type Memory struct {
	mu     sync.RWMutex
	data   map[string]json.RawMessage
	hub    *hub
	closed bool
}

// NewMemory returns an empty in-memory KV
func NewMemory(log logger.Logger) *Memory {
	return &Memory{data: map[string]json.RawMessage{}, hub: newHub(log, 0)}
}

// Get implements KV
func (m *Memory) Get(ctx context.Context, keys ...string) (map[string]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := m.data[k]; ok {
			out[k] = slices.Clone(v)
		}
	}
	return out, nil
}

// Set implements KV
func (m *Memory) Set(ctx context.Context, values map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	enc, err := encodeAll(values)
	if err != nil {
		return err
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	changes := make([]Change, 0, len(enc))
	for _, k := range slices.Sorted(maps.Keys(enc)) {
		changes = append(changes, Change{Key: k, Old: m.data[k], New: enc[k]})
		m.data[k] = enc[k]
	}
	m.mu.Unlock()

	m.hub.publish(changes)
	return nil
}

// Watch implements KV
func (m *Memory) Watch(fn func([]Change)) func() { return m.hub.watch(fn) }

// Ping implements Pinger
func (m *Memory) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return nil
}

// Close implements KV
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.hub.close()
	return nil
}

func encodeAll(values map[string]any) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		if k == "" {
			return nil, perr.InvalidArgf("empty key")
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "encode %q", k)
		}
		out[k] = b
	}
	return out, nil
}
