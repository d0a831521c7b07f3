// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"

	"replyguard/internal/platform/store"
)

// KV is the storage surface repos bind to
type KV = store.KV

// Change is a committed key write delivered to watchers
type Change = store.Change

// Watched registers fn for changes to any of keys and returns the cancel func
func Watched(kv KV, fn func(Change), keys ...string) (cancel func()) {
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}
	return kv.Watch(func(changes []Change) {
		for _, c := range changes {
			if _, ok := want[c.Key]; ok {
				fn(c)
			}
		}
	})
}

// Load reads keys once; a nil kv yields an empty map so callers fall back to defaults
func Load(ctx context.Context, kv KV, keys ...string) (map[string][]byte, error) {
	out := map[string][]byte{}
	if kv == nil {
		return out, nil
	}
	got, err := kv.Get(ctx, keys...)
	if err != nil {
		return out, err
	}
	for k, v := range got {
		out[k] = v
	}
	return out, nil
}
