package store

import (
	"context"
	"encoding/json"

	perr "replyguard/internal/platform/errors"
)

// GetAs reads one key and decodes it into T. ok is false when the key is absent
func GetAs[T any](ctx context.Context, kv KV, key string) (v T, ok bool, err error) {
	got, err := kv.Get(ctx, key)
	if err != nil {
		return v, false, err
	}
	raw, ok := got[key]
	if !ok {
		return v, false, nil
	}
	v, err = Decode[T](raw)
	return v, err == nil, err
}

// Decode unmarshals a stored value into T
func Decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, perr.Wrap(err, perr.ErrorCodeJSON, "decode stored value")
	}
	return v, nil
}

// SetOne writes a single key
func SetOne(ctx context.Context, kv KV, key string, v any) error {
	return kv.Set(ctx, map[string]any{key: v})
}

// Find returns the change for key in a notification batch
func Find(changes []Change, key string) (Change, bool) {
	for _, c := range changes {
		if c.Key == key {
			return c, true
		}
	}
	return Change{}, false
}
