// Package repo stores settings in the key-value store
package repo

import (
	"context"

	"replyguard/internal/core/policy"
	"replyguard/internal/modkit/repokit"
	"replyguard/internal/platform/store"
	dom "replyguard/internal/services/settings/domain"
)

// NewKV returns the binder for the KV-backed settings repo
func NewKV() repokit.Binder[dom.Repo] {
	return repokit.BindFunc[dom.Repo](func(kv repokit.KV) dom.Repo { return &kvRepo{kv: kv} })
}

type kvRepo struct{ kv repokit.KV }

// Load implements dom.Repo. An empty sensitivity takes the default; other
// unknown values are kept verbatim
func (r *kvRepo) Load(ctx context.Context, def dom.Settings) (dom.Settings, error) {
	got, err := repokit.Load(ctx, r.kv, dom.KeyEnabled, dom.KeySensitivity)
	if err != nil {
		return def, err
	}
	s := def
	if raw, ok := got[dom.KeyEnabled]; ok {
		if s.Enabled, err = store.Decode[bool](raw); err != nil {
			return def, err
		}
	}
	if raw, ok := got[dom.KeySensitivity]; ok {
		v, err := store.Decode[string](raw)
		if err != nil {
			return def, err
		}
		if v != "" {
			s.Sensitivity = policy.Sensitivity(v)
		}
	}
	return s, nil
}

// Save implements dom.Repo
func (r *kvRepo) Save(ctx context.Context, p dom.Patch) error {
	vals := map[string]any{}
	if p.Enabled != nil {
		vals[dom.KeyEnabled] = *p.Enabled
	}
	if p.Sensitivity != nil {
		vals[dom.KeySensitivity] = string(*p.Sensitivity)
	}
	if len(vals) == 0 {
		return nil
	}
	return r.kv.Set(ctx, vals)
}

// Watch implements dom.Repo. Every write is reported, unchanged values included;
// values that fail to decode are dropped
func (r *kvRepo) Watch(fn func(dom.Patch)) func() {
	return r.kv.Watch(func(changes []repokit.Change) {
		var p dom.Patch
		if c, ok := store.Find(changes, dom.KeyEnabled); ok {
			if v, err := store.Decode[bool](c.New); err == nil {
				p.Enabled = &v
			}
		}
		if c, ok := store.Find(changes, dom.KeySensitivity); ok {
			if v, err := store.Decode[string](c.New); err == nil {
				s := policy.Sensitivity(v)
				p.Sensitivity = &s
			}
		}
		if !p.Empty() {
			fn(p)
		}
	})
}
