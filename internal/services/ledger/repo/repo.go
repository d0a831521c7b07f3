// Package repo stores the ledger in the key-value store
package repo

import (
	"context"

	"replyguard/internal/modkit/repokit"
	"replyguard/internal/platform/store"
	dom "replyguard/internal/services/ledger/domain"
)

type binder struct{}

// NewKV returns the binder for the KV-backed ledger repo
func NewKV() repokit.Binder[dom.Repo] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(kv repokit.KV) dom.Repo { return &kvRepo{kv: kv} }

type kvRepo struct{ kv repokit.KV }

// Load implements dom.Repo. Missing keys keep their zero value
func (r *kvRepo) Load(ctx context.Context) (dom.Snapshot, bool, error) {
	var s dom.Snapshot
	got, err := r.kv.Get(ctx, dom.KeyHiddenToday, dom.KeyLastDate, dom.KeyCountedIDs)
	if err != nil {
		return s, false, err
	}
	if len(got) == 0 {
		return s, false, nil
	}
	if raw, ok := got[dom.KeyHiddenToday]; ok {
		if s.HiddenToday, err = store.Decode[int](raw); err != nil {
			return s, false, err
		}
	}
	if raw, ok := got[dom.KeyLastDate]; ok {
		if s.LastDate, err = store.Decode[string](raw); err != nil {
			return s, false, err
		}
	}
	if raw, ok := got[dom.KeyCountedIDs]; ok {
		if s.CountedIDs, err = store.Decode[[]string](raw); err != nil {
			return s, false, err
		}
	}
	return s, true, nil
}

// Save implements dom.Repo
func (r *kvRepo) Save(ctx context.Context, s dom.Snapshot) error {
	ids := s.CountedIDs
	if ids == nil {
		ids = []string{}
	}
	return r.kv.Set(ctx, map[string]any{
		dom.KeyHiddenToday: s.HiddenToday,
		dom.KeyLastDate:    s.LastDate,
		dom.KeyCountedIDs:  ids,
	})
}

// WatchCount implements dom.Repo
func (r *kvRepo) WatchCount(fn func(int)) func() {
	return repokit.Watched(r.kv, func(c store.Change) {
		if n, err := store.Decode[int](c.New); err == nil {
			fn(n)
		}
	}, dom.KeyHiddenToday)
}
