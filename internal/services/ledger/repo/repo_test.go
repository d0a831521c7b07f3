package repo

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"replyguard/internal/platform/store"
	dom "replyguard/internal/services/ledger/domain"
)

func TestKVRepo_LoadSave(t *testing.T) {
	kv := store.NewMemory(zerolog.Nop())
	defer kv.Close()
	r := NewKV().Bind(kv)
	ctx := context.Background()

	if _, ok, err := r.Load(ctx); ok || err != nil {
		t.Fatalf("empty load ok=%v err=%v", ok, err)
	}

	in := dom.Snapshot{HiddenToday: 2, LastDate: "Sat Oct 17 2026", CountedIDs: []string{"1", "2"}}
	if err := r.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, ok, err := r.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load ok=%v err=%v", ok, err)
	}
	if out.HiddenToday != 2 || out.LastDate != in.LastDate || len(out.CountedIDs) != 2 {
		t.Fatalf("out = %+v", out)
	}

	// nil ids are stored as an empty array
	if err := r.Save(ctx, dom.Snapshot{LastDate: "x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, _ := kv.Get(ctx, dom.KeyCountedIDs)
	if string(got[dom.KeyCountedIDs]) != "[]" {
		t.Fatalf("ids = %s", got[dom.KeyCountedIDs])
	}
}

func TestKVRepo_LoadBadValue(t *testing.T) {
	kv := store.NewMemory(zerolog.Nop())
	defer kv.Close()
	ctx := context.Background()
	_ = kv.Set(ctx, map[string]any{dom.KeyHiddenToday: "lots"})

	if _, _, err := NewKV().Bind(kv).Load(ctx); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestKVRepo_WatchCount(t *testing.T) {
	kv := store.NewMemory(zerolog.Nop())
	defer kv.Close()
	r := NewKV().Bind(kv)

	got := make(chan int, 4)
	cancel := r.WatchCount(func(n int) { got <- n })
	defer cancel()

	_ = kv.Set(context.Background(), map[string]any{"enabled": true})
	_ = kv.Set(context.Background(), map[string]any{dom.KeyHiddenToday: 0})

	select {
	case n := <-got:
		if n != 0 {
			t.Fatalf("count = %d", n)
		}
	case <-time.After(time.Second):
		t.Fatalf("no count notification")
	}
	time.Sleep(20 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("unrelated key produced a count notification")
	}
}
