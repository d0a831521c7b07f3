package repokit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"replyguard/internal/platform/store"
	kit "replyguard/internal/platform/testkit"
)

func TestLoad_NilKVIsEmpty(t *testing.T) {
	t.Parallel()

	got, err := Load(context.Background(), nil, "enabled")
	if err != nil || len(got) != 0 {
		t.Fatalf("Load(nil) = %v, %v", got, err)
	}
}

func TestLoad_ReturnsPresentKeys(t *testing.T) {
	t.Parallel()

	kv := store.NewMemory(zerolog.Nop())
	defer kv.Close()
	ctx := context.Background()
	if err := kv.Set(ctx, map[string]any{"enabled": true}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := Load(ctx, kv, "enabled", "sensitivity")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got["enabled"]) != "true" {
		t.Fatalf("enabled = %q", got["enabled"])
	}
	if _, ok := got["sensitivity"]; ok {
		t.Fatalf("absent key should be omitted")
	}
}

func TestWatched_FiltersKeys(t *testing.T) {
	t.Parallel()

	kv := store.NewMemory(zerolog.Nop())
	defer kv.Close()

	var mu sync.Mutex
	var keys []string
	cancel := Watched(kv, func(c Change) {
		mu.Lock()
		keys = append(keys, c.Key)
		mu.Unlock()
	}, "sensitivity")
	defer cancel()

	ctx := context.Background()
	_ = kv.Set(ctx, map[string]any{"enabled": false})
	_ = kv.Set(ctx, map[string]any{"sensitivity": "low", "enabled": true})

	kit.WaitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(keys) == 1
	}, "one sensitivity change")

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if len(keys) != 1 || keys[0] != "sensitivity" {
		t.Fatalf("keys = %v", keys)
	}
}
