package module

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"replyguard/internal/adapters/render"
	"replyguard/internal/modkit"
	"replyguard/internal/platform/config"
	"replyguard/internal/platform/store"
	kit "replyguard/internal/platform/testkit"
	ledgermod "replyguard/internal/services/ledger/module"
	settingsmod "replyguard/internal/services/settings/module"
	vdom "replyguard/internal/services/visibility/domain"
)

func TestFromConfig(t *testing.T) {
	t.Setenv("CORE_FILTER_TICK", "2s")
	t.Setenv("CORE_FILTER_SUBMIT_TIMEOUT", "250ms")
	o := FromConfig(config.New())
	if o.Tick != 2*time.Second || o.SubmitTimeout != 250*time.Millisecond {
		t.Fatalf("unexpected options %+v", o)
	}
}

func TestNew_RequiresDeps(t *testing.T) {
	kit.MustPanic(t, func() { New(modkit.Deps{Cfg: config.New()}, nil) })
}

func TestNew_WiresEngine(t *testing.T) {
	kv := store.NewMemory(zerolog.Nop())
	t.Cleanup(func() { kv.Close() })
	deps := modkit.Deps{Cfg: config.New(), KV: kv}

	rec := render.NewRecorder()
	m := New(deps, rec, WithDepsModules(ledgermod.New(deps, nil), settingsmod.New(deps)))
	ports, ok := m.Ports().(Ports)
	if !ok || ports.Engine == nil || ports.Session == nil {
		t.Fatalf("ports = %#v", m.Ports())
	}

	ctx, cancel := context.WithCancel(context.Background())
	ports.Session.Load(ctx)
	done := make(chan error, 1)
	go func() { done <- ports.Session.Run(ctx) }()
	defer func() { cancel(); <-done }()

	if _, err := ports.Engine.Navigate(ctx, vdom.Nav{ThreadKey: "t", IsThread: true}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	if _, err := ports.Engine.ItemsAppeared(ctx, []vdom.Item{{ID: "9", Text: "#a #b #c"}}); err != nil {
		t.Fatalf("ItemsAppeared: %v", err)
	}
	if rec.Marker("9") != render.OpHidden {
		t.Fatalf("marker = %q", rec.Marker("9"))
	}
}
