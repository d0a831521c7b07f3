package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"replyguard/internal/adapters/render"
	"replyguard/internal/core/policy"
	perr "replyguard/internal/platform/errors"
	"replyguard/internal/platform/store"
	kit "replyguard/internal/platform/testkit"
	dom "replyguard/internal/services/filter/domain"
	lrepo "replyguard/internal/services/ledger/repo"
	lsvc "replyguard/internal/services/ledger/service"
	sdom "replyguard/internal/services/settings/domain"
	srepo "replyguard/internal/services/settings/repo"
	ssvc "replyguard/internal/services/settings/service"
	vdom "replyguard/internal/services/visibility/domain"
)

const (
	spamText   = "Great post! 🎉🎉🎉🎉🎉"
	humanText  = "I really think you should consider this approach more carefully before posting"
	tagText    = "#crypto #nft #web3 #moon"
	borderText = "I love this" // 1.5: hidden at high only
)

type harness struct {
	e   *Engine
	rec *render.Recorder
	kv  store.KV
	ctx context.Context
}

func start(t *testing.T, seed map[string]any) *harness {
	t.Helper()
	kv := store.NewMemory(zerolog.Nop())
	ctx := context.Background()
	if len(seed) > 0 {
		if err := kv.Set(ctx, seed); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	clock := kit.NewFakeClock(time.Date(2026, time.October, 17, 10, 0, 0, 0, time.Local))
	led := lsvc.New(lrepo.NewKV().Bind(kv), clock, lsvc.Config{FlushEvery: time.Millisecond})
	set := ssvc.New(srepo.NewKV().Bind(kv), sdom.Defaults())
	rec := render.NewRecorder()

	e := New(nil, dom.Ports{Ledger: led, Settings: set}, rec, Config{Tick: 10 * time.Millisecond, SubmitTimeout: 2 * time.Second})
	e.Load(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- e.Run(runCtx) }()
	t.Cleanup(func() {
		cancel()
		<-done
		kv.Close()
	})
	return &harness{e: e, rec: rec, kv: kv, ctx: ctx}
}

func (h *harness) thread(t *testing.T, root string) string {
	t.Helper()
	id, err := h.e.Navigate(h.ctx, vdom.Nav{ThreadKey: "status/1", IsThread: true, RootAuthor: root})
	if err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	return id
}

func (h *harness) ingest(t *testing.T, items ...vdom.Item) {
	t.Helper()
	n, err := h.e.ItemsAppeared(h.ctx, items)
	if err != nil || n != len(items) {
		t.Fatalf("ItemsAppeared = %d, %v", n, err)
	}
}

func (h *harness) stats(t *testing.T) dom.Stats {
	t.Helper()
	st, err := h.e.GetStats(h.ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	return st
}

func (h *harness) states(t *testing.T) map[string]vdom.State {
	t.Helper()
	st, err := h.e.Status(h.ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	out := map[string]vdom.State{}
	for _, it := range st.Thread.Items {
		out[it.Key] = it.State
	}
	return out
}

func item(id, author, text string) vdom.Item {
	return vdom.Item{ID: id, Author: author, Text: text}
}

func (h *harness) count(kind string) int {
	n := 0
	for _, op := range h.rec.Ops() {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

func TestEngine_ClassifiesThreadReplies(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "op")
	h.ingest(t, item("1", "a", spamText), item("2", "b", humanText), item("3", "c", tagText))

	got := h.states(t)
	want := map[string]vdom.State{"1": vdom.Hidden, "2": vdom.Visible, "3": vdom.Hidden}
	for k, w := range want {
		if got[k] != w {
			t.Fatalf("item %s state = %q, want %q", k, got[k], w)
		}
	}
	if st := h.stats(t); st.HiddenToday != 2 || st.HiddenInThread != 2 {
		t.Fatalf("stats = %+v", st)
	}
	if h.rec.Marker("1") != render.OpHidden || h.rec.Marker("2") != "" {
		t.Fatalf("markers: 1=%q 2=%q", h.rec.Marker("1"), h.rec.Marker("2"))
	}
	if n, revealed := h.rec.Bar(); n != 2 || revealed {
		t.Fatalf("bar = %d %v", n, revealed)
	}
	if h.rec.Badge() != 2 {
		t.Fatalf("badge = %d", h.rec.Badge())
	}
}

func TestEngine_DedupWithinView(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "")
	h.ingest(t, item("1", "a", spamText))
	h.ingest(t, item("1", "a", spamText), item("1", "a", spamText))

	if st := h.stats(t); st.HiddenToday != 1 || st.HiddenInThread != 1 {
		t.Fatalf("stats = %+v", st)
	}
	if n := h.count(render.OpHidden); n != 1 {
		t.Fatalf("rendered hidden %d times", n)
	}
}

func TestEngine_AnonymousItemsFailOpen(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "")
	h.ingest(t, vdom.Item{Text: spamText})
	h.ingest(t, vdom.Item{Text: spamText})

	st := h.stats(t)
	if st.HiddenInThread != 2 {
		t.Fatalf("anonymous items should never dedup, thread count = %d", st.HiddenInThread)
	}
	if st.HiddenToday != 0 {
		t.Fatalf("items without ids are never counted, got %d", st.HiddenToday)
	}
}

func TestEngine_NonThreadPagesAreIgnored(t *testing.T) {
	h := start(t, nil)
	if _, err := h.e.Navigate(h.ctx, vdom.Nav{ThreadKey: "home"}); err != nil {
		t.Fatalf("Navigate: %v", err)
	}
	h.ingest(t, item("1", "a", spamText))

	if got := h.states(t)["1"]; got != vdom.Unclassified {
		t.Fatalf("state = %q, want unclassified", got)
	}
	if st := h.stats(t); st.HiddenToday != 0 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestEngine_IdentityFilters(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "@Alice")
	root := item("r", "alice", spamText)
	root.IsRoot = true
	h.ingest(t,
		root,
		item("self", "ALICE", spamText),
		item("blank", "bob", "   "),
		item("other", "bob", spamText),
	)

	st, err := h.e.Status(h.ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	skipped := map[string]string{}
	for _, it := range st.Thread.Items {
		skipped[it.Key] = it.Skipped
		if it.Key != "other" && it.State != vdom.Unclassified {
			t.Fatalf("%s should stay unclassified, got %q", it.Key, it.State)
		}
	}
	if skipped["r"] != vdom.SkipRoot || skipped["self"] != vdom.SkipSelfReply || skipped["blank"] != vdom.SkipEmpty {
		t.Fatalf("skip reasons = %v", skipped)
	}
	if got := h.states(t)["other"]; got != vdom.Hidden {
		t.Fatalf("other = %q", got)
	}
}

func TestEngine_LateRootAuthorAppliesGoingForward(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "")
	h.ingest(t, item("1", "alice", spamText))
	if err := h.e.ResolveRootAuthor(h.ctx, "alice"); err != nil {
		t.Fatalf("ResolveRootAuthor: %v", err)
	}
	h.ingest(t, item("2", "alice", spamText))

	got := h.states(t)
	if got["1"] != vdom.Hidden || got["2"] != vdom.Unclassified {
		t.Fatalf("states = %v", got)
	}
}

func TestEngine_DisableAndReenable(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "")
	h.ingest(t, item("1", "a", spamText), item("2", "b", humanText))

	if err := h.e.ToggleEnabled(h.ctx, false); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if hid, rev := h.rec.Markers(); hid+rev != 0 {
		t.Fatalf("markers left after disable: %d/%d", hid, rev)
	}
	if n, _ := h.rec.Bar(); n != 0 || h.rec.Badge() != 0 {
		t.Fatalf("bar/badge not cleared")
	}
	if st := h.stats(t); st.HiddenInThread != 0 || st.HiddenToday != 1 {
		t.Fatalf("stats after disable = %+v", st)
	}
	h.ingest(t, item("3", "c", tagText))
	if got := h.states(t)["3"]; got != vdom.Unclassified {
		t.Fatalf("disabled filter classified item: %q", got)
	}

	if err := h.e.ToggleEnabled(h.ctx, true); err != nil {
		t.Fatalf("enable: %v", err)
	}
	got := h.states(t)
	if got["1"] != vdom.Hidden || got["2"] != vdom.Visible || got["3"] != vdom.Hidden {
		t.Fatalf("states after enable = %v", got)
	}
	if st := h.stats(t); st.HiddenToday != 2 || st.HiddenInThread != 2 {
		t.Fatalf("stats after enable = %+v", st)
	}

	on, ok, err := store.GetAs[bool](h.ctx, h.kv, sdom.KeyEnabled)
	if err != nil || !ok || !on {
		t.Fatalf("enabled not persisted: %v %v %v", on, ok, err)
	}
}

func TestEngine_SensitivityReprocessing(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "")
	h.ingest(t, item("1", "a", borderText), item("2", "b", spamText))

	if got := h.states(t)["1"]; got != vdom.Visible {
		t.Fatalf("medium: %q", got)
	}

	for range 2 {
		if err := h.e.SensitivityChanged(h.ctx, policy.High); err != nil {
			t.Fatalf("SensitivityChanged: %v", err)
		}
		got := h.states(t)
		if got["1"] != vdom.Hidden || got["2"] != vdom.Hidden {
			t.Fatalf("high: %v", got)
		}
		if st := h.stats(t); st.HiddenInThread != 2 || st.HiddenToday != 2 {
			t.Fatalf("reprocessing is not idempotent: %+v", st)
		}
	}

	if err := h.e.SensitivityChanged(h.ctx, policy.Medium); err != nil {
		t.Fatalf("SensitivityChanged: %v", err)
	}
	if h.rec.Marker("1") != "" {
		t.Fatalf("marker not cleared after raising the threshold")
	}
	if st := h.stats(t); st.HiddenInThread != 1 || st.HiddenToday != 2 {
		t.Fatalf("stats = %+v", st)
	}
	if n, _ := h.rec.Bar(); n != 1 {
		t.Fatalf("bar = %d", n)
	}
}

func TestEngine_UnknownSensitivityFiltersAsMedium(t *testing.T) {
	h := start(t, map[string]any{sdom.KeySensitivity: "paranoid"})
	h.thread(t, "")
	h.ingest(t, item("1", "a", borderText), item("2", "b", spamText))

	got := h.states(t)
	if got["1"] != vdom.Visible || got["2"] != vdom.Hidden {
		t.Fatalf("states = %v", got)
	}
	st, _ := h.e.Status(h.ctx)
	if st.Settings.Sensitivity != "paranoid" {
		t.Fatalf("raw sensitivity lost: %q", st.Settings.Sensitivity)
	}
}

func TestEngine_ToggleThread(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "")
	h.ingest(t, item("1", "a", spamText), item("2", "b", tagText))

	if err := h.e.ToggleThread(h.ctx); err != nil {
		t.Fatalf("ToggleThread: %v", err)
	}
	st, _ := h.e.Status(h.ctx)
	if a := st.Thread.Aggregate; a.Hidden != 0 || a.Revealed != 2 || !a.RevealedMode {
		t.Fatalf("after reveal: %+v", a)
	}
	if hid, rev := h.rec.Markers(); hid != 0 || rev != 2 {
		t.Fatalf("markers after reveal: %d/%d", hid, rev)
	}
	if n, revealed := h.rec.Bar(); n != 2 || !revealed {
		t.Fatalf("bar after reveal: %d %v", n, revealed)
	}
	if s := h.stats(t); s.HiddenInThread != 0 {
		t.Fatalf("hiddenInThread counts hidden only, got %d", s.HiddenInThread)
	}

	// new spam while revealed joins the revealed population
	h.ingest(t, item("3", "c", spamText))
	st, _ = h.e.Status(h.ctx)
	if a := st.Thread.Aggregate; a.Hidden != 0 || a.Revealed != 3 {
		t.Fatalf("new spam in revealed mode: %+v", a)
	}

	if err := h.e.ToggleThread(h.ctx); err != nil {
		t.Fatalf("ToggleThread: %v", err)
	}
	st, _ = h.e.Status(h.ctx)
	if a := st.Thread.Aggregate; a.Hidden != 3 || a.Revealed != 0 || a.RevealedMode {
		t.Fatalf("after hide: %+v", a)
	}
}

func TestEngine_ShowSpam(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "")
	h.ingest(t, item("1", "a", spamText))

	for _, show := range []bool{true, true, false} {
		if err := h.e.ShowSpam(h.ctx, show); err != nil {
			t.Fatalf("ShowSpam: %v", err)
		}
		st, _ := h.e.Status(h.ctx)
		a := st.Thread.Aggregate
		if a.RevealedMode != show || (show && a.Revealed != 1) || (!show && a.Hidden != 1) {
			t.Fatalf("ShowSpam(%v): %+v", show, a)
		}
	}
}

func TestEngine_NavigationDiscardsView(t *testing.T) {
	h := start(t, nil)
	first := h.thread(t, "")
	h.ingest(t, item("1", "a", spamText))

	second := h.thread(t, "")
	if first == second {
		t.Fatalf("view ids should differ per navigation")
	}
	if st := h.stats(t); st.HiddenInThread != 0 || st.HiddenToday != 1 {
		t.Fatalf("stats after navigate = %+v", st)
	}
	if n, _ := h.rec.Bar(); n != 0 || h.rec.Badge() != 0 {
		t.Fatalf("bar/badge not reset on navigation")
	}

	// same reply seen again on the new page is hidden but not counted twice
	h.ingest(t, item("1", "a", spamText))
	if st := h.stats(t); st.HiddenInThread != 1 || st.HiddenToday != 1 {
		t.Fatalf("stats after revisit = %+v", st)
	}
}

func TestEngine_ResetCounter(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "")
	h.ingest(t, item("123", "a", spamText))

	if err := h.e.ResetCounter(h.ctx); err != nil {
		t.Fatalf("ResetCounter: %v", err)
	}
	h.thread(t, "")
	h.ingest(t, item("123", "a", spamText))
	if st := h.stats(t); st.HiddenToday != 0 || st.HiddenInThread != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestEngine_DetachedRenderRetriesOnTick(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "")
	h.rec.SetDetached(true)
	h.ingest(t, item("1", "a", spamText))

	if h.rec.Marker("1") != "" {
		t.Fatalf("detached renderer recorded a marker")
	}
	if got := h.states(t)["1"]; got != vdom.Hidden {
		t.Fatalf("state should not depend on rendering, got %q", got)
	}

	h.rec.SetDetached(false)
	kit.WaitFor(t, time.Second, func() bool {
		n, _ := h.rec.Bar()
		return h.rec.Marker("1") == render.OpHidden && n == 1 && h.rec.Badge() == 1
	}, "marker, bar and badge re-synced")
}

func TestEngine_ExternalSettingsChange(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "")
	h.ingest(t, item("1", "a", spamText))

	if err := store.SetOne(h.ctx, h.kv, sdom.KeyEnabled, false); err != nil {
		t.Fatalf("Set: %v", err)
	}
	kit.WaitFor(t, time.Second, func() bool {
		st, err := h.e.Status(h.ctx)
		return err == nil && !st.Settings.Enabled && st.Thread.Aggregate.Flagged() == 0
	}, "filter disabled by external write")
	if h.rec.Marker("1") != "" {
		t.Fatalf("marker survived external disable")
	}

	if err := store.SetOne(h.ctx, h.kv, sdom.KeySensitivity, "low"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	kit.WaitFor(t, time.Second, func() bool {
		st, err := h.e.Status(h.ctx)
		return err == nil && st.Settings.Sensitivity == policy.Low
	}, "sensitivity from external write")
}

func TestEngine_ExternalCounterReset(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "")
	h.ingest(t, item("1", "a", spamText), item("2", "b", tagText))

	kit.WaitFor(t, time.Second, func() bool {
		n, _, _ := store.GetAs[int](h.ctx, h.kv, "hiddenToday")
		return n == 2
	}, "count persisted")

	if err := store.SetOne(h.ctx, h.kv, "hiddenToday", 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	kit.WaitFor(t, time.Second, func() bool {
		st, err := h.e.GetStats(h.ctx)
		return err == nil && st.HiddenToday == 0
	}, "external reset adopted")

	h.ingest(t, item("3", "c", spamText))
	if st := h.stats(t); st.HiddenToday != 1 {
		t.Fatalf("count after external reset = %d", st.HiddenToday)
	}
}

func TestEngine_Classify(t *testing.T) {
	h := start(t, nil)

	v, err := h.e.Classify(h.ctx, borderText, "")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if v.Sensitivity != policy.Medium || v.Hide || v.Total != 1.5 {
		t.Fatalf("verdict at current sensitivity = %+v", v)
	}
	v, _ = h.e.Classify(h.ctx, borderText, policy.High)
	if !v.Hide || !v.Features.HasPraise {
		t.Fatalf("verdict at high = %+v", v)
	}
	if st := h.stats(t); st.HiddenToday != 0 {
		t.Fatalf("classify must not touch the ledger")
	}
}

func TestEngine_StoppedAndBusy(t *testing.T) {
	kv := store.NewMemory(zerolog.Nop())
	t.Cleanup(func() { kv.Close() })
	clock := kit.NewFakeClock(time.Date(2026, time.October, 17, 10, 0, 0, 0, time.Local))
	ports := dom.Ports{
		Ledger:   lsvc.New(lrepo.NewKV().Bind(kv), clock, lsvc.Config{}),
		Settings: ssvc.New(srepo.NewKV().Bind(kv), sdom.Defaults()),
	}
	e := New(nil, ports, render.NewRecorder(), Config{SubmitTimeout: 200 * time.Millisecond})
	e.Load(context.Background())

	// not running yet: callers give up after the submit timeout
	_, err := e.GetStats(context.Background())
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	if _, err := e.GetStats(context.Background()); err != nil {
		t.Fatalf("GetStats while running: %v", err)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
	if _, err := e.GetStats(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("want ErrStopped, got %v", err)
	}
}

func TestEngine_OwnSettingsWritesDoNotBounce(t *testing.T) {
	h := start(t, nil)
	h.thread(t, "")
	h.ingest(t, item("1", "a", spamText))

	for _, on := range []bool{false, true, false, true} {
		if err := h.e.ToggleEnabled(h.ctx, on); err != nil {
			t.Fatalf("ToggleEnabled(%v): %v", on, err)
		}
	}
	if err := h.e.SensitivityChanged(h.ctx, policy.High); err != nil {
		t.Fatalf("SensitivityChanged: %v", err)
	}

	// let every echo drain through the loop
	time.Sleep(100 * time.Millisecond)
	st, err := h.e.Status(h.ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.Settings.Enabled || st.Settings.Sensitivity != policy.High || st.Stats.HiddenInThread != 1 {
		t.Fatalf("settings bounced: %+v", st)
	}
}

func TestEngine_TimedOutToggleLeavesNoEcho(t *testing.T) {
	kv := store.NewMemory(zerolog.Nop())
	defer kv.Close()
	ctx := context.Background()
	clock := kit.NewFakeClock(time.Date(2026, time.October, 17, 10, 0, 0, 0, time.Local))
	led := lsvc.New(lrepo.NewKV().Bind(kv), clock, lsvc.Config{})
	set := ssvc.New(srepo.NewKV().Bind(kv), sdom.Defaults())
	e := New(nil, dom.Ports{Ledger: led, Settings: set}, render.NewRecorder(), Config{SubmitTimeout: 20 * time.Millisecond})
	e.Load(ctx)

	errc := make(chan error, 1)
	go func() { errc <- e.ToggleEnabled(ctx, false) }()
	// accept the closure but run it only after the caller gave up
	fn := <-e.events
	if err := <-errc; !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("want unavailable, got %v", err)
	}
	fn(ctx)

	if len(e.echoEnabled) != 0 {
		t.Fatalf("echo recorded for a write that never happened: %v", e.echoEnabled)
	}
	if _, ok, _ := store.GetAs[bool](ctx, kv, sdom.KeyEnabled); ok {
		t.Fatalf("setting written after timeout")
	}
}

func TestConsumeEcho(t *testing.T) {
	m := map[bool]int{true: 2}
	if !consumeEcho(m, true) || !consumeEcho(m, true) || consumeEcho(m, true) {
		t.Fatalf("expected exactly two echoes")
	}
	if consumeEcho(m, false) || len(m) != 0 {
		t.Fatalf("map not drained: %v", m)
	}
}

func TestEngine_ItemsForStaleViewAreRejected(t *testing.T) {
	h := start(t, nil)
	old := h.thread(t, "")
	cur := h.thread(t, "")

	if _, err := h.e.ItemsAppearedIn(h.ctx, old, []vdom.Item{item("1", "a", spamText)}); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("want conflict for stale view, got %v", err)
	}
	if n, err := h.e.ItemsAppearedIn(h.ctx, cur, []vdom.Item{item("1", "a", spamText)}); err != nil || n != 1 {
		t.Fatalf("current view: %d %v", n, err)
	}
	if st := h.stats(t); st.HiddenInThread != 1 {
		t.Fatalf("stats = %+v", st)
	}
}
