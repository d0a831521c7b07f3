// Package service runs a reply filter session
//
// The Engine owns the settings, the current thread view and the ledger. All of
// that state is touched only from the goroutine running Run; every public
// method hands a closure to that loop and waits for it
package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"replyguard/internal/adapters/render"
	"replyguard/internal/core/classifier"
	"replyguard/internal/core/policy"
	perr "replyguard/internal/platform/errors"
	"replyguard/internal/platform/logger"
	dom "replyguard/internal/services/filter/domain"
	sdom "replyguard/internal/services/settings/domain"
	vdom "replyguard/internal/services/visibility/domain"
	vsvc "replyguard/internal/services/visibility/service"
)

// ErrStopped is returned for calls made after Run has returned
var ErrStopped = perr.New(perr.ErrorCodeUnavailable, "filter engine stopped")

// Config tunes the loop
type Config struct {
	// Tick is the re-sync period for detached renders
	Tick time.Duration
	// SubmitTimeout bounds how long a caller waits for the loop
	SubmitTimeout time.Duration
}

// chrome is what the thread-level widgets last showed
type chrome struct {
	bar      int
	revealed bool
	badge    int
}

// Engine is one filter session
type Engine struct {
	cls      *classifier.Classifier
	ledger   dom.LedgerPort
	settings dom.SettingsPort
	render   render.Renderer
	cfg      Config
	log      *logger.Logger

	events  chan func(context.Context)
	stopped chan struct{}
	once    sync.Once

	// loop-owned
	cur     sdom.Settings
	view    *vsvc.View
	shown   chrome
	barOK   bool
	badgeOK bool

	// own settings writes whose change notification has not arrived yet
	echoEnabled map[bool]int
	echoSens    map[policy.Sensitivity]int
}

// New wires an engine; call Load then Run
func New(cls *classifier.Classifier, ports dom.Ports, r render.Renderer, cfg Config) *Engine {
	if cls == nil {
		cls = classifier.New()
	}
	if cfg.Tick <= 0 {
		cfg.Tick = 500 * time.Millisecond
	}
	if cfg.SubmitTimeout <= 0 {
		cfg.SubmitTimeout = 5 * time.Second
	}
	return &Engine{
		cls:      cls,
		ledger:   ports.Ledger,
		settings: ports.Settings,
		render:   r,
		cfg:      cfg,
		log:      logger.Named("filter"),
		events:   make(chan func(context.Context)),
		stopped:  make(chan struct{}),
		cur:      sdom.Defaults(),
		view:     vsvc.New(vdom.Nav{}),

		echoEnabled: map[bool]int{},
		echoSens:    map[policy.Sensitivity]int{},
	}
}

// Load reads settings and the ledger. Storage failures degrade to defaults
func (e *Engine) Load(ctx context.Context) {
	e.cur = e.settings.Load(ctx)
	if err := e.ledger.Load(ctx); err != nil {
		e.log.Warn().Err(err).Msg("ledger load failed; counting from zero")
	}
	e.log.Info().
		Bool("enabled", e.cur.Enabled).
		Str("sensitivity", string(e.cur.Sensitivity)).
		Int("hidden_today", e.ledger.DailyCount()).
		Msg("filter session loaded")
}

// Run processes events until ctx is done. It also drives the ledger persister
// and stops it, flushing pending writes, before returning
func (e *Engine) Run(ctx context.Context) error {
	defer e.once.Do(func() { close(e.stopped) })

	cancelCount := e.ledger.WatchCount(func(n int) {
		e.post(func(context.Context) {
			if e.ledger.AdoptExternal(n) {
				e.log.Debug().Int("hidden_today", e.ledger.DailyCount()).Msg("adopted external counter")
			}
		})
	})
	defer cancelCount()
	cancelSettings := e.settings.Watch(func(p sdom.Patch) {
		e.post(func(ctx context.Context) { e.applyPatch(ctx, p) })
	})
	defer cancelSettings()

	// watchers first so the echo of every ledger write is observed
	pctx, stopPersist := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		e.ledger.Run(pctx)
	}()
	defer func() {
		stopPersist()
		wg.Wait()
	}()

	t := time.NewTicker(e.cfg.Tick)
	defer t.Stop()

	e.syncChrome(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-e.events:
			fn(ctx)
		case <-t.C:
			e.resync(ctx)
		}
	}
}

// post queues fn without waiting for it; used by store notifications
func (e *Engine) post(fn func(context.Context)) {
	select {
	case e.events <- fn:
	case <-e.stopped:
	}
}

// do runs fn on the loop and waits for it to finish
func (e *Engine) do(ctx context.Context, fn func(context.Context)) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.SubmitTimeout)
	defer cancel()

	done := make(chan struct{})
	wrapped := func(lctx context.Context) {
		defer close(done)
		fn(lctx)
	}
	select {
	case e.events <- wrapped:
	case <-e.stopped:
		return ErrStopped
	case <-ctx.Done():
		return perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "filter engine busy")
	}
	select {
	case <-done:
		return nil
	case <-e.stopped:
		return ErrStopped
	case <-ctx.Done():
		return perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "filter engine busy")
	}
}

// ItemsAppeared ingests a batch of observed items in any order
func (e *Engine) ItemsAppeared(ctx context.Context, items []vdom.Item) (int, error) {
	return e.ItemsAppearedIn(ctx, "", items)
}

// ItemsAppearedIn is ItemsAppeared for a caller that names the view it observed.
// Batches for a view the reader already left are rejected
func (e *Engine) ItemsAppearedIn(ctx context.Context, viewID string, items []vdom.Item) (int, error) {
	var stale error
	err := e.do(ctx, func(lctx context.Context) {
		if viewID != "" && viewID != e.view.ID() {
			stale = perr.Conflictf("view %s is no longer current", viewID)
			return
		}
		for _, it := range items {
			e.process(lctx, e.view.Remember(it))
		}
		e.syncChrome(lctx)
	})
	if err == nil {
		err = stale
	}
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// Navigate discards the current view and starts a new one
func (e *Engine) Navigate(ctx context.Context, nav vdom.Nav) (string, error) {
	var id string
	err := e.do(ctx, func(lctx context.Context) {
		e.view = vsvc.New(nav)
		id = e.view.ID()
		e.log.Debug().Str("view_id", id).Str("thread", nav.ThreadKey).Bool("is_thread", nav.IsThread).Msg("navigated")
		e.syncChrome(lctx)
	})
	return id, err
}

// ResolveRootAuthor records a late thread author; already processed items are not revisited
func (e *Engine) ResolveRootAuthor(ctx context.Context, author string) error {
	return e.do(ctx, func(context.Context) { e.view.SetRootAuthor(author) })
}

// ToggleEnabled applies the master switch then persists it
func (e *Engine) ToggleEnabled(ctx context.Context, on bool) error {
	if err := e.do(ctx, func(lctx context.Context) { e.setEnabled(lctx, on) }); err != nil {
		return err
	}
	// queued ahead of the store notification for the write below
	e.post(func(context.Context) { e.echoEnabled[on]++ })
	if err := e.settings.SetEnabled(ctx, on); err != nil {
		e.log.Warn().Err(err).Bool("enabled", on).Msg("settings write dropped")
		e.post(func(context.Context) { consumeEcho(e.echoEnabled, on) })
	}
	return nil
}

// SensitivityChanged applies a new sensitivity then persists it. Unknown values
// are kept verbatim and filter as medium
func (e *Engine) SensitivityChanged(ctx context.Context, s policy.Sensitivity) error {
	if err := e.do(ctx, func(lctx context.Context) { e.setSensitivity(lctx, s) }); err != nil {
		return err
	}
	e.post(func(context.Context) { e.echoSens[s]++ })
	if err := e.settings.SetSensitivity(ctx, s); err != nil {
		e.log.Warn().Err(err).Str("sensitivity", string(s)).Msg("settings write dropped")
		e.post(func(context.Context) { consumeEcho(e.echoSens, s) })
	}
	return nil
}

// ResetCounter zeroes today's count
func (e *Engine) ResetCounter(ctx context.Context) error {
	return e.do(ctx, func(context.Context) { e.ledger.Reset() })
}

// ToggleThread flips the thread between hidden and revealed
func (e *Engine) ToggleThread(ctx context.Context) error {
	return e.do(ctx, func(lctx context.Context) { e.repaint(lctx, e.view.Toggle()) })
}

// ShowSpam sets the thread's revealed mode explicitly
func (e *Engine) ShowSpam(ctx context.Context, show bool) error {
	return e.do(ctx, func(lctx context.Context) { e.repaint(lctx, e.view.ShowSpam(show)) })
}

// GetStats returns the daily and thread counters
func (e *Engine) GetStats(ctx context.Context) (dom.Stats, error) {
	var st dom.Stats
	err := e.do(ctx, func(context.Context) { st = e.stats() })
	return st, err
}

// Status returns settings, counters and a copy of the current view
func (e *Engine) Status(ctx context.Context) (dom.Status, error) {
	var st dom.Status
	err := e.do(ctx, func(context.Context) {
		st = dom.Status{Settings: e.cur, Stats: e.stats(), Thread: e.view.Snapshot()}
	})
	return st, err
}

// Classify scores text without touching the session. An empty sensitivity uses the current setting
func (e *Engine) Classify(ctx context.Context, text string, s policy.Sensitivity) (dom.Verdict, error) {
	if s == "" {
		if err := e.do(ctx, func(context.Context) { s = e.cur.Sensitivity }); err != nil {
			return dom.Verdict{}, err
		}
	}
	res, f := e.cls.Explain(text)
	return dom.Verdict{Result: res, Features: f, Sensitivity: s, Hide: policy.ShouldHide(res, s)}, nil
}

func (e *Engine) stats() dom.Stats {
	return dom.Stats{HiddenToday: e.ledger.DailyCount(), HiddenInThread: e.view.HiddenCount()}
}

// process runs the identity filters and classifies key once per pass
func (e *Engine) process(ctx context.Context, key string) {
	if !e.cur.Enabled || !e.view.IsThread() || e.view.Processed(key) {
		return
	}
	it, ok := e.view.Item(key)
	if !ok {
		return
	}
	switch root := e.view.RootAuthor(); {
	case it.IsRoot:
		e.view.Skip(key, vdom.SkipRoot)
		return
	case root != "" && it.Author != "" && it.Author == root:
		e.view.Skip(key, vdom.SkipSelfReply)
		return
	case isBlank(it.Text):
		e.view.Skip(key, vdom.SkipEmpty)
		return
	}

	res := e.cls.Classify(it.Text)
	st := e.view.Apply(key, res, policy.ShouldHide(res, e.cur.Sensitivity))
	e.log.Debug().
		Str("key", key).
		Float64("score", res.Total).
		Strs("reasons", res.Reasons).
		Str("state", string(st)).
		Msg("classified")
	if !st.Flagged() {
		return
	}
	e.ledger.RecordHidden(it.ID)
	e.paint(ctx, key)
}

// paint renders key's current state. Failures are retried on the next tick
func (e *Engine) paint(ctx context.Context, key string) {
	it, ok := e.view.Item(key)
	if !ok {
		return
	}
	var err error
	switch e.view.State(key) {
	case vdom.Hidden:
		err = e.render.RenderHidden(ctx, it, e.view.Reasons(key))
	case vdom.Revealed:
		err = e.render.RenderRevealed(ctx, it, e.view.Reasons(key))
	default:
		err = e.render.ClearMarker(ctx, it)
	}
	if err != nil {
		e.view.MarkStale(key)
		if !errors.Is(err, render.ErrDetached) {
			e.log.Warn().Err(err).Str("key", key).Msg("render failed; will retry")
		}
		return
	}
	e.view.ClearStale(key)
}

func (e *Engine) repaint(ctx context.Context, keys []string) {
	for _, k := range keys {
		e.paint(ctx, k)
	}
	e.syncChrome(ctx)
}

// syncChrome pushes the bar and badge when they differ from what was last shown
func (e *Engine) syncChrome(ctx context.Context) {
	var want chrome
	if e.cur.Enabled {
		agg := e.view.Aggregate()
		want = chrome{bar: agg.Flagged(), revealed: agg.RevealedMode, badge: agg.Flagged()}
	}
	if !e.barOK || want.bar != e.shown.bar || want.revealed != e.shown.revealed {
		err := e.render.UpdateAggregateBar(ctx, want.bar, want.revealed)
		e.barOK = err == nil
		if e.barOK {
			e.shown.bar, e.shown.revealed = want.bar, want.revealed
		}
	}
	if !e.badgeOK || want.badge != e.shown.badge {
		err := e.render.UpdateToggleBadge(ctx, want.badge)
		e.badgeOK = err == nil
		if e.badgeOK {
			e.shown.badge = want.badge
		}
	}
}

// resync retries stale markers and widgets
func (e *Engine) resync(ctx context.Context) {
	for _, k := range e.view.Stale() {
		e.paint(ctx, k)
	}
	e.syncChrome(ctx)
}

func (e *Engine) setEnabled(ctx context.Context, on bool) {
	if on == e.cur.Enabled {
		return
	}
	e.cur.Enabled = on
	e.log.Info().Bool("enabled", on).Msg("filter switched")
	if on {
		e.reprocess(ctx)
		return
	}
	e.repaint(ctx, e.view.Reset())
}

func (e *Engine) setSensitivity(ctx context.Context, s policy.Sensitivity) {
	if s == e.cur.Sensitivity {
		return
	}
	e.cur.Sensitivity = s
	e.log.Info().Str("sensitivity", string(s)).Msg("sensitivity changed")
	if e.cur.Enabled {
		e.reprocess(ctx)
	}
}

// reprocess discards per-item state and runs ingestion over every known item.
// Markers on items that are no longer flagged are cleared
func (e *Engine) reprocess(ctx context.Context) {
	marked := append(e.view.Stale(), e.view.Reset()...)
	for _, k := range e.view.Keys() {
		e.process(ctx, k)
	}
	for _, k := range marked {
		if !e.view.State(k).Flagged() {
			e.paint(ctx, k)
		}
	}
	e.syncChrome(ctx)
}

// applyPatch handles a settings write seen in the store. Echoes of our own
// writes are dropped so a stale echo cannot undo a newer change
func (e *Engine) applyPatch(ctx context.Context, p sdom.Patch) {
	if p.Enabled != nil && !consumeEcho(e.echoEnabled, *p.Enabled) {
		e.setEnabled(ctx, *p.Enabled)
	}
	if p.Sensitivity != nil && !consumeEcho(e.echoSens, *p.Sensitivity) {
		e.setSensitivity(ctx, *p.Sensitivity)
	}
}

func consumeEcho[K comparable](pending map[K]int, k K) bool {
	if pending[k] == 0 {
		return false
	}
	if pending[k]--; pending[k] == 0 {
		delete(pending, k)
	}
	return true
}

func isBlank(s string) bool { return strings.TrimSpace(s) == "" }
