// Package module implements the filter session module
package module

import (
	"replyguard/internal/adapters/render"
	"replyguard/internal/core/classifier"
	"replyguard/internal/modkit"
	mmodule "replyguard/internal/modkit/module"
	phttp "replyguard/internal/platform/net/http"
	"replyguard/internal/services/filter/domain"
	"replyguard/internal/services/filter/service"
)

// Ports exposed by the filter module
type Ports struct {
	Engine domain.EnginePort
	// Session is the same engine, for the owner that loads and runs it
	Session *service.Engine
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the filter module. Requires WithDepsModules(ledger, settings)
func New(deps modkit.Deps, r render.Renderer, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("filter"),
	}, opts...)...)

	dm, ok := b.Ports.(DepsModules)
	if !ok || dm.Ledger == nil || dm.Settings == nil {
		panic("filter module: expected WithDepsModules(ledger, settings)")
	}
	if r == nil {
		l := deps.Log.With().Str("component", "render").Logger()
		r = render.NewLog(&l)
	}

	cfg := FromConfig(deps.Cfg)
	eng := service.New(classifier.New(), domain.Ports{
		Ledger:   mmodule.MustPortsOf[domain.LedgerPort](dm.Ledger),
		Settings: mmodule.MustPortsOf[domain.SettingsPort](dm.Settings),
	}, r, service.Config{
		Tick:          cfg.Tick,
		SubmitTimeout: cfg.SubmitTimeout,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Engine: eng, Session: eng}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "filter" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r phttp.Router) {}
