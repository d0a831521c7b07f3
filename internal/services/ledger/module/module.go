// Package module implements the ledger service module
package module

import (
	"replyguard/internal/modkit"
	"replyguard/internal/modkit/repokit"
	phttp "replyguard/internal/platform/net/http"
	ptime "replyguard/internal/platform/time"
	"replyguard/internal/services/ledger/repo"
	"replyguard/internal/services/ledger/service"
)

// Ports exposed by the ledger module
type Ports struct {
	Ledger *service.Service
}

// Module implements the ledger service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new ledger module over deps.KV
func New(deps modkit.Deps, clock ptime.Clock) *Module {
	opts := FromConfig(deps.Cfg)

	r := repokit.MustBind(repo.NewKV(), deps.KV)
	svc := service.New(r, clock, service.Config{
		FlushEvery: opts.FlushEvery,
		FlushBurst: opts.FlushBurst,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Ledger: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "ledger" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r phttp.Router) {}
