// Package module implements the settings service module
package module

import (
	"replyguard/internal/modkit"
	"replyguard/internal/modkit/repokit"
	phttp "replyguard/internal/platform/net/http"
	dom "replyguard/internal/services/settings/domain"
	"replyguard/internal/services/settings/repo"
	"replyguard/internal/services/settings/service"
)

// Ports exposed by the settings module
type Ports struct {
	Settings *service.Service
}

// Module implements the settings service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new settings module over deps.KV
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(repokit.MustBind(repo.NewKV(), deps.KV), dom.Settings{
		Enabled:     opts.DefaultEnabled,
		Sensitivity: opts.DefaultSensitivity,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Settings: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "settings" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r phttp.Router) {}
