// Package module wires the filter control surface into the API using modkit
package module

import (
	"net/http"

	modkit "replyguard/internal/modkit"
	"replyguard/internal/modkit/httpkit"

	fhttp "replyguard/internal/services/api/filter/http"
	fdom "replyguard/internal/services/filter/domain"
)

// Module implements the filter API module
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports
	token  string

	register func(httpkit.Router)
}

// Ports declares the injected session port this module drives
type Ports struct {
	Engine fdom.EnginePort
}

// New constructs the filter API module. Requires WithPorts(Ports{Engine})
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("filter-api"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Engine == nil {
		panic("filter API module requires Engine port (from services/filter)")
	}

	document()

	hd := fhttp.Deps{Engine: injected.Engine, MaxBatch: cfg.MaxBatch}
	return &Module{
		name:     b.Name,
		prefix:   b.Prefix,
		mws:      b.Mw,
		ports:    injected,
		token:    cfg.Token,
		register: func(r httpkit.Router) { fhttp.Register(r, hd) },
	}
}

// MountRoutes mounts the module routes; an empty prefix mounts at the parent
func (m *Module) MountRoutes(r httpkit.Router) {
	mount := func(rr httpkit.Router) {
		rr.Use(m.mws...)
		if m.token == "" {
			m.register(rr)
			return
		}
		port := httpkit.NewPortFunc(httpkit.SharedToken(m.token, "extension"))
		httpkit.Protected(rr, port, m.register)
	}
	if m.prefix == "" {
		r.Group(mount)
		return
	}
	r.Route(m.prefix, mount)
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
