// Package module wires meta endpoints into the API
package module

import (
	"net/http"
	"time"

	modkit "replyguard/internal/modkit"
	"replyguard/internal/modkit/httpkit"
	str "replyguard/internal/platform/strings"

	metahttp "replyguard/internal/services/api/meta/http"
)

// Module serves health, readiness and classifier info under /meta
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	deps   metahttp.Deps
}

// New constructs the meta module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	return &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		deps: metahttp.Deps{
			ServiceName: "replyguard-api",
			StartedAt:   time.Now(),
			Probes:      []metahttp.Probe{{Name: "kv", Target: deps.KV}},
		},
	}
}

// MountRoutes mounts the meta routes under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(str.MustPrefix(m.prefix), func(rr httpkit.Router) {
		rr.Use(m.mws...)
		metahttp.Register(rr, m.deps)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.Or(m.name, "meta") }

// Ports is nil; nothing wires against meta
func (m *Module) Ports() any { return nil }
