package httpkit

import (
	"path"

	"replyguard/internal/modkit/swaggerkit"
	phttp "replyguard/internal/platform/net/http"
	"replyguard/internal/platform/net/middleware"
)

// Protected groups routes under bearer auth and marks them secured in the swagger document
func Protected(r Router, p middleware.AuthPort, fn func(Router)) {
	r.Group(func(gr Router) {
		gr.Use(Auth(p))
		fn(&securedRouter{Router: gr})
	})
}

// securedRouter records every route it mounts, keeping track of nested prefixes
type securedRouter struct {
	Router
	base string
}

func joinPath(base, p string) string { return path.Join("/", base, p) }

func (s *securedRouter) Route(prefix string, fn func(Router)) {
	s.Router.Route(prefix, func(sub Router) {
		fn(&securedRouter{Router: sub, base: joinPath(s.base, prefix)})
	})
}

func (s *securedRouter) Group(fn func(Router)) {
	s.Router.Group(func(sub Router) { fn(&securedRouter{Router: sub, base: s.base}) })
}

func (s *securedRouter) Get(p string, h phttp.Handler) {
	swaggerkit.MarkSecure("get", joinPath(s.base, p))
	s.Router.Get(p, h)
}

func (s *securedRouter) Post(p string, h phttp.Handler) {
	swaggerkit.MarkSecure("post", joinPath(s.base, p))
	s.Router.Post(p, h)
}
