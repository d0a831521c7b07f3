// Package middleware adapts chi and go-chi/cors to plain
// func(http.Handler) http.Handler values so modules never import chi
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the shape every entry of a stack has
type Middleware = func(http.Handler) http.Handler

// chi middlewares that take no options
var (
	RequestID       Middleware = chimw.RequestID
	RealIP          Middleware = chimw.RealIP
	NoCache         Middleware = chimw.NoCache
	RedirectSlashes Middleware = chimw.RedirectSlashes
	StripSlashes    Middleware = chimw.StripSlashes
)

// Timeout cancels the request context after d and answers 504 if nothing was written
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// compressible covers the JSON API and the swagger UI assets
var compressible = []string{"application/json", "text/html", "text/css", "text/plain", "application/javascript"}

// Compress gzips/deflates compressible responses at level (flate constants)
func Compress(level int) Middleware { return chimw.Compress(level, compressible...) }

// AllowContentType answers 415 to bodies of any other type; bodiless requests pass
func AllowContentType(ct ...string) Middleware { return chimw.AllowContentType(ct...) }

// Throttle answers 429 once limit requests are in flight
func Throttle(limit int) Middleware { return chimw.Throttle(limit) }

// Heartbeat answers GET/HEAD path with "." before routing
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// CORS admits origins, or any origin when none are given. The companion
// only sends GET and POST plus preflights
func CORS(origins ...string) Middleware {
	return chicors.Handler(chicors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID", ViewHeader},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})
}
