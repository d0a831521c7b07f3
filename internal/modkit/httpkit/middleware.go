package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	phttp "replyguard/internal/platform/net/http"
	"replyguard/internal/platform/net/middleware"
)

// CommonStack returns a baseline per module middleware slice
// origins restrict CORS; none allows any origin
func CommonStack(origins ...string) []middleware.Middleware {
	return []middleware.Middleware{
		// tracing / correlation
		middleware.RequestID,
		middleware.RealIP,

		// safety
		middleware.RecoverJSON,

		// cache / freshness
		middleware.NoCache,

		// observability
		middleware.ViewContext,
		middleware.AccessLog(middleware.AccessLogOptions{Slow: 500 * time.Millisecond}),

		// cross-origin
		middleware.CORS(origins...),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes,
		middleware.StripSlashes,
		middleware.Timeout(30 * time.Second),
	}
}

// Auth wires the auth middleware to the platform JSON writer
func Auth(p middleware.AuthPort) func(http.Handler) http.Handler {
	// middleware expects write func(w http.ResponseWriter, status int, body any)
	// use phttp.JSON which matches that signature
	return middleware.Auth(p, phttp.JSON)
}
