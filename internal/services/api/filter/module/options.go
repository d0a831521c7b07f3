package module

import (
	"net/http"

	"replyguard/internal/platform/config"
	"replyguard/internal/platform/net/middleware"
)

// Options holds configuration for the filter API module
type Options struct {
	// MaxBatch caps items per ingest call; 0 disables the cap
	MaxBatch int
	// Token, when set, puts every route behind a shared bearer token
	Token string
	// MaxInflight caps concurrent control requests; 0 disables the cap
	MaxInflight int
}

// FromConfig reads CORE_API_* settings
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_API_")
	return Options{
		MaxBatch: c.MayInt("INGEST_MAX_BATCH", 500),
		Token:    c.MayString("TOKEN", ""),

		MaxInflight: c.MayInt("MAX_INFLIGHT", 64),
	}
}

// Guards returns the request guards placed in front of the control routes
func Guards(o Options) []func(http.Handler) http.Handler {
	mws := []func(http.Handler) http.Handler{middleware.AllowContentType("application/json")}
	if o.MaxInflight > 0 {
		mws = append(mws, middleware.Throttle(o.MaxInflight))
	}
	return mws
}
