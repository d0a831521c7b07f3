// Package api provides the HTTP API for the application
package api

import (
	"replyguard/internal/adapters/render"
	"replyguard/internal/platform/config"
	"replyguard/internal/platform/logger"
	phttp "replyguard/internal/platform/net/http"
	"replyguard/internal/platform/store"

	"replyguard/internal/modkit"
	"replyguard/internal/modkit/httpkit"
	"replyguard/internal/modkit/module"
	"replyguard/internal/modkit/swaggerkit"

	filterapi "replyguard/internal/services/api/filter/module"
	metamod "replyguard/internal/services/api/meta/module"

	filtermod "replyguard/internal/services/filter/module"
	filtersvc "replyguard/internal/services/filter/service"
	ledgermod "replyguard/internal/services/ledger/module"
	settingsmod "replyguard/internal/services/settings/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	// Renderer receives visibility changes; nil logs them
	Renderer render.Renderer
}

// Mount mounts the API service onto the given router and returns the filter
// session, which the caller must Load and Run
func Mount(r phttp.Router, opt Options) *filtersvc.Engine {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		KV:  opt.Store.KV,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// services first; the filter pulls its ports from ledger and settings
	settings := settingsmod.New(deps)
	ledger := ledgermod.New(deps, nil)
	filter := filtermod.New(deps, opt.Renderer, filtermod.WithDepsModules(ledger, settings))
	fp := module.MustPortsOf[filtermod.Ports](filter)

	// Inject the engine into the API module
	api := filterapi.New(deps,
		modkit.WithPorts(filterapi.Ports{Engine: fp.Engine}),
		modkit.WithMiddlewares(filterapi.Guards(filterapi.FromConfig(deps.Cfg))...),
	)

	mods := []module.Module{
		metamod.New(deps),
		settings,
		ledger,
		filter,
		api,
	}

	origins := opt.Config.Prefix("CORE_API_").MayCSV("CORS_ORIGINS", nil)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(origins...), func(v1 httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			m.MountRoutes(v1)
		}
	})

	return fp.Session
}
