// @title         Replyguard API
// @version       0.1.0
// @description   Control and ingestion endpoints for the reply spam filter

package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"replyguard/internal/modkit/repokit"
	"replyguard/internal/platform/config"
	"replyguard/internal/platform/logger"
	phttp "replyguard/internal/platform/net/http"
	"replyguard/internal/platform/store"

	"replyguard/internal/services/api"
)

func main() {
	// module config reads CORE_* from the root; HTTP knobs live under CORE_API_*
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	logger.Init(logger.FromEnv())
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// open the platform store (memory or sqlite KV)
	st, err := store.Open(ctx, store.ConfigFromEnv(root), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	session := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	// session state must be loaded before the first event is accepted
	session.Load(ctx)
	runDone := make(chan error, 1)
	go func() { runDone <- session.Run(ctx) }()

	srvDone := make(chan error, 1)
	go func() { srvDone <- srv.Run(ctx) }()

	select {
	case <-ctx.Done():
	case err := <-srvDone:
		if err != nil {
			l.Error().Err(err).Msg("http server stopped")
		}
		stop()
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		l.Error().Err(err).Msg("http shutdown")
	}
	if err := <-runDone; err != nil && !errors.Is(err, context.Canceled) {
		l.Error().Err(err).Msg("filter session stopped")
	}
	l.Info().Msg("bye")
}
