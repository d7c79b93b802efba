// Command dialdesk-api serves bulk import, update, delete and export over HTTP
package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"dialdesk/internal/modkit/repokit"
	"dialdesk/internal/platform/config"
	"dialdesk/internal/platform/logger"
	"dialdesk/internal/platform/metrics"
	phttp "dialdesk/internal/platform/net/http"
	"dialdesk/internal/platform/store"

	"dialdesk/internal/services/api"
	"dialdesk/internal/services/api/authn"
)

func main() {
	config.LoadDotEnv()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromConfig(root, "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	signer, err := authn.FromConfig(root)
	if err != nil {
		l.Panic().Err(err).Msg("CORE_API_AUTH_SECRET is required")
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	opt := api.OptionsFromConfig(root)
	opt.Store = st
	opt.Metrics = metrics.New()
	opt.Auth = signer.Port()
	api.Mount(srv.Router(), opt)

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			l.Error().Err(err).Msg("http shutdown")
		}
	}()

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
