// Package api provides the HTTP API for the application
package api

import (
	"time"

	"dialdesk/internal/platform/config"
	"dialdesk/internal/platform/metrics"
	phttp "dialdesk/internal/platform/net/http"
	"dialdesk/internal/platform/net/middleware"
	"dialdesk/internal/platform/store"

	"dialdesk/internal/modkit"
	"dialdesk/internal/modkit/httpkit"
	"dialdesk/internal/modkit/swaggerkit"

	metamod "dialdesk/internal/services/api/meta/module"
	bulkmod "dialdesk/internal/services/bulk/module"
)

// Options are the API options
type Options struct {
	// Config is the unprefixed root, modules pick their own prefixes
	Config  config.Conf
	Store   *store.Store
	Metrics *metrics.Registry
	// Auth resolves bearer tokens on protected routes
	Auth middleware.AuthPort

	EnableSwagger  bool
	EnableProfiler bool
	EnableMetrics  bool
	CORSOrigins    []string
	SlowRequest    time.Duration
	Timeout        time.Duration
}

// OptionsFromConfig reads the CORE_API_ switches under root
func OptionsFromConfig(root config.Conf) Options {
	c := root.Prefix("CORE_API_")
	return Options{
		Config:         root,
		EnableSwagger:  c.MayBool("SWAGGER", true),
		EnableProfiler: c.MayBool("PROFILER", false),
		EnableMetrics:  c.MayBool("METRICS", true),
		CORSOrigins:    c.MayCSV("CORS_ORIGINS", nil),
		SlowRequest:    c.MayDuration("SLOW_REQUEST", 2*time.Second),
		Timeout:        c.MayDuration("TIMEOUT", 2*time.Minute),
	}
}

// Mount mounts the API service onto the given router and returns the mounted modules
func Mount(r phttp.Router, opt Options) []modkit.Module {
	reg := opt.Metrics
	if reg == nil {
		reg = metrics.New()
	}
	deps := modkit.FromStore(opt.Store, opt.Config, reg)

	// outer chain, must precede any route
	r.Use(middleware.Defaults(opt.Timeout)...)
	if len(opt.CORSOrigins) > 0 {
		r.Use(middleware.CORS(middleware.CORSOptions{AllowedOrigins: opt.CORSOrigins, MaxAge: 300}))
	}
	r.Use(middleware.AccessLogZerolog(middleware.AccessLogOptions{
		Slow:    opt.SlowRequest,
		Observe: reg.ObserveHTTP,
	}))

	if opt.EnableMetrics {
		r.Handle("/metrics", reg.Handler())
	}
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	mods := []modkit.Module{
		metamod.New(deps),
		bulkmod.New(deps, bulkmod.FromConfig(opt.Config), modkit.WithAuth(opt.Auth)),
	}

	httpkit.MountAPIV1(r, nil, func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
	return mods
}
