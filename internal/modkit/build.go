package modkit

import (
	"net/http"

	"dialdesk/internal/modkit/httpkit"
	"dialdesk/internal/platform/net/middleware"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
	Auth   middleware.AuthPort

	// router hooks set via options and exposed to modules
	Subrouter func(httpkit.Router) httpkit.Router
	Register  func(httpkit.Router)
}

// Build applies Option funcs to an internal buildCfg and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.subrouter == nil {
		c.subrouter = func(r httpkit.Router) httpkit.Router { return r }
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:     c.ports,
		Auth:      c.auth,
		Subrouter: c.subrouter,
		Register:  c.register,
	}
}

// Mount registers b under its prefix with its middleware
// when Auth is set every route sits behind bearer auth
func (b Built) Mount(r httpkit.Router, routes func(httpkit.Router)) {
	mount := func(sub httpkit.Router) {
		if len(b.Mw) > 0 {
			sub.Use(b.Mw...)
		}
		sub = b.Subrouter(sub)
		b.Register(sub)
		if b.Auth != nil {
			httpkit.Protected(sub, b.Auth, routes)
			return
		}
		routes(sub)
	}
	if b.Prefix == "" {
		r.Group(mount)
		return
	}
	r.Route(b.Prefix, mount)
}
