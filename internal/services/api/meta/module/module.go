// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	modkit "dialdesk/internal/modkit"
	"dialdesk/internal/modkit/httpkit"
	str "dialdesk/internal/platform/strings"

	metahttp "dialdesk/internal/services/api/meta/http"
)

// ServiceName is reported by health, version and service
const ServiceName = "dialdesk-api"

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	md := metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   time.Now(),
		Probes:      []metahttp.Probe{{Name: "pg"}, {Name: "ch"}},
	}
	// a typed nil inside any would not read as skipped
	if deps.PG != nil {
		md.Probes[0].Target = deps.PG
	}
	if deps.CH != nil {
		md.Probes[1].Target = deps.CH
	}
	return &Module{b: b, deps: md}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.b.Name, "meta") }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
