// Package module wires bulk operations into the API using modkit
package module

import (
	"dialdesk/internal/core/phone"
	modkit "dialdesk/internal/modkit"
	"dialdesk/internal/modkit/httpkit"
	"dialdesk/internal/modkit/repokit"
	"dialdesk/internal/platform/config"
	str "dialdesk/internal/platform/strings"
	"dialdesk/internal/services/bulk/audit"
	"dialdesk/internal/services/bulk/domain"
	bulkhttp "dialdesk/internal/services/bulk/http"
	bulkrepo "dialdesk/internal/services/bulk/repo"
	bulksvc "dialdesk/internal/services/bulk/service"
)

// Ports is what the bulk module exposes to in-process callers
type Ports struct {
	Bulk domain.ServicePort
}

// Config holds the BULK_ tunables
type Config struct {
	Limits bulksvc.Limits
	Phone  phone.Normalizer
}

// FromConfig reads BULK_MAX_UPLOAD, BULK_MAX_IDS, BULK_EXPORT_MAX_ROWS,
// BULK_PHONE_REGION and BULK_PHONE_STRICT
func FromConfig(c config.Conf) Config {
	b := c.Prefix("BULK_")
	def := bulksvc.DefaultLimits()
	return Config{
		Limits: bulksvc.Limits{
			MaxUploadBytes: b.MayBytes("MAX_UPLOAD", def.MaxUploadBytes),
			MaxIDs:         b.MayInt("MAX_IDS", def.MaxIDs),
			ExportMaxRows:  b.MayInt("EXPORT_MAX_ROWS", def.ExportMaxRows),
		},
		Phone: phone.Normalizer{
			Region: b.MayString("PHONE_REGION", phone.DefaultRegion),
			Strict: b.MayBool("PHONE_STRICT", false),
		},
	}
}

// Module implements the bulk module
type Module struct {
	b   modkit.Built
	svc *bulksvc.Svc
}

// New constructs the bulk module, routes mount under /bulk
func New(deps modkit.Deps, cfg Config, opts ...modkit.Option) *Module {
	gw := repokit.MustBind(bulkrepo.NewPG(), deps.PG)

	svcOpts := []bulksvc.Option{
		bulksvc.WithLimits(cfg.Limits),
		bulksvc.WithAudit(audit.New(deps.CH)),
	}
	if deps.Metrics != nil {
		svcOpts = append(svcOpts, bulksvc.WithMetrics(bulksvc.NewMetrics(deps.Metrics.Factory())))
	}
	svc := bulksvc.New(gw, domain.NewSchemas(cfg.Phone), svcOpts...)

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("bulk"),
		modkit.WithPrefix("/bulk"),
		modkit.WithPorts(Ports{Bulk: svc}),
	}, opts...)...)

	return &Module{b: b, svc: svc}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) {
		bulkhttp.Register(rr, m.svc, m.svc.Limits().MaxUploadBytes)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.b.Name, "module name") }

// Ports returns the module ports
func (m *Module) Ports() any { return m.b.Ports }
