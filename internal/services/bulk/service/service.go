// Package service contains the bulk import, update, delete and export workflows
package service

import (
	"context"
	"time"

	"dialdesk/internal/services/bulk/domain"

	"github.com/google/uuid"
)

// Service defines the bulk service contract
type Service interface {
	domain.ServicePort
}

// Limits bound request sizes
type Limits struct {
	// MaxUploadBytes caps an import file, larger files are refused before decoding
	MaxUploadBytes int64
	// MaxIDs caps the deduplicated id list of an update or delete
	MaxIDs int
	// ExportMaxRows caps an export
	ExportMaxRows int
}

// DefaultLimits are 10 MiB uploads, 100 ids and 50000 exported rows
func DefaultLimits() Limits {
	return Limits{MaxUploadBytes: 10 << 20, MaxIDs: 100, ExportMaxRows: 50000}
}

// Svc implements the bulk service
type Svc struct {
	gw      domain.Gateway
	schemas domain.Schemas
	limits  Limits
	audit   domain.AuditSink
	metrics *Metrics
	now     func() time.Time
	newID   func() string
}

// Option configures a Svc
type Option func(*Svc)

// WithLimits overrides DefaultLimits, zero fields keep the default
func WithLimits(l Limits) Option {
	return func(s *Svc) {
		if l.MaxUploadBytes > 0 {
			s.limits.MaxUploadBytes = l.MaxUploadBytes
		}
		if l.MaxIDs > 0 {
			s.limits.MaxIDs = l.MaxIDs
		}
		if l.ExportMaxRows > 0 {
			s.limits.ExportMaxRows = l.ExportMaxRows
		}
	}
}

// WithAudit records a run summary after every non dry-run call
func WithAudit(a domain.AuditSink) Option { return func(s *Svc) { s.audit = a } }

// WithMetrics attaches bulk collectors
func WithMetrics(m *Metrics) Option { return func(s *Svc) { s.metrics = m } }

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option { return func(s *Svc) { s.now = now } }

// New constructs a bulk service around gw
func New(gw domain.Gateway, schemas domain.Schemas, opts ...Option) *Svc {
	if gw == nil {
		panic("bulk.Service requires a non nil Gateway")
	}
	s := &Svc{
		gw:      gw,
		schemas: schemas,
		limits:  DefaultLimits(),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Limits returns the effective limits
func (s *Svc) Limits() Limits { return s.limits }

// record hands run to the audit sink, sink failures are logged and dropped
func (s *Svc) record(ctx context.Context, run domain.Run) {
	if s.audit == nil {
		return
	}
	run.ID = s.newID()
	if err := s.audit.Record(ctx, run); err != nil {
		log(ctx).Warn().Err(err).Str("op", run.Op).Str("entity", string(run.Entity)).Msg("bulk audit write failed")
	}
}
