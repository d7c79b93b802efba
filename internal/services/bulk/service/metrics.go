package service

import (
	"context"
	"time"

	"dialdesk/internal/platform/logger"
	"dialdesk/internal/platform/metrics"
	"dialdesk/internal/services/bulk/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the bulk collectors, a nil *Metrics records nothing
type Metrics struct {
	rows      *prometheus.CounterVec
	mutations *prometheus.CounterVec
	aborted   *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// NewMetrics registers the bulk collectors with f
func NewMetrics(f promauto.Factory) *Metrics {
	return &Metrics{
		rows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "bulk",
			Name:      "import_rows_total",
			Help:      "Imported rows by entity, outcome status and dry-run flag.",
		}, []string{"entity", "status", "dry_run"}),
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "bulk",
			Name:      "mutation_ids_total",
			Help:      "Ids processed by bulk update or delete by entity and result.",
		}, []string{"op", "entity", "result"}),
		aborted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: "bulk",
			Name:      "aborted_total",
			Help:      "Bulk requests that failed as a whole, by op and reason.",
		}, []string{"op", "entity", "reason"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: "bulk",
			Name:      "duration_seconds",
			Help:      "Wall time of a bulk request by op and entity.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"op", "entity"}),
	}
}

func (m *Metrics) observeImport(res domain.ImportResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	dry := "false"
	if res.DryRun {
		dry = "true"
	}
	e := string(res.Entity)
	m.rows.WithLabelValues(e, string(domain.StatusAccepted), dry).Add(float64(res.Success))
	m.rows.WithLabelValues(e, string(domain.StatusRejected), dry).Add(float64(res.Failed))
	m.rows.WithLabelValues(e, string(domain.StatusSkipped), dry).Add(float64(res.Skipped))
	m.duration.WithLabelValues(domain.OpImport, e).Observe(elapsed.Seconds())
}

func (m *Metrics) observeMutation(op string, res domain.BulkMutationResult, elapsed time.Duration) {
	if m == nil {
		return
	}
	e := string(res.Entity)
	m.mutations.WithLabelValues(op, e, "success").Add(float64(res.Success))
	m.mutations.WithLabelValues(op, e, "failed").Add(float64(res.Failed))
	m.duration.WithLabelValues(op, e).Observe(elapsed.Seconds())
}

func (m *Metrics) abort(op string, e domain.EntityType, reason string) {
	if m == nil {
		return
	}
	m.aborted.WithLabelValues(op, string(e), reason).Inc()
}

func log(ctx context.Context) *logger.Logger {
	l := logger.C(ctx).With().Str("component", "bulk").Logger()
	return &l
}
