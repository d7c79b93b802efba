// Package modkit provides module wiring and core deps
package modkit

import (
	"dialdesk/internal/modkit/repokit"
	"dialdesk/internal/platform/config"
	"dialdesk/internal/platform/logger"
	"dialdesk/internal/platform/metrics"
	"dialdesk/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	CH      store.Clickhouse
	Metrics *metrics.Registry
}

// FromStore copies the store handles into deps
func FromStore(st *store.Store, cfg config.Conf, reg *metrics.Registry) Deps {
	return Deps{Log: st.Log, Cfg: cfg, PG: st.PG, CH: st.CH, Metrics: reg}
}
