// Package audit records bulk run summaries in ClickHouse
package audit

import (
	"context"
	"fmt"

	"dialdesk/internal/platform/store"
	"dialdesk/internal/services/bulk/domain"
)

// Table receives one row per non dry-run bulk call
const Table = "bulk_runs"

// DDL creates Table, columns are in Insert order
const DDL = `create table if not exists bulk_runs (
  run_id      UUID,
  op          LowCardinality(String),
  entity      LowCardinality(String),
  team_id     UUID,
  user_id     String,
  total       UInt32,
  success     UInt32,
  failed      UInt32,
  skipped     UInt32,
  started_at  DateTime64(3, 'UTC'),
  elapsed_ms  UInt64
) engine = MergeTree
partition by toYYYYMM(started_at)
order by (team_id, started_at)`

// CH writes runs through the store ClickHouse seam
type CH struct {
	ch store.Clickhouse
}

// New returns a ClickHouse sink, or Noop when ch is nil
func New(ch store.Clickhouse) domain.AuditSink {
	if ch == nil {
		return Noop{}
	}
	return CH{ch: ch}
}

// Migrate creates Table when missing
func Migrate(ctx context.Context, ch store.Clickhouse) error {
	if ch == nil {
		return nil
	}
	if err := ch.Exec(ctx, DDL); err != nil {
		return fmt.Errorf("audit: create %s: %w", Table, err)
	}
	return nil
}

// Record inserts one row
func (a CH) Record(ctx context.Context, run domain.Run) error {
	return a.ch.Insert(ctx, Table, [][]any{row(run)})
}

func row(run domain.Run) []any {
	return []any{
		run.ID,
		run.Op,
		string(run.Entity),
		run.TeamID,
		run.UserID,
		uint32(run.Total),
		uint32(run.Success),
		uint32(run.Failed),
		uint32(run.Skipped),
		run.StartedAt.UTC(),
		uint64(run.Elapsed.Milliseconds()),
	}
}

// Noop drops every run
type Noop struct{}

// Record does nothing
func (Noop) Record(context.Context, domain.Run) error { return nil }
