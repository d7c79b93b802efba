package pg

import (
	"context"
	"strings"

	"dialdesk/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives every statement the store adapters run
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// maxSQLLen caps logged statements, bulk inserts can be long
const maxSQLLen = 2048

// Tracer logs every statement regardless of the root level once SQL logging is switched on
// argument values are never logged since bulk rows carry phone numbers and emails
func Tracer(root logger.Logger) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	if ev.Err != nil {
		evt = z.log.Error().Err(ev.Err)
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Int("args", len(ev.Args)).
		Msg("pg query")
}

// compact folds whitespace runs into single spaces and truncates to maxSQLLen
func compact(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > maxSQLLen {
		s = s[:maxSQLLen] + "..."
	}
	return s
}
