package pg

import (
	"context"
	"strings"
	"time"

	"vaani/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one executed statement
type QueryEvent struct {
	SQL     string
	Args    []any
	Elapsed time.Duration
	Err     error
	Slow    bool
}

// QueryTracer receives an event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement at debug and slow or failed ones at warn
// the level is pinned so SQL logging works regardless of the root level
func Tracer(root logger.Logger) QueryTracer {
	return &zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Debug()
	if ev.Slow || ev.Err != nil {
		evt = z.log.Warn()
	}
	evt.Dur("elapsed", ev.Elapsed).
		Bool("slow", ev.Slow).
		Str("sql", strings.Join(strings.Fields(ev.SQL), " ")).
		Int("args", len(ev.Args)).
		Err(ev.Err).
		Msg("pg query")
}

// Emit times a statement that started at start and reports it to t
// slowMs < 0 disables slow marking
func Emit(ctx context.Context, t QueryTracer, slowMs int, sql string, args []any, start time.Time, err error) {
	if t == nil {
		return
	}
	el := time.Since(start)
	t.OnQuery(ctx, QueryEvent{
		SQL:     sql,
		Args:    args,
		Elapsed: el,
		Err:     err,
		Slow:    slowMs >= 0 && el >= time.Duration(slowMs)*time.Millisecond,
	})
}
