// Package store opens the optional backends behind small seams
// a zero Store is valid: every backend is nil and callers fall back to noops
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vaani/internal/platform/logger"
	"vaani/internal/platform/store/rds"
)

// Store is the facade for optional backends
type Store struct {
	// Log is the logger used by subclients
	Log logger.Logger

	// PG is the postgres seam, nil when disabled
	PG TxRunner
	// CH is the clickhouse seam, nil when disabled
	CH Clickhouse
	// KV is the redis seam, nil when disabled
	KV KV
	// Bus is the nats seam, nil when disabled
	Bus Bus
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes the minimal iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag is a tiny interface to inspect command results
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the read and write surface repos use for sql
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner wraps transaction execution around a function
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the seam for columnar batch writes and aggregate reads
type Clickhouse interface {
	Insert(ctx context.Context, table string, columns []string, rows [][]any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Exec(ctx context.Context, sql string, args ...any) error
	Close() error
}

// ErrMiss is returned by KV.Get when the key does not exist
var ErrMiss = rds.ErrMiss

// KV is the seam for a shared byte cache with TTLs
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// Bus is the seam for fire and forget publishing
type Bus interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store with the backends enabled in cfg
// on failure the backends opened so far are closed
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Str("component", "store").Logger()

	steps := []struct {
		on   bool
		name string
		open func() error
	}{
		{cfg.PG.Enabled, "pg", func() (err error) { s.PG, err = openPG(ctx, cfg, s); return }},
		{cfg.CH.Enabled, "ch", func() (err error) { s.CH, err = openCH(ctx, cfg); return }},
		{cfg.RDS.Enabled, "redis", func() (err error) { s.KV, err = openRedis(ctx, cfg); return }},
		{cfg.NATS.Enabled, "nats", func() (err error) { s.Bus, err = openNATS(cfg); return }},
	}
	for _, st := range steps {
		if !st.on {
			continue
		}
		if err := st.open(); err != nil {
			_ = s.Close(context.Background())
			return nil, fmt.Errorf("store: open %s: %w", st.name, err)
		}
		s.Log.Info().Str("backend", st.name).Msg("backend ready")
	}
	return s, nil
}

// Backends returns the seams that are set keyed by backend name
func (s *Store) Backends() map[string]any {
	out := map[string]any{}
	if s == nil {
		return out
	}
	if s.PG != nil {
		out["pg"] = s.PG
	}
	if s.CH != nil {
		out["ch"] = s.CH
	}
	if s.KV != nil {
		out["redis"] = s.KV
	}
	if s.Bus != nil {
		out["nats"] = s.Bus
	}
	return out
}

// Guard pings every configured seam that can be pinged
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	var errs []error
	for name, b := range s.Backends() {
		if p, ok := b.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes all initialized backends; nil backends are ignored
func (s *Store) Close(context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	for name, b := range s.Backends() {
		if c, ok := b.(interface{ Close() error }); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
		}
	}
	return errors.Join(errs...)
}
