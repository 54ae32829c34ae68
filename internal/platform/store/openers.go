package store

import (
	"context"
	"fmt"
	"time"

	"vaani/internal/platform/store/bus"
	chx "vaani/internal/platform/store/ch"
	"vaani/internal/platform/store/pg"
	"vaani/internal/platform/store/rds"
)

// backoff doubles from start up to ceiling
type backoff struct{ cur, ceiling time.Duration }

func (b *backoff) next() time.Duration {
	d := b.cur
	if b.cur < b.ceiling {
		b.cur = min(b.cur*2, b.ceiling)
	}
	return d
}

// openPG opens the pool and only publishes the adapter once a ping succeeds
func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := max(cfg.PG.ConnectRetries, 1)
	timeout := cfg.PG.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	bo := backoff{cur: 150 * time.Millisecond, ceiling: 2 * time.Second}

	var lastErr error
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Msg("postgres not ready")
		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(bo.next()):
		}
	}
	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, ClientInfo: chx.BuildClientInfo(cfg.AppName, "")})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

var _ KV = (*rds.KV)(nil)

func openRedis(ctx context.Context, cfg Config) (KV, error) {
	c, err := rds.Open(ctx, rds.Config{URL: cfg.RDS.URL, ClientName: cfg.AppName})
	if err != nil {
		return nil, err
	}
	return rds.NewKV(c), nil
}

func openNATS(cfg Config) (Bus, error) {
	c, err := bus.Open(bus.Config{URL: cfg.NATS.URL, Name: cfg.AppName})
	if err != nil {
		return nil, err
	}
	return c, nil
}
