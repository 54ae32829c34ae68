// Package module wires the analytics service into the API using modkit
package module

import (
	"context"
	"time"

	modkit "vaani/internal/modkit"
	"vaani/internal/modkit/httpkit"
	"vaani/internal/services/analytics/domain"
	analyticshttp "vaani/internal/services/analytics/http"
	"vaani/internal/services/analytics/repo"
	"vaani/internal/services/analytics/service"
	nlu "vaani/internal/services/nlu/domain"
)

// Ports exposed by the analytics module; all nil when ClickHouse is not configured
type Ports struct {
	Recorder domain.RecorderPort
	Query    domain.QueryPort
	Sink     nlu.Sink
}

// Module implements the analytics service module
type Module struct {
	b     modkit.Built
	svc   *service.Service
	ports Ports
}

// New constructs the analytics module and starts its flusher when ClickHouse is configured
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)
	log := deps.Log.With().Str("module", "analytics").Logger()

	m := &Module{}
	if deps.CH == nil || !o.Enabled {
		log.Info().Bool("configured", deps.CH != nil).Msg("analytics disabled")
		m.b = modkit.Build(append([]modkit.Option{modkit.WithName("analytics"), modkit.WithDisabled(true)}, opts...)...)
		return m
	}

	r := repo.NewCH(deps.CH)
	if o.Migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := r.Migrate(ctx); err != nil {
			log.Error().Err(err).Msg("analytics schema migration failed")
		}
		cancel()
	}

	rec := service.NewRecorder(r, o.Recorder, log)
	m.svc = service.New(r, rec, service.Config{MaxWindow: o.MaxWindow})
	m.ports = Ports{Recorder: m.svc, Query: m.svc, Sink: Sink{Recorder: m.svc}}
	m.b = modkit.Build(append([]modkit.Option{
		modkit.WithName("analytics"),
		modkit.WithPrefix("/analytics"),
		modkit.WithPorts(m.ports),
	}, opts...)...)
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { analyticshttp.Register(rr, m.ports.Query) })
}

// Close flushes queued events
func (m *Module) Close(ctx context.Context) error {
	if m.svc == nil {
		return nil
	}
	return m.svc.Close(ctx)
}
