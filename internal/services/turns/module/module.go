// Package module wires the turns service into the API using modkit
package module

import (
	"context"
	"time"

	modkit "vaani/internal/modkit"
	"vaani/internal/modkit/httpkit"
	"vaani/internal/modkit/repokit"
	nlu "vaani/internal/services/nlu/domain"
	"vaani/internal/services/turns/domain"
	turnshttp "vaani/internal/services/turns/http"
	"vaani/internal/services/turns/repo"
	"vaani/internal/services/turns/service"
)

// Ports exposed by the turns module; all nil when Postgres is not configured
type Ports struct {
	Recorder domain.RecorderPort
	Query    domain.QueryPort
	Sink     nlu.Sink
}

// Module implements the turns service module
type Module struct {
	b     modkit.Built
	ports Ports
}

// New constructs the turns module; without Postgres it mounts nothing and records nothing
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)
	log := deps.Log.With().Str("module", "turns").Logger()

	m := &Module{}
	if deps.PG == nil || !o.Enabled {
		log.Info().Bool("configured", deps.PG != nil).Msg("turns disabled")
		m.b = modkit.Build(append([]modkit.Option{modkit.WithName("turns"), modkit.WithDisabled(true)}, opts...)...)
		return m
	}

	if o.Migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := repo.Migrate(ctx, deps.PG); err != nil {
			log.Error().Err(err).Msg("turns schema migration failed")
		}
		cancel()
	}

	db := repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(int(o.StatementTimeout/time.Millisecond)))
	svc := service.New(db, repo.NewPG(), service.Config{HardLimit: o.HardLimit})
	m.ports = Ports{Recorder: svc, Query: svc, Sink: Sink{Recorder: svc}}
	m.b = modkit.Build(append([]modkit.Option{
		modkit.WithName("turns"),
		modkit.WithPrefix("/turns"),
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
	m.b.Mount(r, func(rr httpkit.Router) { turnshttp.Register(rr, m.ports.Query) })
}
