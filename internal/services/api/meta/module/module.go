// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"vaani/internal/core/rulepack"
	modkit "vaani/internal/modkit"
	"vaani/internal/modkit/httpkit"
	metahttp "vaani/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	b         modkit.Built
	deps      modkit.Deps
	startedAt time.Time
}

// New constructs a meta module mounted at the API root
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix(""),
	}, opts...)...)
	return &Module{b: b, deps: deps, startedAt: time.Now()}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	var pk *rulepack.Pack
	if m.deps.Pipeline != nil {
		pk = m.deps.Pipeline.Pack()
	}
	backends := map[string]any{}
	if m.deps.PG != nil {
		backends["pg"] = m.deps.PG
	}
	if m.deps.CH != nil {
		backends["ch"] = m.deps.CH
	}
	if m.deps.KV != nil {
		backends["redis"] = m.deps.KV
	}
	if m.deps.Bus != nil {
		backends["nats"] = m.deps.Bus
	}
	m.b.Mount(r, func(rr httpkit.Router) {
		metahttp.Register(rr, metahttp.Deps{
			ServiceName: "vaani-api",
			StartedAt:   m.startedAt,
			Pack:        pk,
			Backends:    backends,
		})
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
