// Package module wires the nlu service into the API using modkit
package module

import (
	"context"
	"time"

	modkit "vaani/internal/modkit"
	"vaani/internal/modkit/httpkit"
	perr "vaani/internal/platform/errors"
	"vaani/internal/services/nlu/cache"
	"vaani/internal/services/nlu/domain"
	nluhttp "vaani/internal/services/nlu/http"
	nlusvc "vaani/internal/services/nlu/service"
)

// Options are read from config by FromConfig
type Options struct {
	Service nlusvc.Options
	Cache   cache.Options
	Stream  nluhttp.StreamOptions
}

// FromConfig reads CORE_NLU_* and the CORS origins for the stream
func FromConfig(d modkit.Deps) Options {
	c := d.Cfg.Prefix("CORE_NLU_")
	return Options{
		Service: nlusvc.OptionsFromConfig(c),
		Cache:   cache.OptionsFromConfig(c),
		Stream: nluhttp.StreamOptions{
			Origins: d.Cfg.Prefix("CORE_API_").MayCSV("CORS_ORIGINS", nil),
			Idle:    c.MayDuration("STREAM_IDLE", 60*time.Second),
		},
	}
}

// Ports is what the nlu module offers other modules
type Ports struct {
	Processor domain.ProcessorPort
	Inspector domain.InspectorPort
}

// Module implements the nlu module
type Module struct {
	b      modkit.Built
	svc    *nlusvc.Svc
	stream nluhttp.StreamOptions
}

// New constructs the nlu module; sinks receive every processed utterance
func New(deps modkit.Deps, o Options, sinks []domain.Named, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("nlu"), modkit.WithPrefix("/nlu")}, opts...)...)
	c := cache.New(o.Cache, deps.KV, deps.Log)
	svc := nlusvc.New(deps.Pipeline, c, o.Service, deps.Log, sinks...)
	return &Module{b: b, svc: svc, stream: o.Stream}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { nluhttp.Register(rr, m.svc, m.stream) })
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns the module ports
func (m *Module) Ports() any { return Ports{Processor: m.svc, Inspector: m.svc} }

// Close waits for in-flight sink calls or until ctx ends
func (m *Module) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() { m.svc.Close(); close(done) }()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return perr.FromContext(ctx.Err(), "nlu: draining sinks")
	}
}
