// Package module wires the events publisher into the API using modkit
package module

import (
	"context"

	modkit "vaani/internal/modkit"
	"vaani/internal/modkit/httpkit"
	"vaani/internal/services/events/domain"
	"vaani/internal/services/events/service"
	nlu "vaani/internal/services/nlu/domain"
)

// Ports exposed by the events module
type Ports struct {
	Publisher domain.PublisherPort
	Sink      nlu.Sink
}

// Module implements the events module; it has no routes
type Module struct {
	b     modkit.Built
	ports Ports
}

// New constructs the events module; without NATS it exposes no sink
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	ef := deps.Cfg.Prefix("CORE_EVENTS_")
	pub := service.New(deps.Bus, service.Config{
		Subject:     ef.MayString("SUBJECT", "vaani.intent"),
		SkipUnknown: ef.MayBool("SKIP_UNKNOWN", true),
	})

	m := &Module{ports: Ports{Publisher: pub}}
	if deps.Bus != nil {
		m.ports.Sink = Sink{Publisher: pub}
	} else {
		deps.Log.Info().Str("module", "events").Msg("nats not configured, intent events disabled")
	}
	m.b = modkit.Build(append([]modkit.Option{
		modkit.WithName("events"),
		modkit.WithDisabled(true),
		modkit.WithPorts(m.ports),
	}, opts...)...)
	return m
}

// Sink publishes every processed utterance as an intent event
type Sink struct{ Publisher domain.PublisherPort }

// Observe implements the nlu sink contract
func (s Sink) Observe(ctx context.Context, o nlu.Observation) error {
	return s.Publisher.Publish(ctx, domain.IntentEvent{
		ID:        o.ID,
		SessionID: o.SessionID,
		At:        o.At.UTC(),
		Result:    o.Result,
	})
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.b.Name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) { m.b.Mount(r, nil) }
