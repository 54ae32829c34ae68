// Package api provides the HTTP API for the application
package api

import (
	"context"
	"errors"
	"time"

	"vaani/internal/core/pipeline"
	"vaani/internal/platform/config"
	"vaani/internal/platform/logger"
	phttp "vaani/internal/platform/net/http"
	"vaani/internal/platform/store"

	"vaani/internal/modkit"
	"vaani/internal/modkit/httpkit"
	"vaani/internal/modkit/module"
	"vaani/internal/modkit/swaggerkit"

	analyticsmod "vaani/internal/services/analytics/module"
	metamod "vaani/internal/services/api/meta/module"
	eventsmod "vaani/internal/services/events/module"
	nludomain "vaani/internal/services/nlu/domain"
	nlumod "vaani/internal/services/nlu/module"
	turnsmod "vaani/internal/services/turns/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Pipeline       *pipeline.Pipeline
	EnableSwagger  bool
	EnableProfiler bool
}

// Closer drains background work started by Mount
type Closer func(ctx context.Context) error

// Mount builds the modules, mounts them under /api/v1 and returns their closer
func Mount(r phttp.Router, opt Options) Closer {
	log := opt.Logger
	if log == nil {
		log = logger.Get()
	}
	deps := modkit.DepsFrom(*log, opt.Config, opt.Pipeline, opt.Store)

	// sink owners first so nlu can fan out to them
	turns := turnsmod.New(deps)
	analytics := analyticsmod.New(deps)
	events := eventsmod.New(deps)

	var sinks []nludomain.Named
	for _, m := range []module.Module{turns, analytics, events} {
		if s, ok := module.PortsOf[nludomain.Sink](m); ok {
			sinks = append(sinks, nludomain.Named{Name: m.Name(), Sink: s})
		}
	}
	nlu := nlumod.New(deps, nlumod.FromConfig(deps), sinks)

	mods := []module.Module{
		metamod.New(deps),
		nlu,
		turns,
		analytics,
		events,
	}

	ac := opt.Config.Prefix("CORE_API_")
	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORSOrigins: ac.MayCSV("CORS_ORIGINS", nil),
		Slow:        ac.MayDuration("SLOW", 500*time.Millisecond),
		Quiet:       []string{"/api/v1/health", "/api/v1/ready"},
	})
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		module.MountAll(api, mods...)
	})

	// Swagger + profiler live outside the versioned stack
	swaggerkit.Mount(r, opt.EnableSwagger, swaggerkit.Options{})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	log.Info().Strs("modules", module.Names()).Int("sinks", len(sinks)).Msg("api mounted")

	// nlu first so its in-flight sink calls land before analytics flushes
	return func(ctx context.Context) error {
		return errors.Join(nlu.Close(ctx), analytics.Close(ctx))
	}
}
