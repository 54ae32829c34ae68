// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"sort"
	"strings"
	"time"

	"vaani/internal/core/rulepack"
	"vaani/internal/core/version"
	"vaani/internal/modkit/httpkit"
	perr "vaani/internal/platform/errors"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Pack        *rulepack.Pack
	// Backends maps a backend name to its seam; nil seams are skipped
	Backends map[string]any
	// Now is swapped in tests
	Now func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handlers{deps: d}

	httpkit.GetJSON(r, "/health", h.health)
	httpkit.GetJSON(r, "/ready", h.ready)
	httpkit.GetJSON(r, "/version", h.version)
	httpkit.GetJSON(r, "/pack", h.pack)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"vaani-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
	Now     string `json:"now"     example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail unknown
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// PackResponse summarizes the loaded rule pack
type PackResponse struct {
	Version   int      `json:"version"   example:"1"`
	Name      string   `json:"name,omitempty"`
	Intents   []string `json:"intents"`
	Languages []string `json:"languages"`
	Default   string   `json:"default_language" example:"en"`
	Rules     int      `json:"rules"`
	Fallback  int      `json:"fallback_keywords"`
}

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse "ok"
// @Router /health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	now := h.deps.Now()
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(now.Sub(h.deps.StartedAt) / time.Second),
		Now:     now.UTC().Format(time.RFC3339),
	}, nil
}

// @Summary Readiness probe with a ping per configured backend
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse "ok"
// @Failure 503 {object} httpkit.Envelope "a backend failed its ping"
// @Router /ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.deps.Backends))
	for n := range h.deps.Backends {
		names = append(names, n)
	}
	sort.Strings(names)

	checks := make([]ReadyCheck, 0, len(names))
	var failed []string
	for _, n := range names {
		c := h.deps.Backends[n]
		if c == nil {
			continue
		}
		p, ok := c.(Pinger)
		if !ok {
			checks = append(checks, ReadyCheck{Name: n, Status: "unknown"})
			continue
		}
		if err := p.Ping(ctx); err != nil {
			checks = append(checks, ReadyCheck{Name: n, Status: "fail", Error: err.Error()})
			failed = append(failed, n)
			continue
		}
		checks = append(checks, ReadyCheck{Name: n, Status: "ok"})
	}

	if len(failed) > 0 {
		return nil, perr.Unavailablef("not ready: %s", strings.Join(failed, ", "))
	}
	return ReadyResponse{Status: "ok", Checks: checks, Now: h.deps.Now().UTC().Format(time.RFC3339)}, nil
}

// @Summary Build and rule pack version
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo "ok"
// @Router /version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	info := version.Info(h.deps.ServiceName)
	if h.deps.Pack != nil {
		info = info.WithRules(h.deps.Pack.Version)
	}
	return info, nil
}

// @Summary Loaded rule pack summary
// @Tags Meta
// @Produce json
// @Success 200 {object} PackResponse "ok"
// @Router /pack [get]
func (h *handlers) pack(_ *http.Request) (any, error) {
	pk := h.deps.Pack
	if pk == nil {
		return nil, perr.Unavailablef("no rule pack loaded")
	}
	langs := make([]string, 0, len(pk.Languages))
	for _, l := range pk.Languages {
		langs = append(langs, l.Code)
	}
	return PackResponse{
		Version:   pk.Version,
		Name:      pk.Name,
		Intents:   pk.Intents(),
		Languages: langs,
		Default:   pk.Default(),
		Rules:     len(pk.Rules),
		Fallback:  len(pk.Fallback),
	}, nil
}
