package http

import (
	stdctx "context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vaani/internal/core/rulepack"
	phttp "vaani/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(stdctx.Context) error { return p.err }

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func get(t *testing.T, d Deps, path string) (int, envelope) {
	t.Helper()
	mux := chi.NewRouter()
	Register(phttp.AdaptChi(mux), d)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestHealth(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d := Deps{ServiceName: "vaani-api", StartedAt: start, Now: func() time.Time { return start.Add(90 * time.Second) }}
	code, env := get(t, d, "/health")
	var h HealthResponse
	if err := json.Unmarshal(env.Data, &h); err != nil || code != stdhttp.StatusOK {
		t.Fatalf("health = %d %s", code, env.Data)
	}
	if !h.OK || h.Uptime != 90 || h.Service != "vaani-api" {
		t.Fatalf("health = %+v", h)
	}
}

func TestReady(t *testing.T) {
	code, env := get(t, Deps{Backends: map[string]any{"pg": pinger{}, "ch": nil, "odd": struct{}{}}}, "/ready")
	var rr ReadyResponse
	if err := json.Unmarshal(env.Data, &rr); err != nil || code != stdhttp.StatusOK {
		t.Fatalf("ready = %d %s", code, env.Data)
	}
	if len(rr.Checks) != 2 || rr.Checks[0].Name != "odd" || rr.Checks[0].Status != "unknown" || rr.Checks[1].Status != "ok" {
		t.Fatalf("checks = %+v", rr.Checks)
	}

	code, env = get(t, Deps{Backends: map[string]any{"redis": pinger{err: errors.New("refused")}}}, "/ready")
	if code != stdhttp.StatusServiceUnavailable || env.Error == nil || env.Error.Code != "unavailable" {
		t.Fatalf("failing backend = %d %+v", code, env.Error)
	}
}

func TestVersionAndPack(t *testing.T) {
	pk := rulepack.MustLoad()
	d := Deps{ServiceName: "vaani-api", Pack: pk}

	_, env := get(t, d, "/version")
	var v struct {
		Service string `json:"service"`
		Rules   int    `json:"rules_version"`
	}
	if err := json.Unmarshal(env.Data, &v); err != nil || v.Service != "vaani-api" || v.Rules != rulepack.Version {
		t.Fatalf("version = %s", env.Data)
	}

	_, env = get(t, d, "/pack")
	var p PackResponse
	if err := json.Unmarshal(env.Data, &p); err != nil {
		t.Fatal(err)
	}
	if p.Default != "en" || len(p.Intents) == 0 || p.Rules != len(pk.Rules) {
		t.Fatalf("pack = %+v", p)
	}

	if code, _ := get(t, Deps{}, "/pack"); code != stdhttp.StatusServiceUnavailable {
		t.Fatalf("pack without rules = %d", code)
	}
}
