// Package http provides http transport for the analytics service
package http

import (
	stdhttp "net/http"
	"time"

	"vaani/internal/modkit/httpkit"
	perr "vaani/internal/platform/errors"
	ptime "vaani/internal/platform/time"
	"vaani/internal/services/analytics/domain"
)

// Register mounts the analytics endpoints on the given router
func Register(r httpkit.Router, q domain.QueryPort) {
	h := &handlers{q: q, now: time.Now}
	httpkit.GetJSON(r, "/intents", h.intents)
	httpkit.GetJSON(r, "/languages", h.languages)
}

type handlers struct {
	q   domain.QueryPort
	now func() time.Time
}

func (h *handlers) window(r *stdhttp.Request) (domain.Window, error) {
	q := r.URL.Query()
	w, err := ptime.ParseWindow(q.Get("since"), q.Get("until"), h.now(), 24*time.Hour)
	if err != nil {
		return w, perr.WithField(perr.InvalidArgf("window: %v", err), "since")
	}
	return w, nil
}

// @Summary Intent histogram over a window
// @Tags Analytics
// @Produce json
// @Param since query string false "RFC3339 or a duration back from now, default 24h"
// @Param until query string false "RFC3339 or a duration back from now, default now"
// @Success 200 {object} domain.IntentReport "ok"
// @Router /analytics/intents [get]
func (h *handlers) intents(r *stdhttp.Request) (any, error) {
	w, err := h.window(r)
	if err != nil {
		return nil, err
	}
	rows, err := h.q.IntentCounts(r.Context(), w)
	if err != nil {
		return nil, err
	}
	rep := domain.IntentReport{Window: w, Rows: rows}
	for _, c := range rows {
		rep.Total += c.Count
	}
	return rep, nil
}

// @Summary Language histogram over a window
// @Tags Analytics
// @Produce json
// @Param since query string false "RFC3339 or a duration back from now, default 24h"
// @Param until query string false "RFC3339 or a duration back from now, default now"
// @Success 200 {object} domain.LanguageReport "ok"
// @Router /analytics/languages [get]
func (h *handlers) languages(r *stdhttp.Request) (any, error) {
	w, err := h.window(r)
	if err != nil {
		return nil, err
	}
	rows, err := h.q.LanguageCounts(r.Context(), w)
	if err != nil {
		return nil, err
	}
	rep := domain.LanguageReport{Window: w, Rows: rows}
	for _, c := range rows {
		rep.Total += c.Count
	}
	return rep, nil
}
