// Package http provides http transport for the turns service
package http

import (
	stdhttp "net/http"
	"strconv"

	"vaani/internal/modkit/httpkit"
	perr "vaani/internal/platform/errors"
	"vaani/internal/services/turns/domain"

	"github.com/google/uuid"
)

// Register mounts the turns endpoints on the given router
func Register(r httpkit.Router, q domain.QueryPort) {
	h := &handlers{q: q}
	httpkit.GetJSON(r, "/", h.list)
	httpkit.GetJSON(r, "/{id}", h.get)
}

type handlers struct{ q domain.QueryPort }

// @Summary Turns of one session, newest first
// @Tags Turns
// @Produce json
// @Param session_id query string true "Session"
// @Param limit query int false "Max rows, clamped"
// @Success 200 {object} domain.ListResponse "ok"
// @Router /turns [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	sid := r.URL.Query().Get("session_id")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, perr.WithField(perr.InvalidArgf("limit must be an integer"), "limit")
		}
		limit = n
	}
	out, err := h.q.ListBySession(r.Context(), sid, limit)
	if err != nil {
		return nil, err
	}
	return domain.ListResponse{SessionID: sid, Count: len(out), Turns: out}, nil
}

// @Summary One turn by id
// @Tags Turns
// @Produce json
// @Param id path string true "Turn id"
// @Success 200 {object} domain.Turn "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /turns/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := uuid.Parse(httpkit.Param(r, "id"))
	if err != nil {
		return nil, perr.WithField(perr.InvalidArgf("id must be a uuid"), "id")
	}
	return h.q.Get(r.Context(), id)
}
