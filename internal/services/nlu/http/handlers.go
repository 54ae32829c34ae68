// Package http provides http transport for the nlu pipeline
package http

import (
	stdhttp "net/http"

	"vaani/internal/modkit/httpkit"
	pnet "vaani/internal/platform/net"
	"vaani/internal/services/nlu/domain"
)

// Register mounts the nlu endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort, so StreamOptions) {
	h := &handlers{svc: s}

	// full pipeline
	httpkit.PostJSON(r, "/process", h.process)
	httpkit.PostJSON(r, "/batch", h.batch, httpkit.JSONOptions{MaxBytes: 4 << 20})

	// single stages
	httpkit.PostJSON(r, "/language", h.language)
	httpkit.PostJSON(r, "/intent", h.intent)
	httpkit.PostJSON(r, "/entities", h.entities)
	httpkit.PostJSON(r, "/split", h.split)

	httpkit.GetJSON(r, "/rules", h.rules)
	r.Get("/stream", newStream(s, so).serve)
}

type handlers struct{ svc domain.ServicePort }

// @Summary Run the full pipeline on one utterance
// @Tags NLU
// @Accept json
// @Produce json
// @Param payload body domain.ProcessRequest true "Utterance"
// @Success 200 {object} domain.Result "ok"
// @Router /nlu/process [post]
func (h *handlers) process(r *stdhttp.Request, in domain.ProcessRequest) (any, error) {
	sid := in.SessionID
	if sid == "" {
		sid = pnet.SessionID(r.Context())
	}
	return h.svc.Process(r.Context(), domain.ProcessInput{Text: in.Text, SessionID: sid})
}

// @Summary Run the pipeline on many utterances
// @Tags NLU
// @Accept json
// @Produce json
// @Param payload body domain.BatchRequest true "Utterances"
// @Success 200 {object} domain.BatchResponse "ok"
// @Router /nlu/batch [post]
func (h *handlers) batch(r *stdhttp.Request, in domain.BatchRequest) (any, error) {
	out, err := h.svc.Batch(r.Context(), in.Texts)
	if err != nil {
		return nil, err
	}
	return domain.BatchResponse{Count: len(out), Results: out}, nil
}

// @Summary Language classifier only
// @Tags NLU
// @Router /nlu/language [post]
func (h *handlers) language(r *stdhttp.Request, in domain.TextRequest) (any, error) {
	return h.svc.Language(r.Context(), in.Text)
}

// @Summary Intent matcher only
// @Tags NLU
// @Router /nlu/intent [post]
func (h *handlers) intent(r *stdhttp.Request, in domain.TextRequest) (any, error) {
	return h.svc.Intent(r.Context(), in.Text)
}

// @Summary Entity extractor only
// @Tags NLU
// @Router /nlu/entities [post]
func (h *handlers) entities(r *stdhttp.Request, in domain.TextRequest) (any, error) {
	return h.svc.Entities(r.Context(), in.Text)
}

// @Summary Multi-intent splitter only
// @Tags NLU
// @Router /nlu/split [post]
func (h *handlers) split(r *stdhttp.Request, in domain.TextRequest) (any, error) {
	parts, err := h.svc.Split(r.Context(), in.Text)
	if err != nil {
		return nil, err
	}
	return domain.SplitResponse{Parts: parts}, nil
}

// @Summary Intent rules in evaluation order
// @Tags NLU
// @Router /nlu/rules [get]
func (h *handlers) rules(r *stdhttp.Request) (any, error) {
	return h.svc.Rules(r.Context())
}
