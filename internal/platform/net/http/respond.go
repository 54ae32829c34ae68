// Package http provides routing, serving and a consistent JSON envelope
package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "vaani/internal/platform/errors"
	pnet "vaani/internal/platform/net"
)

// Envelope is the response body for every JSON endpoint
type Envelope struct {
	OK        bool       `json:"ok"`
	Data      any        `json:"data,omitempty"`
	Error     *perr.Wire `json:"error,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
}

// JSON writes v as application/json with the given status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// RespondOK writes a 200 envelope with data
func RespondOK(w stdhttp.ResponseWriter, r *stdhttp.Request, data any) {
	JSON(w, stdhttp.StatusOK, Envelope{OK: true, Data: data, RequestID: pnet.RequestID(r.Context())})
}

// RespondError maps err to a status and an error envelope
func RespondError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status, wire := perr.HTTP(err)
	JSON(w, status, Envelope{Error: &wire, RequestID: pnet.RequestID(r.Context())})
}

// Response is a functional response for return-style handlers
type Response struct {
	Status int
	Body   any
	Header stdhttp.Header
}

// Handle adapts a Response-returning handler to net/http
func Handle(h func(r *stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		h(r).write(w, r)
	}
}

func (resp Response) write(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	for k, vv := range resp.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	if err, ok := resp.Body.(error); ok && err != nil {
		RespondError(w, r, err)
		return
	}
	status := resp.Status
	if status == 0 {
		status = stdhttp.StatusOK
	}
	if status == stdhttp.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	JSON(w, status, Envelope{OK: true, Data: resp.Body, RequestID: pnet.RequestID(r.Context())})
}

// OK returns a 200 response
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Body: data} }

// Created returns a 201 response
func Created(data any) Response { return Response{Status: stdhttp.StatusCreated, Body: data} }

// NoContent returns a 204 response
func NoContent() Response { return Response{Status: stdhttp.StatusNoContent} }

// Error returns a response whose status and envelope come from err
func Error(err error) Response { return Response{Body: err} }
