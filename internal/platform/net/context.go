// Package net carries request scoped ids between transports and loggers
package net

import (
	"context"
	"net/http"
	"strings"

	"vaani/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// SessionHeader names the header a client uses to thread turns into one conversation
const SessionHeader = "X-Session-ID"

type ctxKey uint8

const keySessionID ctxKey = iota

// WithRequest annotates ctx with the request and session ids for handlers and the logger
func WithRequest(ctx context.Context, reqID, sessionID string) context.Context {
	if reqID != "" {
		// chi key so chimw.GetReqID sees it too
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if sessionID != "" {
		ctx = context.WithValue(ctx, keySessionID, sessionID)
	}
	return logger.WithRequest(ctx, reqID, sessionID)
}

// RequestID returns the request id on ctx if present
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// SessionID returns the session id on ctx if present
func SessionID(ctx context.Context) string {
	s, _ := ctx.Value(keySessionID).(string)
	return s
}

// Annotate copies the chi request id and the session header onto the request context
// and echoes the request id back in X-Request-ID
func Annotate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := strings.TrimSpace(r.Header.Get(SessionHeader))
		if len(sid) > 64 {
			sid = sid[:64]
		}
		rid := RequestID(r.Context())
		if rid != "" {
			w.Header().Set("X-Request-ID", rid)
		}
		ctx := WithRequest(r.Context(), rid, sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
