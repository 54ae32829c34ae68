// Package middleware holds the HTTP middleware stack shared by every module
package middleware

import (
	"net/http"
	"time"

	"vaani/internal/platform/logger"
	pnet "vaani/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow logs requests taking >= Slow at warn level, 0 disables
	Slow time.Duration
	// Skip lists exact paths that are not logged, e.g. health probes
	Skip []string
	// Log overrides the request scoped logger
	Log *logger.Logger
}

// AccessLog logs method, path, status, elapsed and bytes for each request
// the wrapped writer keeps Hijacker and Flusher so websocket upgrades pass through
func AccessLog(opt AccessLogOptions) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(opt.Skip))
	for _, p := range opt.Skip {
		skip[p] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			elapsed := time.Since(start)
			log := opt.Log
			if log == nil {
				log = logger.C(r.Context())
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			evt := log.Info()
			switch {
			case status >= 500:
				evt = log.Error()
			case opt.Slow > 0 && elapsed >= opt.Slow:
				evt = log.Warn().Bool("slow", true)
			}
			if opt.Log != nil {
				evt = evt.Str("request_id", pnet.RequestID(r.Context()))
			}
			evt.Int("status", status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("bytes", ww.BytesWritten()).
				Msg("request done")
		})
	}
}
