package httpkit

import (
	"net/http"
	"time"

	"vaani/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	// CORSOrigins defaults to *
	CORSOrigins []string
	// Slow marks access log lines at warn level when exceeded
	Slow time.Duration
	// Quiet paths skip the access log, e.g. health probes
	Quiet []string
}

// CommonStack returns the baseline middleware for the versioned API
// there is no Timeout here: the stream route is long lived and the nlu service bounds its own work
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	stack := middleware.Defaults()
	return append(stack,
		middleware.AccessLog(middleware.AccessLogOptions{Slow: o.Slow, Skip: o.Quiet}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
	)
}
