package middleware

import (
	"net/http"
	"runtime/debug"

	perr "vaani/internal/platform/errors"
	"vaani/internal/platform/logger"
	pnet "vaani/internal/platform/net"
	phttp "vaani/internal/platform/net/http"
)

// RecoverJSON turns a panic into a 500 error envelope and logs the stack
// http.ErrAbortHandler is re-raised so net/http can abort the connection
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if id := pnet.RequestID(r.Context()); id != "" {
				w.Header().Set("X-Request-ID", id)
			}
			phttp.RespondError(w, r, perr.PanicErrf("panic recovered"))
		}()
		next.ServeHTTP(w, r)
	})
}
