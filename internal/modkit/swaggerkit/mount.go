package swaggerkit

import (
	"net/http"

	phttp "vaani/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount serves Swagger UI under /api/docs when enabled
func Mount(r phttp.Router, enabled bool, o Options) {
	if !enabled {
		return
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(o))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.InstanceName("api"),
		httpSwagger.URL("/api/docs/doc.json"),
	))
}
