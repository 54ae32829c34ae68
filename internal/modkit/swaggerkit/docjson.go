// Package swaggerkit mounts Swagger UI and serves the OpenAPI document
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	docs "vaani/internal/services/api/docs"
)

// SpecMutator lets modules tweak the parsed spec before it is served
type SpecMutator func(map[string]any)

var (
	mu       sync.RWMutex
	mutators []SpecMutator
)

// docReader is a seam so tests can inject a document
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// Register adds a spec mutator
func Register(m SpecMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	mutators = append(mutators, m)
	mu.Unlock()
}

// Options control how the document is served
type Options struct {
	// BasePath is the servers url, default /api/v1
	BasePath string
	// TitleSuffix is appended to info.title, e.g. an environment name
	TitleSuffix string
}

// serveDocJSON serves the spec with the error envelope and common error responses filled in
func serveDocJSON(o Options) http.HandlerFunc {
	base := o.BasePath
	if base == "" {
		base = "/api/v1"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		ensureServers(spec, base)
		if o.TitleSuffix != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + o.TitleSuffix
				}
			}
		}
		ensureErrorResponse(spec)
		addDefault(spec, "400", "Bad Request", errorExample("validation", "text must be at most 2000 characters", "text"))
		addDefault(spec, "500", "Internal Server Error", errorExample("panic", "panic recovered", ""))

		mu.RLock()
		for _, m := range mutators {
			m(spec)
		}
		mu.RUnlock()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// ensureServers pins the document to OAS 3.0.3 and a servers array
// swagger ui does not render 3.1 yet
func ensureServers(spec map[string]any, url string) {
	delete(spec, "swagger")
	if v, ok := spec["openapi"].(string); !ok || strings.HasPrefix(v, "3.1") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": url}}
	}
}

// ensureErrorResponse adds the runtime error envelope under components.schemas
func ensureErrorResponse(spec map[string]any) {
	comps, ok := spec["components"].(map[string]any)
	if !ok {
		comps = map[string]any{}
		spec["components"] = comps
	}
	schemas, ok := comps["schemas"].(map[string]any)
	if !ok {
		schemas = map[string]any{}
		comps["schemas"] = schemas
	}
	if _, ok := schemas["ErrorResponse"]; ok {
		return
	}
	schemas["ErrorResponse"] = map[string]any{
		"type":        "object",
		"description": "Error envelope",
		"properties": map[string]any{
			"ok": map[string]any{"type": "boolean"},
			"error": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"code":    map[string]any{"type": "string"},
					"message": map[string]any{"type": "string"},
					"field":   map[string]any{"type": "string"},
				},
				"required": []any{"code", "message"},
			},
			"request_id": map[string]any{"type": "string"},
		},
		"required": []any{"ok", "error"},
	}
}

func errorExample(code, msg, field string) map[string]any {
	e := map[string]any{"code": code, "message": msg}
	if field != "" {
		e["field"] = field
	}
	return map[string]any{"ok": false, "error": e, "request_id": "host/abc-000001"}
}

// addDefault injects a response for status into every operation that lacks one
func addDefault(spec map[string]any, status, desc string, example map[string]any) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	resp := map[string]any{
		"description": desc,
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses, ok := op["responses"].(map[string]any)
			if !ok {
				responses = map[string]any{}
				op["responses"] = responses
			}
			if _, exists := responses[status]; !exists {
				responses[status] = resp
			}
		}
	}
}
