package httpkit

import (
	"net/http"
)

// GetJSON mounts a no body handler under GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// PostJSON mounts a bind-and-validate JSON handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...JSONOptions) {
	r.Post(path, JSON(h, opts...))
}

// DeleteJSON mounts a no body handler under DELETE
func DeleteJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Delete(path, Call(h))
}
