package modkit

import (
	"net/http"

	"vaani/internal/modkit/httpkit"
	pstrings "vaani/internal/platform/strings"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// Disabled modules keep their ports but mount no routes
	Disabled bool

	// router hooks set via options and exposed to modules
	Subrouter func(httpkit.Router) httpkit.Router
	Register  func(httpkit.Router)
}

// Build applies Option funcs to an internal buildCfg and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.subrouter == nil {
		c.subrouter = func(r httpkit.Router) httpkit.Router { return r }
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:      c.name,
		Prefix:    c.prefix,
		Mw:        append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:     c.ports,
		Disabled:  c.disabled,
		Subrouter: c.subrouter,
		Register:  c.register,
	}
}

// Mount is the shared MountRoutes body: prefix, per module middleware, subrouter, then register
func (b Built) Mount(r httpkit.Router, register func(httpkit.Router)) {
	if b.Disabled {
		return
	}
	prefix := b.Prefix
	if prefix != "" {
		prefix = pstrings.MustPrefix(prefix)
	}
	httpkit.MountUnder(r, prefix, b.Mw, func(rr httpkit.Router) {
		rr = b.Subrouter(rr)
		if register != nil {
			register(rr)
		}
		b.Register(rr)
	})
}
