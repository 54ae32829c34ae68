// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "vaani/internal/platform/net/http"
)

// Module defines the minimal contract used by modkit
// sibling package so a module can also export its own ports type without import knots
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// MountAll registers each module's ports under its name and mounts its routes
func MountAll(r phttp.Router, mods ...Module) {
	for _, m := range mods {
		Register(m.Name(), m.Ports())
		m.MountRoutes(r)
	}
}
