// Package modkit provides module wiring and core deps
package modkit

import (
	"vaani/internal/core/pipeline"
	"vaani/internal/modkit/repokit"
	"vaani/internal/platform/config"
	"vaani/internal/platform/logger"
	"vaani/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// every backend is optional and nil when not configured
type Deps struct {
	Log      logger.Logger
	Cfg      config.Conf
	Pipeline *pipeline.Pipeline

	PG  repokit.TxRunner
	CH  store.Clickhouse
	KV  store.KV
	Bus store.Bus
}

// DepsFrom fans a store out into Deps
func DepsFrom(log logger.Logger, cfg config.Conf, p *pipeline.Pipeline, st *store.Store) Deps {
	d := Deps{Log: log, Cfg: cfg, Pipeline: p}
	if st != nil {
		d.PG, d.CH, d.KV, d.Bus = st.PG, st.CH, st.KV, st.Bus
	}
	return d
}
