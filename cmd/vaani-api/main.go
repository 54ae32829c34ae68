// @title         Vaani API
// @version       0.1.0
// @description   Intent, language and entity detection for English and Hinglish utterances

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vaani/internal/core/pipeline"
	"vaani/internal/core/rulepack"
	"vaani/internal/modkit/repokit"
	"vaani/internal/platform/config"
	"vaani/internal/platform/logger"
	phttp "vaani/internal/platform/net/http"
	"vaani/internal/platform/store"

	"vaani/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	nluCfg := root.Prefix("CORE_NLU_")

	// bring up logging early
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pk, err := loadPack(nluCfg.MayString("RULES_FILE", ""))
	if err != nil {
		l.Panic().Err(err).Msg("rule pack load failed")
	}
	l.Info().Int("rules", len(pk.Rules)).Int("version", pk.Version).Msg("rule pack loaded")

	// every backend is optional; unset URLs leave the seam nil
	st, err := store.Open(ctx, store.ConfigFromEnv("vaani-api", root), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	if apiCfg.MayBool("REQUIRE_BACKENDS", false) {
		repokit.MustGuard(ctx, st)
	}

	srv := phttp.NewServer(root)

	closeAPI := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Pipeline:       pipeline.New(pk),
			EnableSwagger:  apiCfg.MayBool("ENABLE_SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("ENABLE_PROFILER", false),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
	}

	drain, cancel := context.WithTimeout(context.Background(), apiCfg.MayDuration("DRAIN_TIMEOUT", 10*time.Second))
	defer cancel()
	if err := closeAPI(drain); err != nil {
		l.Error().Err(err).Msg("api drain incomplete")
	}
	l.Info().Msg("bye")
}

func loadPack(path string) (*rulepack.Pack, error) {
	if path == "" {
		return rulepack.Load()
	}
	return rulepack.LoadFile(path)
}
