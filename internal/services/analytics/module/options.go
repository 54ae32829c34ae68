package module

import (
	"time"

	"vaani/internal/platform/config"
	"vaani/internal/services/analytics/service"
)

// Options holds configuration settings for the analytics module
type Options struct {
	Enabled   bool
	Recorder  service.RecorderConfig
	MaxWindow time.Duration
	Migrate   bool
}

// FromConfig reads CORE_ANALYTICS_* settings
func FromConfig(cfg config.Conf) Options {
	af := cfg.Prefix("CORE_ANALYTICS_")
	return Options{
		Enabled: af.MayBool("ENABLED", true),
		Recorder: service.RecorderConfig{
			Batch:        af.MayInt("BATCH", 500),
			Every:        af.MayDuration("FLUSH_EVERY", 2*time.Second),
			Buffer:       af.MayInt("BUFFER", 10000),
			WriteTimeout: af.MayDuration("WRITE_TIMEOUT", 5*time.Second),
		},
		MaxWindow: af.MayDuration("MAX_WINDOW", 90*24*time.Hour),
		Migrate:   af.MayBool("MIGRATE", true),
	}
}
