package module

import (
	"time"

	"vaani/internal/platform/config"
)

// Options holds configuration settings for the turns module
type Options struct {
	Enabled          bool
	HardLimit        int
	StatementTimeout time.Duration
	Migrate          bool
}

// FromConfig reads CORE_TURNS_* settings
func FromConfig(cfg config.Conf) Options {
	tf := cfg.Prefix("CORE_TURNS_")
	return Options{
		Enabled:          tf.MayBool("ENABLED", true),
		HardLimit:        tf.MayInt("HARD_LIMIT", 100),
		StatementTimeout: tf.MayDuration("STATEMENT_TIMEOUT", 2*time.Second),
		Migrate:          tf.MayBool("MIGRATE", true),
	}
}
