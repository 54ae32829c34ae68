package service

import (
	"time"

	"vaani/internal/platform/config"
)

// Options bound the work one request may do
type Options struct {
	// Timeout caps one Process call or one whole Batch
	Timeout time.Duration
	// BatchWorkers is the worker pool size for Batch
	BatchWorkers int
	// BatchMax is the largest accepted batch
	BatchMax int
	// SinkTimeout caps each sink call
	SinkTimeout time.Duration
}

// DefaultOptions are used for zero fields
func DefaultOptions() Options {
	return Options{
		Timeout:      2 * time.Second,
		BatchWorkers: 4,
		BatchMax:     64,
		SinkTimeout:  2 * time.Second,
	}
}

// OptionsFromConfig reads TIMEOUT, BATCH_WORKERS, BATCH_MAX and SINK_TIMEOUT under cfg's prefix
func OptionsFromConfig(cfg config.Conf) Options {
	d := DefaultOptions()
	return Options{
		Timeout:      cfg.MayDuration("TIMEOUT", d.Timeout),
		BatchWorkers: cfg.MayInt("BATCH_WORKERS", d.BatchWorkers),
		BatchMax:     cfg.MayInt("BATCH_MAX", d.BatchMax),
		SinkTimeout:  cfg.MayDuration("SINK_TIMEOUT", d.SinkTimeout),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.BatchWorkers <= 0 {
		o.BatchWorkers = d.BatchWorkers
	}
	if o.BatchMax <= 0 {
		o.BatchMax = d.BatchMax
	}
	if o.SinkTimeout <= 0 {
		o.SinkTimeout = d.SinkTimeout
	}
	return o
}
