package service

import (
	"context"
	"sync"
	"time"

	perr "vaani/internal/platform/errors"
	"vaani/internal/platform/logger"
	"vaani/internal/services/analytics/domain"
)

// Writer persists one batch of events
type Writer interface {
	WriteBatch(ctx context.Context, xs []domain.Event) error
}

// RecorderConfig sizes the in-memory buffer and the flush cadence
type RecorderConfig struct {
	// Batch triggers a flush once this many events are queued
	Batch int
	// Every flushes whatever is queued on this period
	Every time.Duration
	// Buffer caps queued events; newer events are dropped past it
	Buffer int
	// WriteTimeout bounds one batch write
	WriteTimeout time.Duration
}

func (c RecorderConfig) withDefaults() RecorderConfig {
	if c.Batch <= 0 {
		c.Batch = 500
	}
	if c.Every <= 0 {
		c.Every = 2 * time.Second
	}
	if c.Buffer < c.Batch {
		c.Buffer = c.Batch * 20
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 5 * time.Second
	}
	return c
}

// Recorder buffers events and writes them in batches from one background goroutine
type Recorder struct {
	w   Writer
	cfg RecorderConfig
	log logger.Logger

	mu      sync.Mutex
	buf     []domain.Event
	closed  bool
	dropped uint64

	kick chan struct{}
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewRecorder starts the flusher; Close stops it
func NewRecorder(w Writer, cfg RecorderConfig, log logger.Logger) *Recorder {
	cfg = cfg.withDefaults()
	r := &Recorder{
		w:    w,
		cfg:  cfg,
		log:  log,
		buf:  make([]domain.Event, 0, cfg.Batch),
		kick: make(chan struct{}, 1),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go r.run()
	return r
}

// Record queues e; it never blocks on the backend
func (r *Recorder) Record(_ context.Context, e domain.Event) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return perr.Unavailablef("analytics: recorder closed")
	}
	if len(r.buf) >= r.cfg.Buffer {
		r.dropped++
		r.mu.Unlock()
		return perr.Unavailablef("analytics: buffer full")
	}
	r.buf = append(r.buf, e)
	full := len(r.buf) >= r.cfg.Batch
	r.mu.Unlock()

	if full {
		select {
		case r.kick <- struct{}{}:
		default:
		}
	}
	return nil
}

// Pending reports queued events
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf)
}

// Dropped reports events refused because the buffer was full
func (r *Recorder) Dropped() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

func (r *Recorder) run() {
	defer close(r.done)
	t := time.NewTicker(r.cfg.Every)
	defer t.Stop()

	for {
		select {
		case <-r.stop:
			r.flush()
			return
		case <-t.C:
			r.flush()
		case <-r.kick:
			r.flush()
		}
	}
}

// flush writes the queue in Batch sized chunks; a failed chunk is logged and dropped
func (r *Recorder) flush() {
	r.mu.Lock()
	xs := r.buf
	r.buf = make([]domain.Event, 0, r.cfg.Batch)
	r.mu.Unlock()

	for len(xs) > 0 {
		n := min(len(xs), r.cfg.Batch)
		ctx, cancel := context.WithTimeout(context.Background(), r.cfg.WriteTimeout)
		err := r.w.WriteBatch(ctx, xs[:n])
		cancel()
		if err != nil {
			r.log.Error().Err(err).Int("events", n).Msg("analytics batch write failed")
		}
		xs = xs[n:]
	}
}

// Close stops the flusher after a final flush, or gives up when ctx ends
func (r *Recorder) Close(ctx context.Context) error {
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		r.mu.Unlock()
		close(r.stop)
	})
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return perr.FromContext(ctx.Err(), "analytics: final flush")
	}
}
