// Package service runs the pipeline for the nlu endpoints: timeouts, caching, batching and sinks
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"vaani/internal/core/normalize"
	"vaani/internal/core/pipeline"
	perr "vaani/internal/platform/errors"
	"vaani/internal/platform/logger"
	"vaani/internal/services/nlu/cache"
	"vaani/internal/services/nlu/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Service defines the nlu service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the nlu service
type Svc struct {
	p     *pipeline.Pipeline
	cache cache.Cache
	sinks []domain.Named
	opt   Options
	log   logger.Logger
	norm  *normalize.Normalizer

	// seams for tests
	run   func(text string) domain.Result
	now   func() time.Time
	newID func() string

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New constructs the nlu service; a nil cache means no caching
func New(p *pipeline.Pipeline, c cache.Cache, opt Options, log logger.Logger, sinks ...domain.Named) *Svc {
	if p == nil {
		panic("nlu.Service requires a non nil pipeline")
	}
	if c == nil {
		c = cache.Noop{}
	}
	return &Svc{
		p:     p,
		cache: c,
		sinks: sinks,
		opt:   opt.withDefaults(),
		log:   log.With().Str("component", "nlu").Logger(),
		norm:  normalize.New(),
		run:   p.Process,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
}

// Process runs the pipeline on one utterance within the configured timeout
func (s *Svc) Process(ctx context.Context, in domain.ProcessInput) (domain.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opt.Timeout)
	defer cancel()

	res, err := s.resolve(ctx, in.Text)
	if err != nil {
		return domain.Result{}, err
	}
	s.fanout(ctx, in.SessionID, res)
	return res, nil
}

// Batch runs Process over texts on a bounded worker pool and keeps input order
func (s *Svc) Batch(ctx context.Context, texts []string) ([]domain.Result, error) {
	if len(texts) == 0 {
		return []domain.Result{}, nil
	}
	if len(texts) > s.opt.BatchMax {
		return nil, perr.WithField(perr.InvalidArgf("batch of %d exceeds the limit of %d", len(texts), s.opt.BatchMax), "texts")
	}

	ctx, cancel := context.WithTimeout(ctx, s.opt.Timeout)
	defer cancel()

	out := make([]domain.Result, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opt.BatchWorkers)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			res, err := s.resolve(gctx, text)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, res := range out {
		s.fanout(ctx, "", res)
	}
	return out, nil
}

// resolve returns a cached or fresh result, or a timeout error once ctx is done
func (s *Svc) resolve(ctx context.Context, text string) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, perr.FromContext(err, "nlu: processing timed out")
	}
	if strings.TrimSpace(text) == "" {
		return pipeline.Empty(text), nil
	}

	key := s.norm.Clean(text)
	if res, ok := s.cache.Get(ctx, key); ok {
		res.Text = text
		res.Timestamp = s.stamp()
		return res, nil
	}

	done := make(chan domain.Result, 1)
	go func() { done <- s.run(text) }()
	select {
	case res := <-done:
		s.cache.Put(ctx, key, res)
		return res, nil
	case <-ctx.Done():
		return domain.Result{}, perr.FromContext(ctx.Err(), "nlu: processing timed out")
	}
}

func (s *Svc) stamp() string { return s.now().UTC().Format(time.RFC3339Nano) }

// fanout hands the result to every sink in the background
// sinks outlive the request context but not SinkTimeout
func (s *Svc) fanout(ctx context.Context, sessionID string, res domain.Result) {
	if len(s.sinks) == 0 {
		return
	}
	o := domain.Observation{ID: s.newID(), SessionID: sessionID, Result: res, At: s.now().UTC()}
	base := context.WithoutCancel(ctx)

	// Add must not race Wait; after Close results are no longer observed
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.log.Debug().Str("intent", res.Intent).Msg("service closed, sinks skipped")
		return
	}
	for _, sk := range s.sinks {
		sk := sk
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			sctx, cancel := context.WithTimeout(base, s.opt.SinkTimeout)
			defer cancel()
			if err := sk.Sink.Observe(sctx, o); err != nil {
				s.log.Warn().Err(err).Str("sink", sk.Name).Str("intent", res.Intent).Msg("sink failed")
			}
		}()
	}
}

// Close stops new sink calls and waits for in-flight ones; it is safe to call twice
func (s *Svc) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
}

// Language runs the classifier only
func (s *Svc) Language(ctx context.Context, text string) (domain.Detection, error) {
	if err := ctx.Err(); err != nil {
		return domain.Detection{}, perr.FromContext(err, "nlu: canceled")
	}
	return s.p.Language(text), nil
}

// Intent runs the matcher only
func (s *Svc) Intent(ctx context.Context, text string) (domain.Match, error) {
	if err := ctx.Err(); err != nil {
		return domain.Match{}, perr.FromContext(err, "nlu: canceled")
	}
	return s.p.Intent(text), nil
}

// Entities runs the extractor only
func (s *Svc) Entities(ctx context.Context, text string) (domain.Entities, error) {
	if err := ctx.Err(); err != nil {
		return domain.Entities{}, perr.FromContext(err, "nlu: canceled")
	}
	return s.p.Entities(text), nil
}

// Split runs the splitter only; blank text has no parts
func (s *Svc) Split(ctx context.Context, text string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, perr.FromContext(err, "nlu: canceled")
	}
	parts := s.p.Split(text)
	if parts == nil {
		parts = []string{}
	}
	return parts, nil
}

// Rules lists the intent rules in evaluation order and the fallback keywords
func (s *Svc) Rules(context.Context) (domain.RulesView, error) {
	pk := s.p.Pack()
	v := domain.RulesView{
		Version:  pk.Version,
		Name:     pk.Name,
		Rules:    make([]domain.RuleView, 0, len(pk.Rules)),
		Fallback: make([]domain.KeywordView, 0, len(pk.Fallback)),
	}
	for _, r := range pk.Rules {
		v.Rules = append(v.Rules, domain.RuleView{
			Name:       r.Name,
			Priority:   r.Priority,
			Confidence: pk.Confidence(r.Priority),
			Entities:   r.Entities,
		})
	}
	for _, k := range pk.Fallback {
		v.Fallback = append(v.Fallback, domain.KeywordView{Keyword: k.Word, Intent: k.Intent})
	}
	return v, nil
}
