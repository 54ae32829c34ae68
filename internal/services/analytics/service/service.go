// Package service provides the analytics service implementation
package service

import (
	"context"
	"time"

	perr "vaani/internal/platform/errors"
	dom "vaani/internal/services/analytics/domain"
	"vaani/internal/services/analytics/repo"
)

// Config for the analytics service
type Config struct {
	// MaxWindow caps the span a single query may cover
	MaxWindow time.Duration
}

// Service implements domain.RecorderPort and domain.QueryPort
type Service struct {
	Storage repo.Storage
	Rec     *Recorder
	Cfg     Config
}

// New constructs the analytics service around a running recorder
func New(storage repo.Storage, rec *Recorder, cfg Config) *Service {
	if cfg.MaxWindow <= 0 {
		cfg.MaxWindow = 90 * 24 * time.Hour
	}
	return &Service{Storage: storage, Rec: rec, Cfg: cfg}
}

// Record implements domain.RecorderPort
func (s *Service) Record(ctx context.Context, e dom.Event) error {
	return s.Rec.Record(ctx, e)
}

// IntentCounts implements domain.QueryPort
func (s *Service) IntentCounts(ctx context.Context, w dom.Window) ([]dom.IntentCount, error) {
	if err := s.check(w); err != nil {
		return nil, err
	}
	return s.Storage.IntentCounts(ctx, w)
}

// LanguageCounts implements domain.QueryPort
func (s *Service) LanguageCounts(ctx context.Context, w dom.Window) ([]dom.LanguageCount, error) {
	if err := s.check(w); err != nil {
		return nil, err
	}
	return s.Storage.LanguageCounts(ctx, w)
}

// Close flushes queued events
func (s *Service) Close(ctx context.Context) error { return s.Rec.Close(ctx) }

func (s *Service) check(w dom.Window) error {
	if !w.Since.Before(w.Until) {
		return perr.WithField(perr.InvalidArgf("since must be before until"), "since")
	}
	if w.Until.Sub(w.Since) > s.Cfg.MaxWindow {
		return perr.WithField(perr.InvalidArgf("window exceeds %s", s.Cfg.MaxWindow), "since")
	}
	return nil
}
