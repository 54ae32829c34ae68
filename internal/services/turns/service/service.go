// Package service provides the turns service implementation
package service

import (
	"context"
	"strings"

	"vaani/internal/modkit/repokit"
	perr "vaani/internal/platform/errors"
	dom "vaani/internal/services/turns/domain"
	"vaani/internal/services/turns/repo"

	"github.com/google/uuid"
)

// Config for the turns service
type Config struct {
	HardLimit int
}

// Service implements domain.RecorderPort and domain.QueryPort on Postgres
type Service struct {
	DB    repokit.TxRunner
	Repos repokit.Binder[repo.Storage]
	Cfg   Config
}

// New constructs a new turns service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Service {
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 100
	}
	return &Service{DB: db, Repos: binder, Cfg: cfg}
}

// Record implements domain.RecorderPort
func (s *Service) Record(ctx context.Context, t dom.Turn) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return repokit.WithTx(ctx, s.DB, func(q repokit.Queryer) error {
		return repokit.MustBind(s.Repos, q).Insert(ctx, t)
	})
}

// Get implements domain.QueryPort
func (s *Service) Get(ctx context.Context, id uuid.UUID) (dom.Turn, error) {
	t, err := repokit.MustBind(s.Repos, s.DB).Get(ctx, id)
	if perr.IsCode(err, perr.ErrorCodeNotFound) {
		return dom.Turn{}, perr.WithField(perr.NotFoundf("turn %s not found", id), "id")
	}
	return t, err
}

// ListBySession implements domain.QueryPort; limit is clamped to the hard limit
func (s *Service) ListBySession(ctx context.Context, sessionID string, limit int) ([]dom.Turn, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, perr.WithField(perr.New(perr.ErrorCodeValidation, "session_id is required"), "session_id")
	}
	if limit <= 0 || limit > s.Cfg.HardLimit {
		limit = s.Cfg.HardLimit
	}
	out, err := repokit.MustBind(s.Repos, s.DB).ListBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []dom.Turn{}
	}
	return out, nil
}
