// Package repo provides the turns repository implementation.
package repo

import (
	"context"

	"vaani/internal/modkit/repokit"
	perr "vaani/internal/platform/errors"
	"vaani/internal/platform/store"
	"vaani/internal/services/turns/domain"

	"github.com/google/uuid"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the turns repository
type Storage interface {
	Insert(ctx context.Context, t domain.Turn) error
	Get(ctx context.Context, id uuid.UUID) (domain.Turn, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error)
}

// Schema creates the turns table when it is missing
const Schema = `
CREATE TABLE IF NOT EXISTS nlu_turns (
	id          uuid PRIMARY KEY,
	session_id  text NOT NULL DEFAULT '',
	text        text NOT NULL,
	intent      text NOT NULL,
	language    text NOT NULL,
	confidence  double precision NOT NULL,
	entities    jsonb NOT NULL DEFAULT '{}'::jsonb,
	multi       boolean NOT NULL DEFAULT false,
	created_at  timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS nlu_turns_session_created_idx
	ON nlu_turns (session_id, created_at DESC) WHERE session_id <> '';
`

// Migrate applies Schema
func Migrate(ctx context.Context, q repokit.Queryer) error {
	_, err := q.Exec(ctx, Schema)
	return perr.FromPostgres(err, "turns: migrate")
}

const cols = `id, session_id, text, intent, language, confidence, entities, multi, created_at`

// Insert implements Storage; replaying the same id is a no-op
func (s *pg) Insert(ctx context.Context, t domain.Turn) error {
	ents := string(t.Entities)
	if ents == "" {
		ents = "{}"
	}
	_, err := s.q.Exec(ctx, `
		INSERT INTO nlu_turns (`+cols+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8, $9)
		ON CONFLICT (id) DO NOTHING`,
		t.ID, t.SessionID, t.Text, t.Intent, t.Language, t.Confidence, ents, t.Multi, t.CreatedAt,
	)
	return perr.FromPostgres(err, "turns: insert")
}

// Get implements Storage
func (s *pg) Get(ctx context.Context, id uuid.UUID) (domain.Turn, error) {
	t, err := store.One(ctx, s.q, scanTurn, `SELECT `+cols+` FROM nlu_turns WHERE id = $1`, id)
	if err != nil && !perr.IsCode(err, perr.ErrorCodeNotFound) {
		err = perr.FromPostgres(err, "turns: get")
	}
	return t, err
}

// ListBySession implements Storage, newest first
func (s *pg) ListBySession(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	out, err := store.Many(ctx, s.q, scanTurn, `
		SELECT `+cols+`
		FROM nlu_turns
		WHERE session_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2`, sessionID, limit)
	if err != nil {
		return nil, perr.FromPostgres(err, "turns: list")
	}
	return out, nil
}

func scanTurn(r store.Row) (domain.Turn, error) {
	var (
		t    domain.Turn
		ents []byte
	)
	if err := r.Scan(&t.ID, &t.SessionID, &t.Text, &t.Intent, &t.Language, &t.Confidence, &ents, &t.Multi, &t.CreatedAt); err != nil {
		return t, err
	}
	t.Entities = ents
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}
