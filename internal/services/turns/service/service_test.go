package service

import (
	"context"
	"errors"
	"testing"

	"vaani/internal/modkit/repokit"
	perr "vaani/internal/platform/errors"
	dom "vaani/internal/services/turns/domain"
	"vaani/internal/services/turns/repo"

	"github.com/google/uuid"
)

type fakeDB struct{ txs int }

func (f *fakeDB) Exec(context.Context, string, ...any) (repokit.CommandTag, error) { return nil, nil }
func (f *fakeDB) Query(context.Context, string, ...any) (repokit.Rows, error)      { return nil, nil }
func (f *fakeDB) QueryRow(context.Context, string, ...any) repokit.Row             { return nil }
func (f *fakeDB) Tx(_ context.Context, fn func(q repokit.Queryer) error) error {
	f.txs++
	return fn(f)
}

type fakeRepo struct {
	inserted  []dom.Turn
	rows      map[uuid.UUID]dom.Turn
	lastLimit int
	err       error
}

func (r *fakeRepo) Insert(_ context.Context, t dom.Turn) error {
	r.inserted = append(r.inserted, t)
	return r.err
}

func (r *fakeRepo) Get(_ context.Context, id uuid.UUID) (dom.Turn, error) {
	if r.err != nil {
		return dom.Turn{}, r.err
	}
	t, ok := r.rows[id]
	if !ok {
		return dom.Turn{}, perr.ErrNotFound
	}
	return t, nil
}

func (r *fakeRepo) ListBySession(_ context.Context, _ string, limit int) ([]dom.Turn, error) {
	r.lastLimit = limit
	return nil, r.err
}

func newSvc(hard int) (*Service, *fakeRepo, *fakeDB) {
	fr := &fakeRepo{rows: map[uuid.UUID]dom.Turn{}}
	db := &fakeDB{}
	b := repokit.BindFunc[repo.Storage](func(repokit.Queryer) repo.Storage { return fr })
	return New(db, b, Config{HardLimit: hard}), fr, db
}

func TestRecord_AssignsIDInTx(t *testing.T) {
	s, fr, db := newSvc(10)
	if err := s.Record(context.Background(), dom.Turn{Text: "hello"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if db.txs != 1 || len(fr.inserted) != 1 || fr.inserted[0].ID == uuid.Nil {
		t.Fatalf("txs=%d inserted=%+v", db.txs, fr.inserted)
	}

	fr.err = errors.New("boom")
	if err := s.Record(context.Background(), dom.Turn{Text: "x"}); err == nil {
		t.Fatalf("repo error swallowed")
	}
}

func TestListBySession_ClampsLimit(t *testing.T) {
	s, fr, _ := newSvc(25)
	tests := []struct {
		in, want int
	}{
		{0, 25},
		{-3, 25},
		{10, 10},
		{25, 25},
		{500, 25},
	}
	for _, tc := range tests {
		out, err := s.ListBySession(context.Background(), "s-1", tc.in)
		if err != nil {
			t.Fatalf("limit %d: %v", tc.in, err)
		}
		if fr.lastLimit != tc.want {
			t.Fatalf("limit %d clamped to %d, want %d", tc.in, fr.lastLimit, tc.want)
		}
		if out == nil {
			t.Fatalf("empty list must not be nil")
		}
	}
}

func TestListBySession_RequiresSession(t *testing.T) {
	s, _, _ := newSvc(10)
	_, err := s.ListBySession(context.Background(), "  ", 5)
	if !perr.IsCode(err, perr.ErrorCodeValidation) || perr.WireFrom(err).Field != "session_id" {
		t.Fatalf("err = %v", err)
	}
}

func TestGet(t *testing.T) {
	s, fr, _ := newSvc(10)
	id := uuid.New()
	fr.rows[id] = dom.Turn{ID: id, Intent: "weather"}

	got, err := s.Get(context.Background(), id)
	if err != nil || got.Intent != "weather" {
		t.Fatalf("Get = %+v, %v", got, err)
	}

	_, err = s.Get(context.Background(), uuid.New())
	if !perr.IsCode(err, perr.ErrorCodeNotFound) || perr.WireFrom(err).Field != "id" {
		t.Fatalf("missing turn err = %v", err)
	}
}

func TestNew_DefaultLimit(t *testing.T) {
	s := New(&fakeDB{}, repo.NewPG(), Config{})
	if s.Cfg.HardLimit != 100 {
		t.Fatalf("HardLimit = %d", s.Cfg.HardLimit)
	}
}
