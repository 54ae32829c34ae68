package store

import (
	"context"
	"errors"
	"testing"

	perr "vaani/internal/platform/errors"
)

type pair struct {
	ID   string
	Hits int
}

func scanPair(r Row) (pair, error) {
	var p pair
	err := r.Scan(&p.ID, &p.Hits)
	return p, err
}

func TestMany(t *testing.T) {
	rs := &memRows{data: [][]any{{"weather", 3}, {"alarm", 1}}}
	got, err := Many(context.Background(), &memQuerier{rows: rs}, scanPair, "select")
	if err != nil {
		t.Fatalf("Many: %v", err)
	}
	if len(got) != 2 || got[0] != (pair{"weather", 3}) || got[1] != (pair{"alarm", 1}) {
		t.Fatalf("got %+v", got)
	}
	if !rs.done {
		t.Fatalf("rows not closed")
	}
}

func TestMany_Errors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := Many(context.Background(), &memQuerier{err: boom}, scanPair, "select"); !errors.Is(err, boom) {
		t.Fatalf("query error = %v", err)
	}
	rs := &memRows{data: [][]any{{"x", 1}}, err: boom}
	if _, err := Many(context.Background(), &memQuerier{rows: rs}, scanPair, "select"); !errors.Is(err, boom) {
		t.Fatalf("rows.Err = %v", err)
	}
}

func TestOne(t *testing.T) {
	ctx := context.Background()

	got, err := One(ctx, &memQuerier{rows: &memRows{data: [][]any{{"a", 1}}}}, scanPair, "q")
	if err != nil || got.ID != "a" {
		t.Fatalf("One = %+v, %v", got, err)
	}

	_, err = One(ctx, &memQuerier{rows: &memRows{}}, scanPair, "q")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("empty = %v", err)
	}

	_, err = One(ctx, &memQuerier{rows: &memRows{data: [][]any{{"a", 1}, {"b", 2}}}}, scanPair, "q")
	if !errors.Is(err, errMultipleRows) {
		t.Fatalf("two rows = %v", err)
	}
}

func TestScalar(t *testing.T) {
	n, err := Scalar[int](context.Background(), &memQuerier{rows: &memRows{data: [][]any{{42}}}}, "select count(*)")
	if err != nil || n != 42 {
		t.Fatalf("Scalar = %d, %v", n, err)
	}
	if _, err := Scalar[int](context.Background(), &memQuerier{rows: &memRows{}}, "q"); err == nil {
		t.Fatalf("expected error on no rows")
	}
}

func TestExecOne(t *testing.T) {
	ctx := context.Background()
	if err := ExecOne(ctx, &memQuerier{affected: 1}, "insert"); err != nil {
		t.Fatalf("one row: %v", err)
	}
	if err := ExecOne(ctx, &memQuerier{affected: 0}, "insert"); !perr.IsCode(err, perr.ErrorCodeConflict) {
		t.Fatalf("zero rows: %v", err)
	}
	if err := ExecOne(ctx, &memQuerier{affected: 11}, "insert"); err == nil {
		t.Fatalf("eleven rows should fail")
	}
}
