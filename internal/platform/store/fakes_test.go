package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// memRows serves a fixed result set
type memRows struct {
	cols []string
	data [][]any
	i    int
	err  error
	done bool
}

func (m *memRows) Next() bool {
	if m.i >= len(m.data) {
		return false
	}
	m.i++
	return true
}

func (m *memRows) Scan(dest ...any) error {
	row := m.data[m.i-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d dest for %d cols", len(dest), len(row))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *int:
			*p = row[i].(int)
		default:
			return fmt.Errorf("scan: unsupported %T", d)
		}
	}
	return nil
}

func (m *memRows) Err() error        { return m.err }
func (m *memRows) Close()            { m.done = true }
func (m *memRows) Columns() []string { return m.cols }

type memTag int64

func (t memTag) String() string      { return fmt.Sprintf("UPDATE %d", int64(t)) }
func (t memTag) RowsAffected() int64 { return int64(t) }

// memQuerier returns canned rows for any query
type memQuerier struct {
	rows     *memRows
	affected int64
	err      error
	lastSQL  string
}

func (q *memQuerier) Exec(_ context.Context, sql string, _ ...any) (CommandTag, error) {
	q.lastSQL = sql
	return memTag(q.affected), q.err
}

func (q *memQuerier) Query(_ context.Context, sql string, _ ...any) (Rows, error) {
	q.lastSQL = sql
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func (q *memQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	rs, err := q.Query(ctx, sql, args...)
	return rowFunc(func(dest ...any) error {
		if err != nil {
			return err
		}
		if !rs.Next() {
			return errors.New("no rows")
		}
		return rs.Scan(dest...)
	})
}

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

// pingCloser is a backend that records Close and returns a set Ping error
type pingCloser struct {
	pingErr  error
	closeErr error
	closed   bool
}

func (p *pingCloser) Ping(context.Context) error { return p.pingErr }
func (p *pingCloser) Close() error               { p.closed = true; return p.closeErr }

type fakeKV struct{ pingCloser }

func (*fakeKV) Get(context.Context, string) ([]byte, error)              { return nil, ErrMiss }
func (*fakeKV) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*fakeKV) Del(context.Context, ...string) error                     { return nil }

type fakeBus struct{ pingCloser }

func (*fakeBus) Publish(context.Context, string, []byte) error { return nil }
