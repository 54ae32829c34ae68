package bus

import (
	"context"
	"errors"
	"testing"
	"time"
)

type published struct {
	subject string
	data    string
}

type fakeConn struct {
	sent     []published
	pubErr   error
	flushed  bool
	deadline bool
	closed   bool
	drained  int
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	if f.pubErr != nil {
		return f.pubErr
	}
	f.sent = append(f.sent, published{subj, string(data)})
	return nil
}

func (f *fakeConn) FlushWithContext(ctx context.Context) error {
	f.flushed = true
	_, f.deadline = ctx.Deadline()
	return nil
}

func (f *fakeConn) IsClosed() bool { return f.closed }

func (f *fakeConn) Drain() error {
	f.drained++
	f.closed = true
	return nil
}

func TestPublish_SubjectPassThrough(t *testing.T) {
	subjects := []string{"vaani.intent.weather", "vaani.intent.control_device", "vaani.intent.unknown", "custom.prefix.call"}
	c := &fakeConn{}
	n := &NATS{nc: c}
	for _, s := range subjects {
		if err := n.Publish(context.Background(), s, []byte(`{"intent":"x"}`)); err != nil {
			t.Fatalf("Publish(%q): %v", s, err)
		}
	}
	if len(c.sent) != len(subjects) {
		t.Fatalf("sent %d messages", len(c.sent))
	}
	for i, s := range subjects {
		if c.sent[i].subject != s || c.sent[i].data != `{"intent":"x"}` {
			t.Fatalf("message %d = %+v", i, c.sent[i])
		}
	}
}

func TestPublish_Errors(t *testing.T) {
	c := &fakeConn{}
	n := &NATS{nc: c}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.Publish(ctx, "vaani.intent.weather", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("canceled publish err = %v", err)
	}
	if len(c.sent) != 0 {
		t.Fatalf("canceled publish reached the connection")
	}

	down := errors.New("nats: connection closed")
	c.pubErr = down
	if err := n.Publish(context.Background(), "vaani.intent.weather", nil); !errors.Is(err, down) {
		t.Fatalf("err = %v", err)
	}
}

func TestPing(t *testing.T) {
	c := &fakeConn{}
	n := &NATS{nc: c}
	if err := n.Ping(context.Background()); err != nil || !c.flushed || !c.deadline {
		t.Fatalf("Ping err=%v flushed=%v deadline=%v", err, c.flushed, c.deadline)
	}

	c.closed = true
	if err := n.Ping(context.Background()); err == nil {
		t.Fatalf("ping on closed connection succeeded")
	}
}

func TestPing_KeepsCallerDeadline(t *testing.T) {
	c := &fakeConn{}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := (&NATS{nc: c}).Ping(ctx); err != nil || !c.deadline {
		t.Fatalf("Ping err=%v deadline=%v", err, c.deadline)
	}
}

func TestClose_DrainsOnce(t *testing.T) {
	c := &fakeConn{}
	n := &NATS{nc: c}
	if err := n.Close(); err != nil {
		t.Fatal(err)
	}
	if err := n.Close(); err != nil {
		t.Fatal(err)
	}
	if c.drained != 1 {
		t.Fatalf("drained %d times", c.drained)
	}
}

func TestOpen_Unreachable(t *testing.T) {
	if _, err := Open(Config{URL: "nats://127.0.0.1:1", Name: "vaani-test"}); err == nil {
		t.Fatalf("expected connect error")
	}
}
