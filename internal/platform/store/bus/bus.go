// Package bus publishes messages on NATS core subjects
package bus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Config configures the nats connection
type Config struct {
	URL  string
	Name string
}

// conn is the part of *nats.Conn the publisher uses
type conn interface {
	Publish(subj string, data []byte) error
	FlushWithContext(ctx context.Context) error
	IsClosed() bool
	Drain() error
}

var _ conn = (*nats.Conn)(nil)

// NATS is a publish only nats connection
type NATS struct {
	nc conn
}

// Open connects with unlimited reconnects so a broker restart does not kill the api
func Open(cfg Config) (*NATS, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.Timeout(3*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats: connect: %w", err)
	}
	return &NATS{nc: nc}, nil
}

// Publish sends data on subject; ctx is only checked before the write
// since core nats publish is buffered and does not block on the server
func (n *NATS) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.nc.Publish(subject, data)
}

// Ping flushes the connection, proving a round trip to the server
// nats needs a deadline here so one is added when ctx has none
func (n *NATS) Ping(ctx context.Context) error {
	if n.nc.IsClosed() {
		return errors.New("nats: connection closed")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
	}
	return n.nc.FlushWithContext(ctx)
}

// Close drains pending messages then closes
func (n *NATS) Close() error {
	if n.nc.IsClosed() {
		return nil
	}
	return n.nc.Drain()
}
