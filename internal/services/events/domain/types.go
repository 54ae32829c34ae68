// Package domain defines the intent events published for downstream command routers
package domain

import (
	"context"
	"time"

	"vaani/internal/core/pipeline"
)

// IntentEvent is the JSON body published on <subject>.<intent>
type IntentEvent struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id,omitempty"`
	At        time.Time       `json:"at"`
	Result    pipeline.Result `json:"result"`
}

// PublisherPort sends intent events to the bus
type PublisherPort interface {
	Publish(ctx context.Context, e IntentEvent) error
}
