package module

import (
	"context"
	"strings"

	"vaani/internal/services/analytics/domain"
	nlu "vaani/internal/services/nlu/domain"

	"github.com/google/uuid"
)

// Sink queues every non blank processed utterance for the histograms
type Sink struct{ Recorder domain.RecorderPort }

// Observe implements the nlu sink contract
func (s Sink) Observe(ctx context.Context, o nlu.Observation) error {
	if strings.TrimSpace(o.Result.Text) == "" {
		return nil
	}
	return s.Recorder.Record(ctx, EventFrom(o))
}

// EventFrom reduces an observation to an analytics event
func EventFrom(o nlu.Observation) domain.Event {
	id, err := uuid.Parse(o.ID)
	if err != nil {
		id = uuid.New()
	}
	return domain.Event{
		ID:         id,
		At:         o.At.UTC(),
		SessionID:  o.SessionID,
		Intent:     o.Result.Intent,
		Language:   o.Result.Language,
		Confidence: o.Result.Confidence,
		Source:     string(o.Result.Source),
		Multi:      o.Result.Multi(),
		Clauses:    uint8(min(len(o.Result.Intents), 255)),
	}
}
