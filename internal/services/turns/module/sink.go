package module

import (
	"context"
	"encoding/json"
	"strings"

	nlu "vaani/internal/services/nlu/domain"
	"vaani/internal/services/turns/domain"

	"github.com/google/uuid"
)

// Sink records every non blank processed utterance as a turn
type Sink struct{ Recorder domain.RecorderPort }

// Observe implements the nlu sink contract
func (s Sink) Observe(ctx context.Context, o nlu.Observation) error {
	if strings.TrimSpace(o.Result.Text) == "" {
		return nil
	}
	return s.Recorder.Record(ctx, TurnFrom(o))
}

// TurnFrom maps an observation onto a turn row
func TurnFrom(o nlu.Observation) domain.Turn {
	id, err := uuid.Parse(o.ID)
	if err != nil {
		id = uuid.New()
	}
	ents, err := json.Marshal(o.Result.Entities)
	if err != nil {
		ents = []byte("{}")
	}
	return domain.Turn{
		ID:         id,
		SessionID:  o.SessionID,
		Text:       o.Result.Text,
		Intent:     o.Result.Intent,
		Language:   o.Result.Language,
		Confidence: o.Result.Confidence,
		Entities:   ents,
		Multi:      o.Result.Multi(),
		CreatedAt:  o.At.UTC(),
	}
}
