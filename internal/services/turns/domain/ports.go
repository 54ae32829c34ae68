package domain

import (
	"context"

	"github.com/google/uuid"
)

// RecorderPort stores turns
type RecorderPort interface {
	Record(ctx context.Context, t Turn) error
}

// QueryPort reads turns back
type QueryPort interface {
	Get(ctx context.Context, id uuid.UUID) (Turn, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]Turn, error)
}
