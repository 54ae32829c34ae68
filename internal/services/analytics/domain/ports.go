package domain

import "context"

// RecorderPort accepts events for asynchronous writing
type RecorderPort interface {
	Record(ctx context.Context, e Event) error
}

// QueryPort aggregates recorded events
type QueryPort interface {
	IntentCounts(ctx context.Context, w Window) ([]IntentCount, error)
	LanguageCounts(ctx context.Context, w Window) ([]LanguageCount, error)
}
