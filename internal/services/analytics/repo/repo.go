// Package repo provides the analytics repository on ClickHouse
package repo

import (
	"context"
	"fmt"

	"vaani/internal/modkit/repokit"
	"vaani/internal/services/analytics/domain"
)

// Table holds one row per processed utterance
const Table = "nlu_intent_events"

// Columns in insert order
var Columns = []string{"id", "at", "session_id", "intent", "language", "confidence", "source", "multi", "clauses"}

// Schema creates Table when it is missing
const Schema = `
CREATE TABLE IF NOT EXISTS ` + Table + ` (
	id          UUID,
	at          DateTime64(3, 'UTC'),
	session_id  String,
	intent      LowCardinality(String),
	language    LowCardinality(String),
	confidence  Float64,
	source      LowCardinality(String),
	multi       Bool,
	clauses     UInt8
) ENGINE = MergeTree
PARTITION BY toYYYYMM(at)
ORDER BY (intent, at)`

// Storage defines the analytics repository
type Storage interface {
	WriteBatch(ctx context.Context, xs []domain.Event) error
	IntentCounts(ctx context.Context, w domain.Window) ([]domain.IntentCount, error)
	LanguageCounts(ctx context.Context, w domain.Window) ([]domain.LanguageCount, error)
}

// CH implements Storage
type CH struct{ c repokit.Columnar }

// NewCH constructs the ClickHouse repo
func NewCH(c repokit.Columnar) *CH { return &CH{c: c} }

// Migrate applies Schema
func (r *CH) Migrate(ctx context.Context) error {
	if err := r.c.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("analytics: migrate: %w", err)
	}
	return nil
}

// WriteBatch implements Storage with one PrepareBatch round trip
func (r *CH) WriteBatch(ctx context.Context, xs []domain.Event) error {
	if len(xs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(xs))
	for _, e := range xs {
		rows = append(rows, []any{
			e.ID, e.At.UTC(), e.SessionID, e.Intent, e.Language,
			e.Confidence, e.Source, e.Multi, e.Clauses,
		})
	}
	return r.c.Insert(ctx, Table, Columns, rows)
}

// IntentCounts implements Storage, busiest intent first
func (r *CH) IntentCounts(ctx context.Context, w domain.Window) ([]domain.IntentCount, error) {
	rows, err := r.c.Query(ctx, `
		SELECT intent, count() AS n, avg(confidence)
		FROM `+Table+`
		WHERE at >= ? AND at < ?
		GROUP BY intent
		ORDER BY n DESC, intent ASC`, w.Since, w.Until)
	if err != nil {
		return nil, fmt.Errorf("analytics: intent counts: %w", err)
	}
	defer rows.Close()

	out := []domain.IntentCount{}
	for rows.Next() {
		var c domain.IntentCount
		if err := rows.Scan(&c.Intent, &c.Count, &c.AvgConfidence); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// LanguageCounts implements Storage, busiest language first
func (r *CH) LanguageCounts(ctx context.Context, w domain.Window) ([]domain.LanguageCount, error) {
	rows, err := r.c.Query(ctx, `
		SELECT language, count() AS n
		FROM `+Table+`
		WHERE at >= ? AND at < ?
		GROUP BY language
		ORDER BY n DESC, language ASC`, w.Since, w.Until)
	if err != nil {
		return nil, fmt.Errorf("analytics: language counts: %w", err)
	}
	defer rows.Close()

	out := []domain.LanguageCount{}
	for rows.Next() {
		var c domain.LanguageCount
		if err := rows.Scan(&c.Language, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
