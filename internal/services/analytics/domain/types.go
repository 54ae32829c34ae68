// Package domain defines the types and interfaces for the analytics service
package domain

import (
	"time"

	ptime "vaani/internal/platform/time"

	"github.com/google/uuid"
)

// Window is a half open [Since, Until) range
type Window = ptime.Window

// Event is one processed utterance reduced to what aggregates need
type Event struct {
	ID         uuid.UUID
	At         time.Time
	SessionID  string
	Intent     string
	Language   string
	Confidence float64
	Source     string
	Multi      bool
	Clauses    uint8
}

// IntentCount is one row of the intent histogram
type IntentCount struct {
	Intent        string  `json:"intent"`
	Count         uint64  `json:"count"`
	AvgConfidence float64 `json:"avg_confidence"`
}

// LanguageCount is one row of the language histogram
type LanguageCount struct {
	Language string `json:"language"`
	Count    uint64 `json:"count"`
}

// IntentReport is the body of GET /analytics/intents
type IntentReport struct {
	Window
	Total uint64        `json:"total"`
	Rows  []IntentCount `json:"rows"`
}

// LanguageReport is the body of GET /analytics/languages
type LanguageReport struct {
	Window
	Total uint64          `json:"total"`
	Rows  []LanguageCount `json:"rows"`
}
