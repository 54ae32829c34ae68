// Package domain holds the nlu service types and ports
package domain

import (
	"time"

	"vaani/internal/core/entities"
	"vaani/internal/core/intent"
	"vaani/internal/core/langdetect"
	"vaani/internal/core/pipeline"
)

type (
	// Result is the pipeline outcome served to clients
	Result = pipeline.Result
	// Detection is the language classifier outcome
	Detection = langdetect.Detection
	// Match is the intent matcher outcome
	Match = intent.Match
	// Entities is the extractor outcome
	Entities = entities.Entities
)

// ProcessInput is one utterance with its optional conversation id
type ProcessInput struct {
	Text      string
	SessionID string
}

// Observation is what sinks receive after a successful Process
type Observation struct {
	ID        string
	SessionID string
	Result    Result
	At        time.Time
}

// RuleView is one intent rule in evaluation order
type RuleView struct {
	Name       string   `json:"name"`
	Priority   int      `json:"priority"`
	Confidence float64  `json:"confidence"`
	Entities   []string `json:"entities,omitempty"`
}

// KeywordView is one fallback keyword
type KeywordView struct {
	Keyword string `json:"keyword"`
	Intent  string `json:"intent"`
}

// RulesView describes the loaded pack's intent tables
type RulesView struct {
	Version  int           `json:"version"`
	Name     string        `json:"name,omitempty"`
	Rules    []RuleView    `json:"rules"`
	Fallback []KeywordView `json:"fallback"`
}
