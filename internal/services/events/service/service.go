// Package service publishes intent events on NATS
package service

import (
	"context"
	"encoding/json"
	"strings"

	"vaani/internal/core/rulepack"
	"vaani/internal/platform/store"
	"vaani/internal/services/events/domain"
)

// Config for the events publisher
type Config struct {
	// Subject prefix, the intent name is appended as the last token
	Subject string
	// SkipUnknown drops utterances nothing matched
	SkipUnknown bool
}

// Publisher implements domain.PublisherPort over a store.Bus
type Publisher struct {
	Bus store.Bus
	Cfg Config
}

// New constructs a publisher; a nil bus yields a publisher that drops everything
func New(bus store.Bus, cfg Config) *Publisher {
	cfg.Subject = strings.TrimRight(strings.TrimSpace(cfg.Subject), ".")
	if cfg.Subject == "" {
		cfg.Subject = "vaani.intent"
	}
	return &Publisher{Bus: bus, Cfg: cfg}
}

// Subject returns the subject an intent is published on
func (p *Publisher) Subject(intent string) string {
	return p.Cfg.Subject + "." + token(intent)
}

// Publish implements domain.PublisherPort
func (p *Publisher) Publish(ctx context.Context, e domain.IntentEvent) error {
	if p.Bus == nil {
		return nil
	}
	if p.Cfg.SkipUnknown && e.Result.Intent == rulepack.IntentUnknown {
		return nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.Bus.Publish(ctx, p.Subject(e.Result.Intent), b)
}

// token keeps a subject token free of the nats separators and wildcards
func token(s string) string {
	if s == "" {
		return rulepack.IntentUnknown
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\r', '\n':
			return '_'
		}
		return r
	}, s)
}
