// Package domain defines the types and interfaces for the turns service
package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Turn is one processed utterance in a conversation
type Turn struct {
	ID         uuid.UUID       `json:"id"`
	SessionID  string          `json:"session_id"`
	Text       string          `json:"text"`
	Intent     string          `json:"intent"`
	Language   string          `json:"language"`
	Confidence float64         `json:"confidence"`
	Entities   json.RawMessage `json:"entities"`
	Multi      bool            `json:"multi"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ListResponse is the body of GET /turns
type ListResponse struct {
	SessionID string `json:"session_id"`
	Count     int    `json:"count"`
	Turns     []Turn `json:"turns"`
}
