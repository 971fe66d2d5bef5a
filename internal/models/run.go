package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Run is the audit record of one crew kickoff. Conversation transcripts
// are never persisted; runs record only what the server did for one turn.
type Run struct {
	ID           uuid.UUID       `json:"id"`
	UserPrompt   string          `json:"user_prompt"`
	InputsJSON   json.RawMessage `json:"inputs"`
	Reply        *string         `json:"reply"`
	Status       string          `json:"status"` // "completed" | "failed"
	ErrorMessage *string         `json:"error_message"`
	StartedAt    time.Time       `json:"started_at"`
	FinishedAt   time.Time       `json:"finished_at"`
	DurationMs   int64           `json:"duration_ms"`
}

// WebSocket message types

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// RunUpdate is pushed over the progress hub while a crew run executes.
type RunUpdate struct {
	RunID    uuid.UUID `json:"run_id"`
	Step     int       `json:"step"`
	Total    int       `json:"total"`
	TaskName string    `json:"task_name"`
	Agent    string    `json:"agent"`
	Status   string    `json:"status"` // "started" | "completed" | "failed"
}
