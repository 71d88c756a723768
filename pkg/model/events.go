package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Envelope is the canonical event envelope for messages published to NATS.
type Envelope struct {
	ID            uuid.UUID       `json:"id"`
	CorrelationID uuid.UUID       `json:"correlation_id"`
	Topic         string          `json:"topic"`
	EventType     string          `json:"event_type"`
	Version       string          `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Payload       json.RawMessage `json:"payload"`
}

// SyncSummary describes the outcome of one catalog synchronization run.
type SyncSummary struct {
	RunID       uuid.UUID `json:"run_id"`
	Environment string    `json:"environment"` // production | sandbox
	Products    int       `json:"products"`
	Skipped     int       `json:"skipped"`
	OutputPath  string    `json:"output_path"`
	DurationMS  int64     `json:"duration_ms"`
	GeneratedAt time.Time `json:"generated_at"`
}
