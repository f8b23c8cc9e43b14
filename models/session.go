package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the outcome of one generation attempt
type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "pending"
	SessionStatusSuccessful SessionStatus = "successful"
	SessionStatusFailed     SessionStatus = "failed"
)

// GenerationSession is a request to generate a demo persona. The job
// overwrites Status on every invocation; pending -> successful | failed.
type GenerationSession struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	PersonaKind    string        `json:"persona_kind" db:"persona_kind"` // key into the factory registry
	Options        Options       `json:"options" db:"options"`
	Status         SessionStatus `json:"status" db:"status"`
	LinkedRecordID *uuid.UUID    `json:"linked_record_id,omitempty" db:"linked_record_id"`
	ErrorMessage   *string       `json:"error_message,omitempty" db:"error_message"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
}

// NewGenerationSession creates a pending session for a persona kind
func NewGenerationSession(id uuid.UUID, personaKind string, opts Options) *GenerationSession {
	now := time.Now().UTC()
	return &GenerationSession{
		ID:          id,
		PersonaKind: personaKind,
		Options:     opts,
		Status:      SessionStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// IsTerminal reports whether the status is successful or failed
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusSuccessful || s == SessionStatusFailed
}
