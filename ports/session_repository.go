package ports

import (
	"context"

	"seqalloc/models"

	"github.com/google/uuid"
)

// SessionRepository defines the interface for generation-session records
type SessionRepository interface {
	// Create persists a new pending session
	Create(ctx context.Context, session *models.GenerationSession) error

	// Get retrieves a session by ID
	Get(ctx context.Context, id uuid.UUID) (*models.GenerationSession, error)

	// MarkSuccessful sets status=successful and records the linked record
	MarkSuccessful(ctx context.Context, id uuid.UUID, linkedRecordID uuid.UUID) error

	// MarkFailed sets status=failed and records the failure message
	MarkFailed(ctx context.Context, id uuid.UUID, message string) error
}
