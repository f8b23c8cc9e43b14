package postgres

import (
	"context"

	"seqalloc/models"
	"seqalloc/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SessionRepositoryImpl implements SessionRepository for PostgreSQL
type SessionRepositoryImpl struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new PostgreSQL session repository
func NewSessionRepository(db *sqlx.DB) ports.SessionRepository {
	return &SessionRepositoryImpl{db: db}
}

// Create persists a new pending generation session
func (r *SessionRepositoryImpl) Create(ctx context.Context, session *models.GenerationSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO generation_sessions (id, persona_kind, options, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, session.ID, session.PersonaKind, session.Options, session.Status, session.CreatedAt, session.UpdatedAt)
	return err
}

// Get retrieves a session by ID
func (r *SessionRepositoryImpl) Get(ctx context.Context, id uuid.UUID) (*models.GenerationSession, error) {
	var session models.GenerationSession
	err := r.db.GetContext(ctx, &session, `
		SELECT id, persona_kind, options, status, linked_record_id, error_message, created_at, updated_at
		FROM generation_sessions
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// MarkSuccessful records a successful generation and its linked record
func (r *SessionRepositoryImpl) MarkSuccessful(ctx context.Context, id uuid.UUID, linkedRecordID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE generation_sessions
		SET status = $2, linked_record_id = $3, error_message = NULL, updated_at = NOW()
		WHERE id = $1
	`, id, models.SessionStatusSuccessful, linkedRecordID)
	return err
}

// MarkFailed records a failed generation with its message
func (r *SessionRepositoryImpl) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE generation_sessions
		SET status = $2, error_message = $3, updated_at = NOW()
		WHERE id = $1
	`, id, models.SessionStatusFailed, message)
	return err
}
