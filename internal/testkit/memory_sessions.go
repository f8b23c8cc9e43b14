package testkit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"seqalloc/models"

	"github.com/google/uuid"
)

// MemorySessionRepository is an in-memory SessionRepository for tests
type MemorySessionRepository struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*models.GenerationSession
}

// NewMemorySessionRepository creates an empty repository
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[uuid.UUID]*models.GenerationSession)}
}

// Create implements ports.SessionRepository
func (r *MemorySessionRepository) Create(ctx context.Context, session *models.GenerationSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *session
	r.sessions[session.ID] = &copied
	return nil
}

// Get implements ports.SessionRepository
func (r *MemorySessionRepository) Get(ctx context.Context, id uuid.UUID) (*models.GenerationSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("generation session %s not found", id)
	}
	copied := *session
	return &copied, nil
}

// MarkSuccessful implements ports.SessionRepository
func (r *MemorySessionRepository) MarkSuccessful(ctx context.Context, id uuid.UUID, linkedRecordID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("generation session %s not found", id)
	}
	session.Status = models.SessionStatusSuccessful
	session.LinkedRecordID = &linkedRecordID
	session.ErrorMessage = nil
	session.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed implements ports.SessionRepository
func (r *MemorySessionRepository) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return fmt.Errorf("generation session %s not found", id)
	}
	session.Status = models.SessionStatusFailed
	session.ErrorMessage = &message
	session.UpdatedAt = time.Now().UTC()
	return nil
}
