package app

import (
	"context"
	"time"

	"seqalloc/internal/errors"
	"seqalloc/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GenerationJob builds one demo persona for a pending generation session.
// Each run takes an exclusive per-session lock, resolves the persona
// factory, builds the linked record, and overwrites the session status:
// pending -> successful | failed. Failures are recorded on the session
// and then re-raised to the caller.
type GenerationJob struct {
	sessions ports.SessionRepository
	registry ports.FactoryRegistry
	store    ports.SequenceStore
	log      *zap.Logger
}

// NewGenerationJob creates a generation job
func NewGenerationJob(sessions ports.SessionRepository, registry ports.FactoryRegistry, store ports.SequenceStore, logger *zap.Logger) *GenerationJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationJob{
		sessions: sessions,
		registry: registry,
		store:    store,
		log:      logger,
	}
}

// Run executes the generation attempt for one session
func (j *GenerationJob) Run(ctx context.Context, sessionID uuid.UUID) error {
	return j.store.WithLock(ctx, "generation_session:"+sessionID.String(), func(ctx context.Context) error {
		start := time.Now()

		session, err := j.sessions.Get(ctx, sessionID)
		if err != nil {
			return errors.Wrapf(err, "failed to load generation session %s", sessionID)
		}

		factory, ok := j.registry.Resolve(session.PersonaKind)
		if !ok {
			err := errors.New(errors.CodeFactoryNotFound, "no persona factory registered for kind "+session.PersonaKind)
			return j.fail(ctx, sessionID, err)
		}

		linkedID, err := factory.Build(ctx, session)
		if err != nil {
			return j.fail(ctx, sessionID, err)
		}

		if err := j.sessions.MarkSuccessful(ctx, sessionID, linkedID); err != nil {
			return errors.Wrapf(err, "failed to record success for session %s", sessionID)
		}

		j.log.Info("generation session succeeded",
			zap.String("session_id", sessionID.String()),
			zap.String("persona_kind", session.PersonaKind),
			zap.String("linked_record_id", linkedID.String()),
			zap.Duration("duration", time.Since(start)))
		return nil
	})
}

// fail records the failure on the session and re-raises it
func (j *GenerationJob) fail(ctx context.Context, sessionID uuid.UUID, cause error) error {
	if err := j.sessions.MarkFailed(ctx, sessionID, cause.Error()); err != nil {
		j.log.Error("failed to record generation failure",
			zap.String("session_id", sessionID.String()),
			zap.Error(err))
	}
	j.log.Warn("generation session failed",
		zap.String("session_id", sessionID.String()),
		zap.Error(cause))
	return cause
}
