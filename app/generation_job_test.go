package app

import (
	"context"
	"errors"
	"testing"

	apperrors "seqalloc/internal/errors"
	"seqalloc/internal/testkit"
	"seqalloc/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationJobSuccess(t *testing.T) {
	sessions := testkit.NewMemorySessionRepository()
	store := testkit.NewMemorySequenceStore()
	linkedID := uuid.New()
	registry := StaticRegistry{
		"member": FactoryFunc(func(ctx context.Context, s *models.GenerationSession) (uuid.UUID, error) {
			return linkedID, nil
		}),
	}
	job := NewGenerationJob(sessions, registry, store, nil)

	session := models.NewGenerationSession(uuid.New(), "member", models.Options{})
	require.NoError(t, sessions.Create(context.Background(), session))

	require.NoError(t, job.Run(context.Background(), session.ID))

	updated, err := sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusSuccessful, updated.Status)
	require.NotNil(t, updated.LinkedRecordID)
	assert.Equal(t, linkedID, *updated.LinkedRecordID)
	assert.Nil(t, updated.ErrorMessage)
}

func TestGenerationJobFailureIsRecordedAndReraised(t *testing.T) {
	sessions := testkit.NewMemorySessionRepository()
	store := testkit.NewMemorySequenceStore()
	buildErr := errors.New("persona build exploded")
	registry := StaticRegistry{
		"member": FactoryFunc(func(ctx context.Context, s *models.GenerationSession) (uuid.UUID, error) {
			return uuid.Nil, buildErr
		}),
	}
	job := NewGenerationJob(sessions, registry, store, nil)

	session := models.NewGenerationSession(uuid.New(), "member", models.Options{})
	require.NoError(t, sessions.Create(context.Background(), session))

	err := job.Run(context.Background(), session.ID)
	require.ErrorIs(t, err, buildErr, "the failure must be re-raised after recording")

	updated, getErr := sessions.Get(context.Background(), session.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.SessionStatusFailed, updated.Status)
	require.NotNil(t, updated.ErrorMessage)
	assert.Equal(t, buildErr.Error(), *updated.ErrorMessage)
}

func TestGenerationJobUnknownPersonaKind(t *testing.T) {
	sessions := testkit.NewMemorySessionRepository()
	store := testkit.NewMemorySequenceStore()
	job := NewGenerationJob(sessions, StaticRegistry{}, store, nil)

	session := models.NewGenerationSession(uuid.New(), "ghost", models.Options{})
	require.NoError(t, sessions.Create(context.Background(), session))

	err := job.Run(context.Background(), session.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeFactoryNotFound, apperrors.GetCode(err))

	updated, getErr := sessions.Get(context.Background(), session.ID)
	require.NoError(t, getErr)
	assert.Equal(t, models.SessionStatusFailed, updated.Status)
}

func TestGenerationJobOverwritesStatusOnRetry(t *testing.T) {
	sessions := testkit.NewMemorySessionRepository()
	store := testkit.NewMemorySequenceStore()

	calls := 0
	linkedID := uuid.New()
	registry := StaticRegistry{
		"member": FactoryFunc(func(ctx context.Context, s *models.GenerationSession) (uuid.UUID, error) {
			calls++
			if calls == 1 {
				return uuid.Nil, errors.New("transient failure")
			}
			return linkedID, nil
		}),
	}
	job := NewGenerationJob(sessions, registry, store, nil)

	session := models.NewGenerationSession(uuid.New(), "member", models.Options{})
	require.NoError(t, sessions.Create(context.Background(), session))

	require.Error(t, job.Run(context.Background(), session.ID))
	require.NoError(t, job.Run(context.Background(), session.ID))

	updated, err := sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusSuccessful, updated.Status)
	assert.Nil(t, updated.ErrorMessage)
}
