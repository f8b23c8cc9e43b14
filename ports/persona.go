package ports

import (
	"context"

	"seqalloc/models"

	"github.com/google/uuid"
)

// PersonaFactory produces one demo record for a generation session and
// returns the new record's ID
type PersonaFactory interface {
	Build(ctx context.Context, session *models.GenerationSession) (uuid.UUID, error)
}

// FactoryRegistry resolves a persona kind to its factory
type FactoryRegistry interface {
	Resolve(personaKind string) (PersonaFactory, bool)
}
