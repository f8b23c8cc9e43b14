package app

import (
	"context"

	"seqalloc/models"
	"seqalloc/ports"

	"github.com/google/uuid"
)

// FactoryFunc adapts a function to the PersonaFactory interface
type FactoryFunc func(ctx context.Context, session *models.GenerationSession) (uuid.UUID, error)

// Build implements ports.PersonaFactory
func (f FactoryFunc) Build(ctx context.Context, session *models.GenerationSession) (uuid.UUID, error) {
	return f(ctx, session)
}

// StaticRegistry is a fixed persona-kind to factory mapping
type StaticRegistry map[string]ports.PersonaFactory

// Resolve implements ports.FactoryRegistry
func (r StaticRegistry) Resolve(personaKind string) (ports.PersonaFactory, bool) {
	factory, ok := r[personaKind]
	return factory, ok
}
