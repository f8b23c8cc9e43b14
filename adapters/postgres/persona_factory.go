package postgres

import (
	"context"
	"fmt"

	"seqalloc/domain/sequence"
	"seqalloc/internal/errors"
	"seqalloc/models"
	"seqalloc/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PersonaFactoryImpl builds demo persona rows. The member number comes
// from the allocator, so seeding works whether or not a native sequence
// has been provisioned for the personas table.
type PersonaFactoryImpl struct {
	db        *sqlx.DB
	allocator ports.ValueAllocator
}

// NewPersonaFactory creates a persona factory over the demo personas table
func NewPersonaFactory(db *sqlx.DB, allocator ports.ValueAllocator) ports.PersonaFactory {
	return &PersonaFactoryImpl{db: db, allocator: allocator}
}

// Build implements ports.PersonaFactory
func (f *PersonaFactoryImpl) Build(ctx context.Context, session *models.GenerationSession) (uuid.UUID, error) {
	memberNumber, err := f.allocator.NextVal(ctx, "personas", "member_number", sequence.Identity)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "member number allocation failed")
	}

	name := displayName(session, memberNumber)
	id := uuid.New()
	_, err = f.db.ExecContext(ctx, `
		INSERT INTO personas (id, display_name, member_number)
		VALUES ($1, $2, $3)
	`, id, name, memberNumber)
	if err != nil {
		return uuid.Nil, errors.Wrapf(err, "persona insert failed for member %d", memberNumber)
	}

	return id, nil
}

func displayName(session *models.GenerationSession, memberNumber int64) string {
	if raw, ok := session.Options["display_name"]; ok {
		if name, ok := raw.(string); ok && name != "" {
			return name
		}
	}
	return fmt.Sprintf("Demo %s #%d", session.PersonaKind, memberNumber)
}
