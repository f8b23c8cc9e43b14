package ports

import (
	"context"

	"seqalloc/domain/sequence"
)

// ValueAllocator hands out the next integer value for an
// (entity type, attribute) pair
type ValueAllocator interface {
	NextVal(ctx context.Context, entityType, attribute string, mapper sequence.ValueMapper) (int64, error)
}
