package ports

import "context"

// RowProber answers existence questions about persisted rows of an entity
// type, used by the boundary search to find already-occupied values
type RowProber interface {
	// ColumnExists reports whether attribute is (or aliases) a physical
	// stored column of entityType
	ColumnExists(ctx context.Context, entityType, attribute string) (bool, error)

	// RowExists reports whether any stored row of entityType has attribute
	// equal to value
	RowExists(ctx context.Context, entityType, attribute string, value any) (bool, error)

	// MaxValue returns the greatest integer value of attribute across
	// stored rows, capped at limit. Used only as a termination fallback
	// when probing exceeds its budget, so the attribute is assumed numeric
	// on this path.
	MaxValue(ctx context.Context, entityType, attribute string, limit int64) (int64, error)
}
