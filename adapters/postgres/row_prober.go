package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"seqalloc/internal/errors"
	"seqalloc/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// RowProberImpl implements RowProber for PostgreSQL. Entity types map to
// table names; attributes map to columns, indirected through the
// attribute_aliases table when an alias is registered.
type RowProberImpl struct {
	db *sqlx.DB
}

// NewRowProber creates a new PostgreSQL row prober
func NewRowProber(db *sqlx.DB) ports.RowProber {
	return &RowProberImpl{db: db}
}

// ColumnExists reports whether attribute resolves to a physical column of
// the entity's table
func (r *RowProberImpl) ColumnExists(ctx context.Context, entityType, attribute string) (bool, error) {
	_, ok, err := r.resolveColumn(ctx, entityType, attribute)
	return ok, err
}

// RowExists checks whether any row of the entity's table has the resolved
// column equal to value
func (r *RowProberImpl) RowExists(ctx context.Context, entityType, attribute string, value any) (bool, error) {
	column, ok, err := r.resolveColumn(ctx, entityType, attribute)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	// Table and column survived the catalog check above; only the value is
	// caller-supplied, and it stays parameterized.
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		pq.QuoteIdentifier(entityType), pq.QuoteIdentifier(column))

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, value); err != nil {
		return false, errors.Wrapf(err, "row probe failed for %s.%s", entityType, column)
	}
	return exists, nil
}

// MaxValue returns the greatest value of the resolved column, capped at
// limit. Termination fallback for pathological contiguous runs.
func (r *RowProberImpl) MaxValue(ctx context.Context, entityType, attribute string, limit int64) (int64, error) {
	column, ok, err := r.resolveColumn(ctx, entityType, attribute)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	query := fmt.Sprintf(`SELECT COALESCE(MAX(%s), 0) FROM %s WHERE %s <= $1`,
		pq.QuoteIdentifier(column), pq.QuoteIdentifier(entityType), pq.QuoteIdentifier(column))

	var max int64
	if err := r.db.GetContext(ctx, &max, query, limit); err != nil {
		return 0, errors.Wrapf(err, "max aggregate failed for %s.%s", entityType, column)
	}
	return max, nil
}

// resolveColumn maps attribute to the column it is stored in, consulting
// attribute_aliases first and then information_schema. Returns false when
// the attribute is not backed by a physical column.
func (r *RowProberImpl) resolveColumn(ctx context.Context, entityType, attribute string) (string, bool, error) {
	column := attribute
	var aliased string
	err := r.db.GetContext(ctx, &aliased, `
		SELECT column_name FROM attribute_aliases
		WHERE table_name = $1 AND alias = $2
	`, entityType, attribute)
	switch {
	case err == nil:
		column = aliased
	case err == sql.ErrNoRows:
		// no alias registered, use the attribute name directly
	default:
		return "", false, errors.Wrapf(err, "alias lookup failed for %s.%s", entityType, attribute)
	}

	var exists bool
	err = r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2
		)
	`, entityType, column)
	if err != nil {
		return "", false, errors.Wrapf(err, "column check failed for %s.%s", entityType, column)
	}
	if !exists {
		return "", false, nil
	}
	return column, true, nil
}
