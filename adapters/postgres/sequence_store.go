package postgres

import (
	"context"
	"hash/fnv"

	"seqalloc/domain/sequence"
	"seqalloc/internal/errors"
	"seqalloc/ports"

	"github.com/jmoiron/sqlx"
)

// SequenceStoreImpl implements SequenceStore against PostgreSQL sequence
// objects and advisory locks
type SequenceStoreImpl struct {
	db *sqlx.DB
}

// NewSequenceStore creates a new PostgreSQL sequence store
func NewSequenceStore(db *sqlx.DB) ports.SequenceStore {
	return &SequenceStoreImpl{db: db}
}

// SequenceExists checks the catalog for a sequence object named name
func (s *SequenceStoreImpl) SequenceExists(ctx context.Context, name sequence.CounterName) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM pg_class c
			JOIN pg_namespace n ON n.oid = c.relnamespace
			WHERE c.relkind = 'S' AND c.relname = $1 AND n.nspname = current_schema()
		)
	`, name.String())
	if err != nil {
		return false, errors.Wrapf(err, "sequence existence check failed for %s", name)
	}
	return exists, nil
}

// NextVal atomically increments the sequence and returns the new value
func (s *SequenceStoreImpl) NextVal(ctx context.Context, name sequence.CounterName) (int64, error) {
	var value int64
	err := s.db.GetContext(ctx, &value, `SELECT nextval($1)`, name.String())
	if err != nil {
		return 0, errors.Wrapf(err, "nextval failed for %s", name)
	}
	return value, nil
}

// AdvanceToAtLeast moves the sequence to max(current, target). The read
// and the setval are not a single statement; callers serialize through
// WithLock on the same name, which keeps the combine monotone.
func (s *SequenceStoreImpl) AdvanceToAtLeast(ctx context.Context, name sequence.CounterName, target int64) error {
	if target < 1 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
		SELECT setval($1, GREATEST(
			COALESCE((SELECT last_value FROM pg_sequences
			          WHERE schemaname = current_schema() AND sequencename = $1), 0),
			$2
		))
	`, name.String(), target)
	if err != nil {
		return errors.Wrapf(err, "sequence advance failed for %s", name)
	}
	return nil
}

// WithLock runs fn while holding the advisory lock derived from key. A
// dedicated connection pins the lock/unlock pair to one session.
func (s *SequenceStoreImpl) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to acquire connection for advisory lock")
	}
	defer conn.Close()

	lockID := lockKey(key)
	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockID); err != nil {
		return errors.Wrapf(err, "advisory lock acquisition failed for %q", key)
	}
	defer func() {
		// Background context: the unlock must run even when ctx is done.
		_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
	}()

	return fn(ctx)
}

// lockKey folds an arbitrary key string into the bigint keyspace of
// Postgres advisory locks. FNV-64a; hash collisions merely over-serialize.
func lockKey(key string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(key))
	return int64(h.Sum64())
}
