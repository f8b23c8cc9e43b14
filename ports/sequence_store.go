package ports

import (
	"context"

	"seqalloc/domain/sequence"
)

// SequenceStore defines the native-counter operations the allocator needs
// from the backing store
type SequenceStore interface {
	// SequenceExists reports whether a counter object named name exists
	SequenceExists(ctx context.Context, name sequence.CounterName) (bool, error)

	// NextVal atomically increments the named counter and returns the new value
	NextVal(ctx context.Context, name sequence.CounterName) (int64, error)

	// AdvanceToAtLeast atomically moves the counter to max(current, target).
	// It never regresses the counter.
	AdvanceToAtLeast(ctx context.Context, name sequence.CounterName, target int64) error

	// WithLock runs fn while holding a named, cross-process exclusive lock
	// scoped to key. The lock is released on every exit path, including when
	// fn fails.
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
