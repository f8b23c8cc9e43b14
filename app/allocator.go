package app

import (
	"context"
	"sync"

	"seqalloc/domain/sequence"
	"seqalloc/ports"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AllocatorConfig carries the tunables of an Allocator instance
type AllocatorConfig struct {
	// EnforceCounterExistence makes the fallback path fail with a
	// CounterNotFoundError instead of synthesizing a value
	EnforceCounterExistence bool

	// MaxProbeDoublings bounds the boundary search (0 = default)
	MaxProbeDoublings int

	Logger *zap.Logger
}

// Allocator hands out monotonically increasing integers for an
// (entity type, attribute) pair. It prefers the store's native counter
// and falls back to a value computed from already-persisted rows when no
// counter has been provisioned.
//
// One Allocator instance owns one resolution cache; share the instance,
// not the package.
type Allocator struct {
	store   ports.SequenceStore
	finder  *BoundaryFinder
	cache   *sequence.Cache
	enforce bool
	log     *zap.Logger

	// flight collapses concurrent first-touch boundary work per counter
	// name inside the process; the store's named lock does the same across
	// processes.
	flight singleflight.Group

	// fallbackMu makes the read-increment-write on a MissingEntry atomic
	// between goroutines so concurrent fallback callers do not receive the
	// same value.
	fallbackMu sync.Mutex
}

// NewAllocator creates an allocator over a sequence store and row prober
func NewAllocator(store ports.SequenceStore, prober ports.RowProber, cfg AllocatorConfig) *Allocator {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{
		store:   store,
		finder:  NewBoundaryFinder(prober, cfg.MaxProbeDoublings),
		cache:   sequence.NewCache(),
		enforce: cfg.EnforceCounterExistence,
		log:     logger,
	}
}

// NextVal returns the next value for the (entityType, attribute) pair.
//
// When the native counter exists the value always comes from the real
// counter. When it does not, the first call computes the boundary of
// already-occupied values under the store's named lock and later calls
// advance from the cached result without touching storage. With
// enforcement on, the fallback path fails with CounterNotFoundError, but
// only after writing the cache, so retries skip the recomputation.
func (a *Allocator) NextVal(ctx context.Context, entityType, attribute string, mapper sequence.ValueMapper) (int64, error) {
	name := sequence.ResolveName(entityType, attribute)

	entry, _ := a.cache.Get(name)
	_, cachedExists := entry.(sequence.ExistsEntry)

	exists := cachedExists
	if !cachedExists {
		var err error
		exists, err = a.store.SequenceExists(ctx, name)
		if err != nil {
			return 0, err
		}
	}

	if exists {
		return a.nextFromCounter(ctx, name, entityType, attribute, mapper, cachedExists)
	}
	return a.nextFromFallback(ctx, name, entityType, attribute, mapper, entry)
}

// ClearCache forgets every cached resolution
func (a *Allocator) ClearCache() {
	a.cache.ClearAll()
}

// ClearExistsCache forgets Exists resolutions but keeps Missing ones,
// re-arming the one-shot adjustment for counters that exist
func (a *Allocator) ClearExistsCache() {
	a.cache.ClearExistsOnly()
}

// nextFromCounter serves the existing-counter path. When the context
// carries the adjustment permission and this is the first touch since the
// last cache clear, the counter is first advanced past already-occupied
// values.
func (a *Allocator) nextFromCounter(ctx context.Context, name sequence.CounterName, entityType, attribute string, mapper sequence.ValueMapper, cachedExists bool) (int64, error) {
	if sequence.AdjustmentEnabled(ctx) && !cachedExists {
		if err := a.adjustCounter(ctx, name, entityType, attribute, mapper); err != nil {
			return 0, err
		}
	}

	a.cache.Put(name, sequence.ExistsEntry{Name: name})
	return a.store.NextVal(ctx, name)
}

// adjustCounter advances the counter to at least the occupied boundary,
// a no-op when the counter is already past it. Deduplicated per name
// in-process and serialized across processes by the store's named lock.
func (a *Allocator) adjustCounter(ctx context.Context, name sequence.CounterName, entityType, attribute string, mapper sequence.ValueMapper) error {
	_, err, _ := a.flight.Do("advance:"+name.String(), func() (any, error) {
		err := a.store.WithLock(ctx, name.String(), func(ctx context.Context) error {
			boundary, err := a.finder.FindBoundary(ctx, entityType, attribute, mapper)
			if err != nil {
				return err
			}
			if err := a.store.AdvanceToAtLeast(ctx, name, boundary); err != nil {
				return err
			}
			a.log.Debug("advanced native counter",
				zap.String("sequence", name.String()),
				zap.Int64("boundary", boundary))
			return nil
		})
		return nil, err
	})
	return err
}

// nextFromFallback serves the missing-counter path
func (a *Allocator) nextFromFallback(ctx context.Context, name sequence.CounterName, entityType, attribute string, mapper sequence.ValueMapper, entry sequence.CacheEntry) (int64, error) {
	missing, haveMissing := entry.(sequence.MissingEntry)

	if !haveMissing {
		boundary, err := a.computeBoundary(ctx, name, entityType, attribute, mapper)
		if err != nil {
			return 0, err
		}
		missing = sequence.MissingEntry{
			Name:            name,
			EntityType:      entityType,
			Attribute:       attribute,
			CalculatedStart: boundary,
		}
	}

	a.fallbackMu.Lock()
	// Re-read under the mutex: another goroutine may have advanced (or
	// created) the entry while the boundary scan ran.
	if current, ok := a.cache.Get(name); ok {
		if m, ok := current.(sequence.MissingEntry); ok && m.CalculatedStart > missing.CalculatedStart {
			missing = m
		}
	}
	next := missing.CalculatedStart + 1
	missing.CalculatedStart = next
	a.cache.Put(name, missing)
	a.fallbackMu.Unlock()

	if a.enforce {
		return 0, &sequence.CounterNotFoundError{
			Name:       name,
			EntityType: entityType,
			Attribute:  attribute,
		}
	}
	return next, nil
}

// computeBoundary runs the boundary scan under the cross-process lock,
// deduplicated per name within the process
func (a *Allocator) computeBoundary(ctx context.Context, name sequence.CounterName, entityType, attribute string, mapper sequence.ValueMapper) (int64, error) {
	v, err, _ := a.flight.Do("boundary:"+name.String(), func() (any, error) {
		var boundary int64
		err := a.store.WithLock(ctx, name.String(), func(ctx context.Context) error {
			var err error
			boundary, err = a.finder.FindBoundary(ctx, entityType, attribute, mapper)
			return err
		})
		if err != nil {
			return int64(0), err
		}
		a.log.Debug("computed fallback start value",
			zap.String("sequence", name.String()),
			zap.String("entity_type", entityType),
			zap.String("attribute", attribute),
			zap.Int64("boundary", boundary))
		return boundary, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}
