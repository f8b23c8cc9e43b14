package app

import (
	"context"

	"seqalloc/domain/sequence"
	"seqalloc/internal/errors"
	"seqalloc/ports"
)

// DefaultMaxProbeDoublings bounds the exponential probing phase; 40
// doublings reach 2^40 before the finder gives up and asks the store
// for an aggregate.
const DefaultMaxProbeDoublings = 40

// BoundaryFinder locates the largest contiguous run of already-occupied
// indices starting at 1, where "occupied" means a stored row exists whose
// attribute equals the mapped value for that index.
type BoundaryFinder struct {
	prober       ports.RowProber
	maxDoublings int
}

// NewBoundaryFinder creates a boundary finder over a row prober
func NewBoundaryFinder(prober ports.RowProber, maxDoublings int) *BoundaryFinder {
	if maxDoublings <= 0 {
		maxDoublings = DefaultMaxProbeDoublings
	}
	return &BoundaryFinder{prober: prober, maxDoublings: maxDoublings}
}

// FindBoundary returns the greatest k such that rows exist for every
// mapped index 1..k and no row exists for mapped index k+1. Returns 0
// when index 1 is unoccupied or the attribute is not a stored column.
//
// It brackets the boundary by probing indices 1, 2, 4, 8, ... until one
// is absent, then binary-searches the bracket, so a boundary of k costs
// O(log k) existence probes instead of k.
func (f *BoundaryFinder) FindBoundary(ctx context.Context, entityType, attribute string, mapper sequence.ValueMapper) (int64, error) {
	stored, err := f.prober.ColumnExists(ctx, entityType, attribute)
	if err != nil {
		return 0, errors.Wrapf(err, "column check for %s.%s failed", entityType, attribute)
	}
	if !stored {
		return 0, nil
	}

	occupied := func(index int64) (bool, error) {
		return f.prober.RowExists(ctx, entityType, attribute, mapper(index))
	}

	first, err := occupied(1)
	if err != nil {
		return 0, err
	}
	if !first {
		return 0, nil
	}

	// Bracket: after the loop, low is occupied and high is not.
	var low, high int64 = 1, 2
	for step := 0; ; step++ {
		if step >= f.maxDoublings {
			// Pathological run; fall back to a bounded aggregate rather
			// than probing forever.
			return f.prober.MaxValue(ctx, entityType, attribute, high)
		}
		present, err := occupied(high)
		if err != nil {
			return 0, err
		}
		if !present {
			break
		}
		low = high
		high *= 2
	}

	for high-low > 1 {
		mid := low + (high-low)/2
		present, err := occupied(mid)
		if err != nil {
			return 0, err
		}
		if present {
			low = mid
		} else {
			high = mid
		}
	}

	return low, nil
}
