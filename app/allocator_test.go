package app

import (
	"context"
	"testing"

	"seqalloc/domain/sequence"
	"seqalloc/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAllocator(store *testkit.MemorySequenceStore, prober *testkit.MemoryRowProber, enforce bool) *Allocator {
	return NewAllocator(store, prober, AllocatorConfig{EnforceCounterExistence: enforce})
}

func TestNextValExistingCounter(t *testing.T) {
	store := testkit.NewMemorySequenceStore()
	prober := testkit.NewMemoryRowProber()
	name := sequence.ResolveName("orders", "number")
	store.CreateSequence(name, 0)

	allocator := newTestAllocator(store, prober, false)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := allocator.NextVal(ctx, "orders", "number", sequence.Identity)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 0, store.AdvanceCalls, "no adjustment outside the scope")
}

func TestNextValExistingCounterSkipsProbeWhenCached(t *testing.T) {
	store := testkit.NewMemorySequenceStore()
	prober := testkit.NewMemoryRowProber()
	name := sequence.ResolveName("orders", "number")
	store.CreateSequence(name, 0)

	allocator := newTestAllocator(store, prober, false)
	ctx := context.Background()

	_, err := allocator.NextVal(ctx, "orders", "number", sequence.Identity)
	require.NoError(t, err)

	entry, ok := allocator.cache.Get(name)
	require.True(t, ok)
	assert.IsType(t, sequence.ExistsEntry{}, entry)
}

func TestNextValFallbackComputesThenServesFromCache(t *testing.T) {
	store := testkit.NewMemorySequenceStore()
	prober := testkit.NewMemoryRowProber()
	prober.SeedRun("orders", "number", 5)

	allocator := newTestAllocator(store, prober, false)
	ctx := context.Background()

	got, err := allocator.NextVal(ctx, "orders", "number", sequence.Identity)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got)

	scanned := prober.ProbeCount
	require.Greater(t, scanned, 0)

	got, err = allocator.NextVal(ctx, "orders", "number", sequence.Identity)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)
	assert.Equal(t, scanned, prober.ProbeCount, "second call must not rescan")
}

func TestNextValFallbackEmptyTable(t *testing.T) {
	store := testkit.NewMemorySequenceStore()
	prober := testkit.NewMemoryRowProber()
	prober.AddColumn("orders", "number")

	allocator := newTestAllocator(store, prober, false)

	got, err := allocator.NextVal(context.Background(), "orders", "number", sequence.Identity)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestNextValEnforcementFailsButCacheAdvances(t *testing.T) {
	store := testkit.NewMemorySequenceStore()
	prober := testkit.NewMemoryRowProber()
	prober.SeedRun("orders", "number", 5)

	allocator := newTestAllocator(store, prober, true)
	ctx := context.Background()
	name := sequence.ResolveName("orders", "number")

	for i := 0; i < 3; i++ {
		_, err := allocator.NextVal(ctx, "orders", "number", sequence.Identity)
		require.Error(t, err)
		assert.True(t, sequence.IsCounterNotFound(err))

		entry, ok := allocator.cache.Get(name)
		require.True(t, ok, "cache must be written before the failure")
		missing, ok := entry.(sequence.MissingEntry)
		require.True(t, ok)
		assert.Equal(t, int64(6+i), missing.CalculatedStart)
		assert.Equal(t, "orders", missing.EntityType)
		assert.Equal(t, "number", missing.Attribute)
	}

	// The expensive scan ran exactly once despite every call failing
	scanned := prober.ProbeCount
	_, err := allocator.NextVal(ctx, "orders", "number", sequence.Identity)
	require.Error(t, err)
	assert.Equal(t, scanned, prober.ProbeCount)
}

func TestNextValAdjustmentScope(t *testing.T) {
	store := testkit.NewMemorySequenceStore()
	prober := testkit.NewMemoryRowProber()
	name := sequence.ResolveName("orders", "number")
	store.CreateSequence(name, 1)
	prober.SeedRun("orders", "number", 5)

	allocator := newTestAllocator(store, prober, false)
	ctx := sequence.WithAdjustment(context.Background())

	for want := int64(6); want <= 8; want++ {
		got, err := allocator.NextVal(ctx, "orders", "number", sequence.Identity)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 1, store.AdvanceCalls, "one advance per scope; later calls hit the Exists cache")
}

func TestNextValAdjustmentNeverRegresses(t *testing.T) {
	store := testkit.NewMemorySequenceStore()
	prober := testkit.NewMemoryRowProber()
	name := sequence.ResolveName("orders", "number")
	store.CreateSequence(name, 100)
	prober.SeedRun("orders", "number", 2)

	allocator := newTestAllocator(store, prober, false)
	ctx := sequence.WithAdjustment(context.Background())

	got, err := allocator.NextVal(ctx, "orders", "number", sequence.Identity)
	require.NoError(t, err)
	assert.Equal(t, int64(101), got)
	assert.Equal(t, int64(101), store.Current(name))
}

func TestClearExistsCacheRearmsAdjustmentButKeepsMissing(t *testing.T) {
	store := testkit.NewMemorySequenceStore()
	prober := testkit.NewMemoryRowProber()

	// counter-backed pair
	name := sequence.ResolveName("orders", "number")
	store.CreateSequence(name, 1)
	prober.SeedRun("orders", "number", 5)

	// counterless pair
	prober.SeedRun("invoices", "number", 3)

	allocator := newTestAllocator(store, prober, false)
	ctx := sequence.WithAdjustment(context.Background())

	_, err := allocator.NextVal(ctx, "orders", "number", sequence.Identity)
	require.NoError(t, err)
	got, err := allocator.NextVal(ctx, "invoices", "number", sequence.Identity)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)
	require.Equal(t, 1, store.AdvanceCalls)

	allocator.ClearExistsCache()

	// The Exists key re-probes and re-runs the one-shot adjustment
	_, err = allocator.NextVal(ctx, "orders", "number", sequence.Identity)
	require.NoError(t, err)
	assert.Equal(t, 2, store.AdvanceCalls)

	// The Missing key keeps incrementing without a fresh boundary scan
	got, err = allocator.NextVal(ctx, "invoices", "number", sequence.Identity)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got)
	probesAfterOrders := prober.ProbeCount

	got, err = allocator.NextVal(ctx, "invoices", "number", sequence.Identity)
	require.NoError(t, err)
	assert.Equal(t, int64(6), got)
	assert.Equal(t, probesAfterOrders, prober.ProbeCount, "missing entry must not rescan")
}

func TestClearCacheForgetsEverything(t *testing.T) {
	store := testkit.NewMemorySequenceStore()
	prober := testkit.NewMemoryRowProber()
	prober.SeedRun("invoices", "number", 3)

	allocator := newTestAllocator(store, prober, false)
	ctx := context.Background()

	_, err := allocator.NextVal(ctx, "invoices", "number", sequence.Identity)
	require.NoError(t, err)
	require.Equal(t, 1, allocator.cache.Len())

	allocator.ClearCache()
	assert.Equal(t, 0, allocator.cache.Len())

	// A fresh scan happens on the next call
	scanned := prober.ProbeCount
	got, err := allocator.NextVal(ctx, "invoices", "number", sequence.Identity)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got)
	assert.Greater(t, prober.ProbeCount, scanned)
}

func TestNextValConcurrentFallback(t *testing.T) {
	store := testkit.NewMemorySequenceStore()
	prober := testkit.NewMemoryRowProber()
	prober.SeedRun("orders", "number", 5)

	allocator := newTestAllocator(store, prober, false)
	ctx := context.Background()

	const callers = 16
	results := make(chan int64, callers)
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			v, err := allocator.NextVal(ctx, "orders", "number", sequence.Identity)
			results <- v
			errs <- err
		}()
	}

	seen := make(map[int64]bool)
	for i := 0; i < callers; i++ {
		require.NoError(t, <-errs)
		v := <-results
		assert.False(t, seen[v], "duplicate value %d", v)
		assert.Greater(t, v, int64(5))
		seen[v] = true
	}
}
