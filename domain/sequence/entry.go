package sequence

// CacheEntry is the resolution state remembered for one counter name.
// Exactly two variants implement it: ExistsEntry and MissingEntry. The
// third state, "unknown", is the absence of an entry in the cache.
type CacheEntry interface {
	cacheEntry()
}

// ExistsEntry records that the native counter is known to exist.
// Authoritative until explicitly cleared.
type ExistsEntry struct {
	Name CounterName
}

// MissingEntry records that no native counter exists for the pair and
// carries the last value handed out through the fallback path.
type MissingEntry struct {
	Name            CounterName
	EntityType      string
	Attribute       string
	CalculatedStart int64
}

func (ExistsEntry) cacheEntry()  {}
func (MissingEntry) cacheEntry() {}
