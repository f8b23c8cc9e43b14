package sequence

import "sync"

// Cache maps counter names to their resolution state for the lifetime of
// the process. A missing key means the name has never been probed.
//
// The mutex makes individual operations safe for concurrent callers; it
// does not make read-modify-write sequences atomic. Callers that race on
// a first-ever resolution may both compute and both write; the backing
// store's named lock still serializes the expensive work, so this is
// tolerated.
type Cache struct {
	mu      sync.RWMutex
	entries map[CounterName]CacheEntry
}

// NewCache creates an empty resolution cache
func NewCache() *Cache {
	return &Cache{entries: make(map[CounterName]CacheEntry)}
}

// Get returns the entry for name, if any
func (c *Cache) Get(name CounterName) (CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[name]
	return entry, ok
}

// Put stores or replaces the entry for name
func (c *Cache) Put(name CounterName, entry CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = entry
}

// ClearAll forgets every entry
func (c *Cache) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[CounterName]CacheEntry)
}

// ClearExistsOnly forgets every ExistsEntry but keeps every MissingEntry.
//
// An ExistsEntry is cheap to re-derive with a single catalog probe, and
// forgetting it is what re-arms the one-shot counter adjustment. A
// MissingEntry cost a boundary scan and must survive so that callers,
// including ones whose transactions rolled back after claiming a value,
// keep advancing from the same point instead of rescanning.
func (c *Cache) ClearExistsOnly() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, entry := range c.entries {
		if _, ok := entry.(ExistsEntry); ok {
			delete(c.entries, name)
		}
	}
}

// Len reports the number of cached entries
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
