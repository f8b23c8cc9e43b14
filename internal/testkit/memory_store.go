package testkit

import (
	"context"
	"fmt"
	"sync"

	"seqalloc/domain/sequence"
)

// MemorySequenceStore is an in-memory SequenceStore for tests and local
// runs. Counters exist only after CreateSequence; locks are per-key
// mutexes standing in for the store's cross-process locks.
type MemorySequenceStore struct {
	mu       sync.Mutex
	counters map[sequence.CounterName]int64
	locks    map[string]*sync.Mutex

	// AdvanceCalls counts AdvanceToAtLeast invocations, including no-ops
	AdvanceCalls int
}

// NewMemorySequenceStore creates an empty in-memory store
func NewMemorySequenceStore() *MemorySequenceStore {
	return &MemorySequenceStore{
		counters: make(map[sequence.CounterName]int64),
		locks:    make(map[string]*sync.Mutex),
	}
}

// CreateSequence provisions a counter whose last issued value is current
func (s *MemorySequenceStore) CreateSequence(name sequence.CounterName, current int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counters[name] = current
}

// Current returns the counter's last issued value
func (s *MemorySequenceStore) Current(name sequence.CounterName) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counters[name]
}

// SequenceExists implements ports.SequenceStore
func (s *MemorySequenceStore) SequenceExists(ctx context.Context, name sequence.CounterName) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.counters[name]
	return ok, nil
}

// NextVal implements ports.SequenceStore
func (s *MemorySequenceStore) NextVal(ctx context.Context, name sequence.CounterName) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.counters[name]
	if !ok {
		return 0, fmt.Errorf("sequence %q does not exist", name)
	}
	current++
	s.counters[name] = current
	return current, nil
}

// AdvanceToAtLeast implements ports.SequenceStore
func (s *MemorySequenceStore) AdvanceToAtLeast(ctx context.Context, name sequence.CounterName, target int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.AdvanceCalls++
	current, ok := s.counters[name]
	if !ok {
		return fmt.Errorf("sequence %q does not exist", name)
	}
	if target > current {
		s.counters[name] = target
	}
	return nil
}

// WithLock implements ports.SequenceStore
func (s *MemorySequenceStore) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	defer lock.Unlock()
	return fn(ctx)
}
