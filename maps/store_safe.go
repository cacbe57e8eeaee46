package maps

import (
	"iter"
	"sync"
)

// safeStore wraps another store with a read-write mutex, making every
// individual operation safe for concurrent use. Iteration takes a snapshot
// under the read lock, so writers are never blocked for the duration of a
// range loop and the loop body may safely mutate the map.
type safeStore[V any] struct {
	mutex sync.RWMutex
	inner store[V]
}

func newSafeStore[V any](inner store[V]) *safeStore[V] {
	return &safeStore[V]{inner: inner}
}

func (s *safeStore[V]) Get(key Key) (V, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.inner.Get(key)
}

func (s *safeStore[V]) Put(key Key, value V) (V, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.inner.Put(key, value)
}

func (s *safeStore[V]) Delete(key Key) (V, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.inner.Delete(key)
}

func (s *safeStore[V]) Contains(key Key) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.inner.Contains(key)
}

func (s *safeStore[V]) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return s.inner.Len()
}

func (s *safeStore[V]) Clear() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.inner.Clear()
}

func (s *safeStore[V]) Seq() iter.Seq2[Key, V] {
	return func(yield func(Key, V) bool) {
		for _, entry := range s.snapshot() {
			if !yield(entry.Key, entry.Value) {
				return
			}
		}
	}
}

func (s *safeStore[V]) snapshot() []storeEntry[V] {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	entries := make([]storeEntry[V], 0, s.inner.Len())
	for key, value := range s.inner.Seq() {
		entries = append(entries, storeEntry[V]{Key: key, Value: value})
	}

	return entries
}
