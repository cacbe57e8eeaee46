package maps

import (
	"iter"

	"github.com/AndreyNudko/caseless/hashing"
)

// storeEntry holds a wrapped key together with its value. The key keeps the
// original spelling; overwriting an entry replaces the whole pair, which is
// how the most-recent-casing rule reaches the store.
type storeEntry[V any] struct {
	Key   Key
	Value V
}

// store is the single source of truth behind a CaseInsensitiveMap: a mapping
// from wrapped keys to values. The facade owns it exclusively; views hold
// only a reference to the owning map, never a copy.
type store[V any] interface {
	// Get retrieves the value for the given key, reporting found=false for an
	// absent key. Digest-based stores return ErrHashCollision if a different
	// key shares the digest.
	Get(key Key) (value V, found bool, err error)

	// Put inserts or replaces the entry for the given key, storing the new
	// key alongside the value, and returns the previous value if any.
	Put(key Key, value V) (prev V, replaced bool, err error)

	// Delete removes the entry for the given key, returning the removed
	// value. Deleting an absent key is a no-op.
	Delete(key Key) (V, bool, error)

	// Contains reports whether the key is present.
	Contains(key Key) (bool, error)

	// Len returns the number of entries.
	Len() int

	// Clear removes all entries.
	Clear()

	// Seq iterates over (Key, value) pairs in the store's own order.
	Seq() iter.Seq2[Key, V]
}

// hashStore is a digest-keyed store: entries live in a Go map indexed by the
// key's digest string, and collisions are detected by comparing the stored
// key with Equals. Iteration order is non-deterministic.
type hashStore[V any] struct {
	hash hashing.HashFunc
	data map[string]storeEntry[V]
}

func newHashStore[V any](hash hashing.HashFunc, size int) *hashStore[V] {
	return &hashStore[V]{
		hash: hash,
		data: make(map[string]storeEntry[V], size),
	}
}

func (h *hashStore[V]) Get(key Key) (V, bool, error) {
	var zero V

	digest, err := h.hash(key)
	if err != nil {
		return zero, false, err
	}

	entry, ok := h.data[digest]
	if !ok {
		return zero, false, nil
	}

	if !entry.Key.Equals(key) {
		return zero, false, ErrHashCollision
	}

	return entry.Value, true, nil
}

func (h *hashStore[V]) Put(key Key, value V) (V, bool, error) {
	var zero V

	digest, err := h.hash(key)
	if err != nil {
		return zero, false, err
	}

	prev, ok := h.data[digest]

	if ok && !key.Equals(prev.Key) {
		return zero, false, ErrHashCollision
	}

	h.data[digest] = storeEntry[V]{Key: key, Value: value}

	return prev.Value, ok, nil
}

func (h *hashStore[V]) Delete(key Key) (V, bool, error) {
	var zero V

	digest, err := h.hash(key)
	if err != nil {
		return zero, false, err
	}

	prev, ok := h.data[digest]

	if ok && !key.Equals(prev.Key) {
		return zero, false, ErrHashCollision
	}

	delete(h.data, digest)

	return prev.Value, ok, nil
}

func (h *hashStore[V]) Contains(key Key) (bool, error) {
	digest, err := h.hash(key)
	if err != nil {
		return false, err
	}

	entry, ok := h.data[digest]

	if !ok {
		return false, nil
	}

	if !entry.Key.Equals(key) {
		return false, ErrHashCollision
	}

	return true, nil
}

func (h *hashStore[V]) Len() int {
	return len(h.data)
}

func (h *hashStore[V]) Clear() {
	h.data = make(map[string]storeEntry[V])
}

func (h *hashStore[V]) Seq() iter.Seq2[Key, V] {
	return func(yield func(Key, V) bool) {
		for _, entry := range h.data {
			if !yield(entry.Key, entry.Value) {
				return
			}
		}
	}
}

// insertionStore is the default backing store: a digest-keyed map combined
// with a slice of digests recording first-insertion order. Overwriting an
// existing caseless key replaces its stored spelling but not its position.
type insertionStore[V any] struct {
	hash    hashing.HashFunc
	ordered []string // digests in first-insertion order
	data    map[string]storeEntry[V]
}

func newInsertionStore[V any](hash hashing.HashFunc, size int) *insertionStore[V] {
	return &insertionStore[V]{
		hash: hash,
		data: make(map[string]storeEntry[V], size),
	}
}

func (s *insertionStore[V]) Get(key Key) (V, bool, error) {
	var zero V

	digest, err := s.hash(key)
	if err != nil {
		return zero, false, err
	}

	entry, ok := s.data[digest]
	if !ok {
		return zero, false, nil
	}

	if !entry.Key.Equals(key) {
		return zero, false, ErrHashCollision
	}

	return entry.Value, true, nil
}

func (s *insertionStore[V]) Put(key Key, value V) (V, bool, error) {
	var zero V

	digest, err := s.hash(key)
	if err != nil {
		return zero, false, err
	}

	prev, ok := s.data[digest]

	if ok && !key.Equals(prev.Key) {
		return zero, false, ErrHashCollision
	}

	if !ok {
		s.ordered = append(s.ordered, digest)
	}

	s.data[digest] = storeEntry[V]{Key: key, Value: value}

	return prev.Value, ok, nil
}

func (s *insertionStore[V]) Delete(key Key) (V, bool, error) {
	var zero V

	digest, err := s.hash(key)
	if err != nil {
		return zero, false, err
	}

	prev, ok := s.data[digest]

	if ok && !key.Equals(prev.Key) {
		return zero, false, ErrHashCollision
	}

	if ok {
		for i, d := range s.ordered {
			if d == digest {
				s.ordered = append(s.ordered[:i], s.ordered[i+1:]...)

				break
			}
		}
	}

	delete(s.data, digest)

	return prev.Value, ok, nil
}

func (s *insertionStore[V]) Contains(key Key) (bool, error) {
	digest, err := s.hash(key)
	if err != nil {
		return false, err
	}

	entry, ok := s.data[digest]

	if !ok {
		return false, nil
	}

	if !entry.Key.Equals(key) {
		return false, ErrHashCollision
	}

	return true, nil
}

func (s *insertionStore[V]) Len() int {
	return len(s.data)
}

func (s *insertionStore[V]) Clear() {
	s.ordered = nil
	s.data = make(map[string]storeEntry[V])
}

func (s *insertionStore[V]) Seq() iter.Seq2[Key, V] {
	return func(yield func(Key, V) bool) {
		for _, digest := range s.ordered {
			entry, ok := s.data[digest]
			if !ok {
				continue
			}

			if !yield(entry.Key, entry.Value) {
				return
			}
		}
	}
}
