package maps

import (
	"iter"
	"sort"

	"facette.io/natsort"
)

// KeyView is a live, set-like view of a map's keys. It holds no data of its
// own: reads consult the owning map directly, and removals write through to
// it. Keys compare case-insensitively, exactly as they do on the map itself.
//
// The view supports removal but not insertion; a key without a value has no
// meaning, so Add and AddAll fail with ErrUnsupportedOperation.
type KeyView[V any] struct {
	owner *CaseInsensitiveMap[V]
}

// Contains reports whether the owning map has an entry for the given key.
func (v *KeyView[V]) Contains(key any) (bool, error) {
	return v.owner.ContainsKey(key)
}

// Remove deletes the entry for the given key from the owning map. It reports
// whether the map shrank.
func (v *KeyView[V]) Remove(key any) (bool, error) {
	_, removed, err := v.owner.Remove(key)

	return removed, err
}

// RemoveAll deletes the entries for all given keys. It reports whether the
// map shrank.
func (v *KeyView[V]) RemoveAll(keys ...any) (bool, error) {
	changed := false

	for _, key := range keys {
		removed, err := v.Remove(key)
		if err != nil {
			return changed, err
		}

		changed = changed || removed
	}

	return changed, nil
}

// RetainAll deletes every entry whose key is not among the given keys,
// compared case-insensitively. It reports whether the map shrank.
func (v *KeyView[V]) RetainAll(keys ...any) (bool, error) {
	keep := New[struct{}]()

	for _, key := range keys {
		if _, _, err := keep.Put(key, struct{}{}); err != nil {
			return false, err
		}
	}

	var doomed []Key

	for key := range v.owner.data.Seq() {
		found, err := keep.data.Contains(key)
		if err != nil {
			return false, err
		}

		if !found {
			doomed = append(doomed, key)
		}
	}

	for _, key := range doomed {
		if _, _, err := v.owner.data.Delete(key); err != nil {
			return len(doomed) > 0, err
		}
	}

	return len(doomed) > 0, nil
}

// Add always fails: keys cannot be inserted through the view because they
// carry no value. The owning map is left untouched.
func (v *KeyView[V]) Add(key any) error {
	return ErrUnsupportedOperation
}

// AddAll always fails, like Add.
func (v *KeyView[V]) AddAll(keys ...any) error {
	return ErrUnsupportedOperation
}

// Seq iterates the keys in the owning map's iteration order, yielding each
// key in its original spelling.
func (v *KeyView[V]) Seq() iter.Seq[any] {
	return func(yield func(any) bool) {
		for key := range v.owner.data.Seq() {
			if !yield(key.Display()) {
				return
			}
		}
	}
}

// Strings returns the textual keys in iteration order, in their original
// spelling. Opaque keys are skipped.
func (v *KeyView[V]) Strings() []string {
	result := make([]string, 0, v.Size())

	for key := range v.owner.data.Seq() {
		if key.IsText() {
			result = append(result, key.String())
		}
	}

	return result
}

// SortedStrings returns the textual keys in lexicographic order.
func (v *KeyView[V]) SortedStrings() []string {
	result := v.Strings()
	sort.Strings(result)

	return result
}

// NaturalSortedStrings returns the textual keys in natural order, where
// embedded numbers sort by value ("host2" before "host10").
func (v *KeyView[V]) NaturalSortedStrings() []string {
	result := v.Strings()
	natsort.Sort(result)

	return result
}

// Size returns the number of keys in the owning map.
func (v *KeyView[V]) Size() int {
	return v.owner.Size()
}

// IsEmpty reports whether the owning map has no entries.
func (v *KeyView[V]) IsEmpty() bool {
	return v.owner.IsEmpty()
}

// Clear removes all entries from the owning map.
func (v *KeyView[V]) Clear() {
	v.owner.Clear()
}

// Hash returns an order-independent digest of the key set: the sum of the
// individual key digests. Two maps holding the same keys under any casing
// produce the same hash.
func (v *KeyView[V]) Hash() (uint64, error) {
	var sum uint64

	for key := range v.owner.data.Seq() {
		digest, err := digest64(v.owner.hash, key)
		if err != nil {
			return 0, err
		}

		sum += digest
	}

	return sum, nil
}
