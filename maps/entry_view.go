package maps

import "iter"

// Entry is a single key-value pair. Entries obtained from a map's EntryView
// are connected to that map: SetValue writes the new value through to the
// owning entry. Detached entries built with NewEntry carry no owner and are
// used as arguments to the view's bulk operations.
type Entry[V any] struct {
	owner *CaseInsensitiveMap[V]
	key   Key
	value V
}

// NewEntry builds a detached entry for use with EntryView operations such as
// Contains and RetainAll.
func NewEntry[V any](key any, value V) Entry[V] {
	return Entry[V]{key: WrapKey(key), value: value}
}

// Key returns the entry's key in its original spelling.
func (e *Entry[V]) Key() any {
	return e.key.Display()
}

// Value returns the entry's value.
func (e *Entry[V]) Value() V {
	return e.value
}

// SetValue replaces the entry's value, writing through to the owning map when
// the entry came from an EntryView. It returns the previous value.
func (e *Entry[V]) SetValue(value V) (V, error) {
	prev := e.value

	if e.owner != nil {
		if _, _, err := e.owner.data.Put(e.key, value); err != nil {
			return prev, err
		}
	}

	e.value = value

	return prev, nil
}

// internal exposes the wrapped key so bulk copies between maps can reuse it
// without re-folding.
func (e *Entry[V]) internal() Key {
	return e.key
}

// EntryView is a live, set-like view of a map's entries. Like KeyView it
// holds no data: membership checks and removals operate on the owning map,
// and entries yielded during iteration write values through via SetValue.
//
// Insertion is not supported; use Put on the map. Add and AddAll fail with
// ErrUnsupportedOperation.
type EntryView[V any] struct {
	owner *CaseInsensitiveMap[V]
}

// Contains reports whether the owning map holds an entry with the same key
// (case-insensitively) and an equal value.
func (v *EntryView[V]) Contains(entry Entry[V]) (bool, error) {
	return v.ContainsKV(entry.key.Display(), entry.value)
}

// ContainsKV reports whether the owning map maps the given key to an equal
// value.
func (v *EntryView[V]) ContainsKV(key any, value V) (bool, error) {
	current, found, err := v.owner.Get(key)
	if err != nil || !found {
		return false, err
	}

	return valueEquals(current, value), nil
}

// Remove deletes the owning map's entry matching the given pair, if the
// stored value is equal. It reports whether the map shrank.
func (v *EntryView[V]) Remove(entry Entry[V]) (bool, error) {
	return v.RemoveKV(entry.key.Display(), entry.value)
}

// RemoveKV deletes the entry for key only when its value equals the given
// value. It reports whether the map shrank.
func (v *EntryView[V]) RemoveKV(key any, value V) (bool, error) {
	matches, err := v.ContainsKV(key, value)
	if err != nil || !matches {
		return false, err
	}

	_, removed, err := v.owner.Remove(key)

	return removed, err
}

// RemoveAll deletes every matching pair. It reports whether the map shrank.
func (v *EntryView[V]) RemoveAll(entries ...Entry[V]) (bool, error) {
	changed := false

	for _, entry := range entries {
		removed, err := v.Remove(entry)
		if err != nil {
			return changed, err
		}

		changed = changed || removed
	}

	return changed, nil
}

// RetainAll deletes every entry of the owning map that does not appear among
// the given pairs, comparing keys case-insensitively and values with deep
// equality. It reports whether the map shrank.
func (v *EntryView[V]) RetainAll(entries ...Entry[V]) (bool, error) {
	keep := New[V]()

	for _, entry := range entries {
		if _, _, err := keep.data.Put(entry.key, entry.value); err != nil {
			return false, err
		}
	}

	var doomed []Key

	for key, value := range v.owner.data.Seq() {
		kept, found, err := keep.data.Get(key)
		if err != nil {
			return false, err
		}

		if !found || !valueEquals(kept, value) {
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

// Add always fails: entries are inserted with Put on the map, not through the
// view. The owning map is left untouched.
func (v *EntryView[V]) Add(entry Entry[V]) error {
	return ErrUnsupportedOperation
}

// AddAll always fails, like Add.
func (v *EntryView[V]) AddAll(entries ...Entry[V]) error {
	return ErrUnsupportedOperation
}

// Seq iterates the entries in the owning map's iteration order. Yielded
// entries are connected: calling SetValue on one updates the map.
func (v *EntryView[V]) Seq() iter.Seq[Entry[V]] {
	return func(yield func(Entry[V]) bool) {
		for key, value := range v.owner.data.Seq() {
			if !yield(Entry[V]{owner: v.owner, key: key, value: value}) {
				return
			}
		}
	}
}

// Slice returns the entries as a slice in iteration order.
func (v *EntryView[V]) Slice() []Entry[V] {
	result := make([]Entry[V], 0, v.Size())

	for entry := range v.Seq() {
		result = append(result, entry)
	}

	return result
}

// Size returns the number of entries in the owning map.
func (v *EntryView[V]) Size() int {
	return v.owner.Size()
}

// IsEmpty reports whether the owning map has no entries.
func (v *EntryView[V]) IsEmpty() bool {
	return v.owner.IsEmpty()
}

// Clear removes all entries from the owning map.
func (v *EntryView[V]) Clear() {
	v.owner.Clear()
}
