// Package maps provides a case-preserving, case-insensitive associative
// container. Textual keys are compared, ordered, and hashed without regard to
// letter case, while the original casing of each key is preserved and
// returned to callers; non-textual keys behave exactly as in an ordinary
// mapping.
//
// The internal wrapped key type is never leaked: the key and entry views, and
// every key returned from an exported entry, yield plain strings. The views
// are live projections over the single shared backing store; removals
// propagate to the map, additions are rejected.
//
// The backing store kind is an explicit construction-time option. Concurrency
// characteristics are entirely inherited from the chosen kind: with a
// concurrent kind, individual operations are safe, but compound facade
// operations spanning two store calls are not atomic across the pair. The
// package deliberately adds no lock layer of its own.
package maps

import (
	"errors"
	"fmt"
	stdhash "hash"
	"iter"
	"reflect"
	"strings"

	"github.com/AndreyNudko/caseless/hashing"
)

// ErrHashCollision is returned when two distinct keys produce the same digest.
// This error indicates that the configured hash function is not suitable for
// the key space. The sorted kinds never return it; they order keys directly.
var ErrHashCollision = errors.New("hashing collision")

// ErrUnsupportedOperation is returned by mutations that a live view cannot
// support, such as adding a bare key without a value.
var ErrUnsupportedOperation = errors.New("unsupported operation on a map view")

// ErrOpaqueKeyNotSerializable is returned when marshalling a map that holds
// non-textual keys. Only all-text-key maps have a document representation.
var ErrOpaqueKeyNotSerializable = errors.New("opaque keys cannot be serialized")

// Kind selects the backing store implementation for a CaseInsensitiveMap.
// It replaces runtime type inspection of a copy source with an explicit
// configuration option.
type Kind uint8

const (
	// InsertionOrdered is the default kind: iteration follows first-insertion
	// order of each caseless key.
	InsertionOrdered Kind = iota

	// Unordered is a plain digest-keyed hash store with non-deterministic
	// iteration order.
	Unordered

	// Sorted keeps entries ordered by key under case-insensitive collation,
	// with textual keys sorting before all other key kinds.
	Sorted

	// ConcurrentUnordered wraps an Unordered store with a read-write mutex.
	ConcurrentUnordered

	// ConcurrentSorted wraps a Sorted store with a read-write mutex.
	ConcurrentSorted
)

// String returns the kind's name for diagnostics.
func (k Kind) String() string {
	switch k {
	case InsertionOrdered:
		return "insertion-ordered"
	case Unordered:
		return "unordered"
	case Sorted:
		return "sorted"
	case ConcurrentUnordered:
		return "concurrent-unordered"
	case ConcurrentSorted:
		return "concurrent-sorted"
	default:
		return "unknown"
	}
}

// CaseInsensitiveMap is a mapping whose textual keys are matched without
// regard to letter case while their original spelling is preserved. The zero
// value is not ready to use; construct instances with New and its variants.
// The sole exceptions are UnmarshalJSON and UnmarshalYAML, which initialize
// a zero-valued map themselves.
//
// On overwrite through a different-case spelling, the stored key's casing is
// replaced along with the value: the most recently written casing wins.
type CaseInsensitiveMap[V any] struct {
	kind Kind
	hash hashing.HashFunc
	data store[V]
}

// New creates an empty map with the default insertion-ordered backing store.
func New[V any]() *CaseInsensitiveMap[V] {
	return NewWithKind[V](InsertionOrdered)
}

// ensure initializes a zero-valued map to the defaults. Decoders construct
// maps reflectively, bypassing the constructors.
func (m *CaseInsensitiveMap[V]) ensure() {
	if m.data == nil {
		m.kind = InsertionOrdered
		m.hash = hashing.XX64
		m.data = newInsertionStore[V](m.hash, 0)
	}
}

// NewWithSize creates an empty insertion-ordered map pre-allocated for
// approximately size entries. This is a capacity hint only; the map grows
// as needed.
func NewWithSize[V any](size int) *CaseInsensitiveMap[V] {
	m := &CaseInsensitiveMap[V]{kind: InsertionOrdered, hash: hashing.XX64}
	m.data = newInsertionStore[V](m.hash, size)

	return m
}

// NewWithKind creates an empty map backed by the given store kind.
func NewWithKind[V any](kind Kind) *CaseInsensitiveMap[V] {
	return NewWithKindAndHash[V](kind, hashing.XX64)
}

// NewWithKindAndHash creates an empty map backed by the given store kind and
// digest function. The hash function is consulted only by the digest-based
// kinds; sorted kinds order keys directly and use it solely for Hash.
func NewWithKindAndHash[V any](kind Kind, hash hashing.HashFunc) *CaseInsensitiveMap[V] {
	m := &CaseInsensitiveMap[V]{kind: kind, hash: hash}

	switch kind {
	case Unordered:
		m.data = newHashStore[V](hash, 0)
	case Sorted:
		m.data = newSortedStore[V]()
	case ConcurrentUnordered:
		m.data = newSafeStore(newHashStore[V](hash, 0))
	case ConcurrentSorted:
		m.data = newSafeStore(newSortedStore[V]())
	case InsertionOrdered:
		m.data = newInsertionStore[V](hash, 0)
	default:
		m.data = newInsertionStore[V](hash, 0)
	}

	return m
}

// From creates a map of the given kind populated with every entry of source.
// The source's internal keys are copied directly, so the original casing of
// each stored key survives the copy without an unwrap/re-wrap round trip.
func From[V any](source *CaseInsensitiveMap[V], kind Kind) (*CaseInsensitiveMap[V], error) {
	m := NewWithKind[V](kind)

	if source == nil {
		return m, nil
	}

	if err := m.PutAll(source); err != nil {
		return nil, err
	}

	return m, nil
}

// FromGoMap creates an insertion-ordered map populated from a standard Go
// map with string keys. Keys differing only in case collapse to a single
// entry; which casing survives depends on Go map iteration order.
func FromGoMap[V any](source map[string]V) (*CaseInsensitiveMap[V], error) {
	m := NewWithSize[V](len(source))

	if err := m.PutAllGoMap(source); err != nil {
		return nil, err
	}

	return m, nil
}

// Kind returns the backing store kind this map was constructed with.
func (m *CaseInsensitiveMap[V]) Kind() Kind {
	return m.kind
}

// HashFunction returns the digest function used by this map.
func (m *CaseInsensitiveMap[V]) HashFunction() hashing.HashFunc {
	return m.hash
}

// Get retrieves the value for the given key. Textual keys match
// case-insensitively. A missing key is reported with found=false, never an
// error; errors surface only for unhashable opaque keys or digest collisions.
func (m *CaseInsensitiveMap[V]) Get(key any) (value V, found bool, err error) {
	return m.data.Get(WrapKey(key))
}

// GetOrElse retrieves the value for the given key, or returns defaultValue
// if the key is absent.
func (m *CaseInsensitiveMap[V]) GetOrElse(key any, defaultValue V) (V, error) {
	value, found, err := m.Get(key)
	if err != nil {
		var zero V

		return zero, err
	}

	if !found {
		return defaultValue, nil
	}

	return value, nil
}

// Put inserts or updates a key-value pair, returning the previous value if
// one was replaced. A textual key is always wrapped fresh, so overwriting an
// existing caseless match replaces the stored key's casing as well as its
// value.
func (m *CaseInsensitiveMap[V]) Put(key any, value V) (prev V, replaced bool, err error) {
	return m.data.Put(WrapKey(key), value)
}

// ContainsKey reports whether a key is present, matching textual keys
// case-insensitively.
func (m *CaseInsensitiveMap[V]) ContainsKey(key any) (bool, error) {
	return m.data.Contains(WrapKey(key))
}

// Remove deletes the entry for the given key, returning the removed value.
// Removing an absent key is a no-op.
func (m *CaseInsensitiveMap[V]) Remove(key any) (V, bool, error) {
	return m.data.Delete(WrapKey(key))
}

// PutAll merges every entry of other into this map. This is the documented
// fast path for merging two case-insensitive maps: it copies other's internal
// keys verbatim instead of re-deriving wrapped keys from already-unwrapped
// text, so each moved entry keeps its exact stored casing.
func (m *CaseInsensitiveMap[V]) PutAll(other *CaseInsensitiveMap[V]) error {
	if other == nil {
		return nil
	}

	for key, value := range other.data.Seq() {
		if _, _, err := m.data.Put(key, value); err != nil {
			return err
		}
	}

	return nil
}

// PutAllGoMap inserts every entry of a standard Go map, wrapping each key.
func (m *CaseInsensitiveMap[V]) PutAllGoMap(source map[string]V) error {
	for key, value := range source {
		if _, _, err := m.Put(key, value); err != nil {
			return err
		}
	}

	return nil
}

// PutEntries inserts the given entries. Every entry already carries its
// wrapped key, whether it came from an entry view or from NewEntry, so keys
// are inserted without a wrap/unwrap round trip.
func (m *CaseInsensitiveMap[V]) PutEntries(entries ...Entry[V]) error {
	for _, entry := range entries {
		if _, _, err := m.data.Put(entry.internal(), entry.Value()); err != nil {
			return err
		}
	}

	return nil
}

// Size returns the number of entries. Keys differing only in case count once.
func (m *CaseInsensitiveMap[V]) Size() int {
	return m.data.Len()
}

// IsEmpty reports whether the map has no entries.
func (m *CaseInsensitiveMap[V]) IsEmpty() bool {
	return m.data.Len() == 0
}

// Clear removes all entries. Views observe the cleared state immediately.
func (m *CaseInsensitiveMap[V]) Clear() {
	m.data.Clear()
}

// ContainsValue reports whether any entry holds the given value, compared
// with reflect.DeepEqual. Values are never wrapped.
func (m *CaseInsensitiveMap[V]) ContainsValue(value V) bool {
	for _, v := range m.data.Seq() {
		if valueEquals(v, value) {
			return true
		}
	}

	return false
}

// Values returns all values in the map's iteration order.
func (m *CaseInsensitiveMap[V]) Values() []V {
	values := make([]V, 0, m.data.Len())

	for _, v := range m.data.Seq() {
		values = append(values, v)
	}

	return values
}

// Seq returns a live iterator over (display key, value) pairs in the backing
// store's iteration order. Keys are always plain values, never the internal
// wrapped form. Structural modification during iteration has undefined
// results, matching the backing store's own contract.
func (m *CaseInsensitiveMap[V]) Seq() iter.Seq2[any, V] {
	return func(yield func(any, V) bool) {
		for key, value := range m.data.Seq() {
			if !yield(key.Display(), value) {
				return
			}
		}
	}
}

// Keys returns a live, set-like view over the map's keys.
func (m *CaseInsensitiveMap[V]) Keys() *KeyView[V] {
	return &KeyView[V]{owner: m}
}

// Entries returns a live, set-like view over the map's entries.
func (m *CaseInsensitiveMap[V]) Entries() *EntryView[V] {
	return &EntryView[V]{owner: m}
}

// Equals reports structural equality with another case-insensitive map: same
// size, and every entry of other has a caseless key match here with an equal
// value. Nil values equal only nil values. Hash failures on either side count
// as inequality.
func (m *CaseInsensitiveMap[V]) Equals(other *CaseInsensitiveMap[V]) bool {
	if other == nil {
		return false
	}

	if m.Size() != other.Size() {
		return false
	}

	for key, theirs := range other.data.Seq() {
		ours, found, err := m.data.Get(key)
		if err != nil || !found {
			return false
		}

		if !valueEquals(ours, theirs) {
			return false
		}
	}

	return true
}

// EqualsGoMap reports structural equality with a standard Go map, matching
// its keys case-insensitively against this map's entries.
func (m *CaseInsensitiveMap[V]) EqualsGoMap(other map[string]V) bool {
	if m.Size() != len(other) {
		return false
	}

	for key, theirs := range other {
		ours, found, err := m.Get(key)
		if err != nil || !found {
			return false
		}

		if !valueEquals(ours, theirs) {
			return false
		}
	}

	return true
}

// Hash returns a digest of the map's contents: the sum over entries of
// key-digest XOR value-digest. Insensitive to iteration order, so two maps
// that are Equals always hash equally, regardless of key casing or backing
// store kind.
func (m *CaseInsensitiveMap[V]) Hash() (uint64, error) {
	var sum uint64

	for key, value := range m.data.Seq() {
		keyDigest, err := digest64(m.hash, key)
		if err != nil {
			return 0, err
		}

		valueDigest, err := digest64(m.hash, hashableValue{value})
		if err != nil {
			return 0, err
		}

		sum += keyDigest ^ valueDigest
	}

	return sum, nil
}

// String renders the map in Go's map[k:v] style, using display keys in the
// backing store's iteration order.
func (m *CaseInsensitiveMap[V]) String() string {
	var sb strings.Builder

	sb.WriteString("map[")

	first := true

	for key, value := range m.data.Seq() {
		if !first {
			sb.WriteByte(' ')
		}

		first = false

		fmt.Fprintf(&sb, "%v:%v", key.Display(), value)
	}

	sb.WriteByte(']')

	return sb.String()
}

// valueEquals is the single value-equality rule used by Equals, ContainsValue
// and the entry view: deep equality, with nil equal only to nil.
func valueEquals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	return reflect.DeepEqual(a, b)
}

// hashableValue adapts an arbitrary map value for digesting. Supported scalar
// types hash by their tagged contents; everything else falls back to a
// deterministic rendering, so DeepEqual values digest identically.
type hashableValue struct {
	value any
}

func (v hashableValue) UpdateHash(h stdhash.Hash) error {
	if v.value == nil {
		_, err := h.Write([]byte{0})

		return err
	}

	if err := hashing.UpdateHashValue(h, v.value); err != nil {
		if errors.Is(err, hashing.ErrUnsupportedKeyType) {
			_, werr := fmt.Fprintf(h, "%T\x00%#v", v.value, v.value)

			return werr
		}

		return err
	}

	return nil
}

// digest64 folds a hex digest string into a uint64.
func digest64(hash hashing.HashFunc, hashable hashing.Hashable) (uint64, error) {
	digest, err := hash(hashable)
	if err != nil {
		return 0, err
	}

	var out uint64

	for i := 0; i < len(digest) && i < 16; i++ {
		out = out<<4 | uint64(hexNibble(digest[i]))
	}

	return out, nil
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}
