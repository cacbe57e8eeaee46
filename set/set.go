// Package set provides a case-preserving, case-insensitive string set built
// on the caseless map. Membership ignores letter case while each element's
// original spelling is preserved; re-adding an element under a different
// casing replaces the stored spelling.
package set

import (
	"fmt"
	"iter"
	"strings"

	"github.com/AndreyNudko/caseless/maps"
)

// CaseInsensitive is a set of strings with caseless membership. The zero
// value is not ready to use; construct instances with New and its variants.
type CaseInsensitive struct {
	data *maps.CaseInsensitiveMap[struct{}]
}

// New creates an empty insertion-ordered set.
func New() *CaseInsensitive {
	return NewWithKind(maps.InsertionOrdered)
}

// NewWithKind creates an empty set backed by the given store kind. The kind
// controls iteration order and concurrency exactly as it does for the map.
func NewWithKind(kind maps.Kind) *CaseInsensitive {
	return &CaseInsensitive{data: maps.NewWithKind[struct{}](kind)}
}

// Of creates an insertion-ordered set holding the given items. Items
// differing only in case collapse; the last spelling wins.
func Of(items ...string) (*CaseInsensitive, error) {
	s := New()

	if err := s.AddAll(items...); err != nil {
		return nil, err
	}

	return s, nil
}

// ensure initializes a zero-valued set to the defaults, for decoders that
// construct sets reflectively.
func (s *CaseInsensitive) ensure() {
	if s.data == nil {
		s.data = maps.New[struct{}]()
	}
}

// Add inserts an item. Adding an existing item replaces its stored casing.
func (s *CaseInsensitive) Add(item string) error {
	_, _, err := s.data.Put(item, struct{}{})

	return err
}

// AddAll inserts every given item.
func (s *CaseInsensitive) AddAll(items ...string) error {
	for _, item := range items {
		if err := s.Add(item); err != nil {
			return err
		}
	}

	return nil
}

// Remove deletes an item, matching case-insensitively. It reports whether
// the set shrank.
func (s *CaseInsensitive) Remove(item string) (bool, error) {
	_, removed, err := s.data.Remove(item)

	return removed, err
}

// Contains reports caseless membership.
func (s *CaseInsensitive) Contains(item string) (bool, error) {
	return s.data.ContainsKey(item)
}

// Size returns the number of elements.
func (s *CaseInsensitive) Size() int {
	return s.data.Size()
}

// IsEmpty reports whether the set has no elements.
func (s *CaseInsensitive) IsEmpty() bool {
	return s.data.IsEmpty()
}

// Clear removes all elements.
func (s *CaseInsensitive) Clear() {
	s.data.Clear()
}

// Seq iterates elements in the backing store's order, each in its stored
// spelling.
func (s *CaseInsensitive) Seq() iter.Seq[string] {
	return func(yield func(string) bool) {
		for item := range s.data.Keys().Seq() {
			text, ok := item.(string)
			if !ok {
				continue
			}

			if !yield(text) {
				return
			}
		}
	}
}

// Strings returns the elements in iteration order.
func (s *CaseInsensitive) Strings() []string {
	return s.data.Keys().Strings()
}

// SortedStrings returns the elements in lexicographic order.
func (s *CaseInsensitive) SortedStrings() []string {
	return s.data.Keys().SortedStrings()
}

// NaturalSortedStrings returns the elements in natural order, with embedded
// numbers compared by value.
func (s *CaseInsensitive) NaturalSortedStrings() []string {
	return s.data.Keys().NaturalSortedStrings()
}

// Union returns a new set holding every element of both sets. Where both
// sides hold a caseless match, the other set's spelling wins, consistent
// with add-order semantics.
func (s *CaseInsensitive) Union(other *CaseInsensitive) (*CaseInsensitive, error) {
	result := New()

	if err := result.AddAll(s.Strings()...); err != nil {
		return nil, err
	}

	if other != nil {
		if err := result.AddAll(other.Strings()...); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Intersection returns a new set holding the elements present in both sets,
// matched case-insensitively, spelled as this set spells them.
func (s *CaseInsensitive) Intersection(other *CaseInsensitive) (*CaseInsensitive, error) {
	result := New()

	if other == nil {
		return result, nil
	}

	for _, item := range s.Strings() {
		found, err := other.Contains(item)
		if err != nil {
			return nil, err
		}

		if found {
			if err := result.Add(item); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// Difference returns a new set holding this set's elements that have no
// caseless match in other.
func (s *CaseInsensitive) Difference(other *CaseInsensitive) (*CaseInsensitive, error) {
	result := New()

	for _, item := range s.Strings() {
		if other != nil {
			found, err := other.Contains(item)
			if err != nil {
				return nil, err
			}

			if found {
				continue
			}
		}

		if err := result.Add(item); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Equals reports whether both sets hold the same elements under caseless
// comparison, regardless of spelling or order.
func (s *CaseInsensitive) Equals(other *CaseInsensitive) bool {
	if other == nil {
		return false
	}

	return s.data.Equals(other.data)
}

// String renders the set as [a b c] in iteration order.
func (s *CaseInsensitive) String() string {
	var sb strings.Builder

	sb.WriteByte('[')

	for i, item := range s.Strings() {
		if i > 0 {
			sb.WriteByte(' ')
		}

		fmt.Fprintf(&sb, "%v", item)
	}

	sb.WriteByte(']')

	return sb.String()
}
