// Package compare provides equality and ordering capabilities for collection elements.
package compare

// Comparable is a generic interface for types that can compare themselves for equality.
// Types implementing this interface must provide their own Equals method that determines
// whether two values are equal according to the type's semantics. For case-folding keys,
// Equals ignores letter case.
type Comparable[T any] interface {
	Equals(other T) bool
}

// Ordered extends Comparable with a three-way comparison, for elements stored
// in sorted collections. Compare returns a negative number when the receiver
// sorts before other, zero when they are equal, and a positive number otherwise.
// Compare and Equals must agree: Compare(other) == 0 iff Equals(other).
type Ordered[T any] interface {
	Comparable[T]

	Compare(other T) int
}

// Equals compares two values using the Comparable interface.
// It delegates to the Equals method of the first argument.
func Equals[T any](a Comparable[T], b T) bool {
	return a.Equals(b)
}

// Less reports whether a sorts strictly before b using the Ordered interface.
func Less[T any](a Ordered[T], b T) bool {
	return a.Compare(b) < 0
}
