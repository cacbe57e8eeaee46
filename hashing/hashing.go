// Package hashing provides the hashing capabilities consumed by the caseless
// collections: a Hashable/HashFunc pair for digesting keys, several concrete
// digest functions, and the Unicode case-fold transform that makes textual
// keys hash identically regardless of letter case.
package hashing

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"math"

	"github.com/OneOfOne/xxhash"
	"github.com/zeebo/xxh3"
	"golang.org/x/text/cases"
)

// ErrUnsupportedKeyType is returned when a non-textual key of an unsupported
// type is hashed. Supported opaque key types are Go's numeric types, strings,
// byte slices, and booleans.
var ErrUnsupportedKeyType = errors.New("unsupported key type for hashing")

// HashFunc is a function that takes a Hashable object
// and returns a string representation of its hashing.
// As an example, the XX64 function is a HashFunc.
// This lets us talk about hashing functions in a generic way.
type HashFunc func(hashable Hashable) (string, error)

// Hashable is an interface that allows an object to update
// a hash.Hash with its contents. This is useful for hashing
// objects so that they can be easily compared.
type Hashable interface {
	UpdateHash(h hash.Hash) error
}

// XX64 returns the XXHash64 digest of the given Hashable as a hex-encoded
// string. XXHash64 is a fast non-cryptographic hash; it is the default digest
// for the caseless maps. If the Hashable fails to update the hash, an error
// is returned.
func XX64(hashable Hashable) (string, error) {
	h := xxhash.New64()

	if err := hashable.UpdateHash(h); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// XXH3 returns the XXH3 digest of the given Hashable as a hex-encoded string.
// XXH3 is an alternative non-cryptographic hash with better throughput on
// short inputs.
func XXH3(hashable Hashable) (string, error) {
	h := xxh3.New()

	if err := hashable.UpdateHash(h); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Sha256 returns the SHA256 hashing of the given Hashable
// as a hex-encoded string. If the Hashable fails to
// update the hashing, an error is returned.
func Sha256(hashable Hashable) (string, error) {
	h := sha256.New()

	if err := hashable.UpdateHash(h); err != nil {
		return "", err
	}

	bts := h.Sum(nil)

	return hex.EncodeToString(bts), nil
}

// Fold returns the Unicode case-folded form of s. Two strings are
// case-insensitively equal exactly when their folded forms are byte-equal,
// so the folded form is the single canonical representation used for
// caseless equality, ordering, and hashing.
func Fold(s string) string {
	// cases.Caser is stateful and not safe for concurrent use.
	return cases.Fold().String(s)
}

// Type tags written ahead of opaque key bytes so that values of different
// types can never produce the same digest input.
const (
	tagString byte = iota + 1
	tagBytes
	tagInt
	tagUint
	tagFloat
	tagBool
)

// UpdateHashValue writes a type-tagged representation of an opaque key value
// to the provided hash.Hash. Returns ErrUnsupportedKeyType for values that
// are not numeric, string, []byte, or bool.
func UpdateHashValue(h hash.Hash, value any) error {
	switch v := value.(type) {
	case string:
		return writeTagged(h, tagString, []byte(v))
	case []byte:
		return writeTagged(h, tagBytes, v)
	case int:
		return writeInt(h, int64(v))
	case int8:
		return writeInt(h, int64(v))
	case int16:
		return writeInt(h, int64(v))
	case int32:
		return writeInt(h, int64(v))
	case int64:
		return writeInt(h, v)
	case uint:
		return writeUint(h, tagUint, uint64(v))
	case uint8:
		return writeUint(h, tagUint, uint64(v))
	case uint16:
		return writeUint(h, tagUint, uint64(v))
	case uint32:
		return writeUint(h, tagUint, uint64(v))
	case uint64:
		return writeUint(h, tagUint, v)
	case float32:
		return writeUint(h, tagFloat, math.Float64bits(float64(v)))
	case float64:
		return writeUint(h, tagFloat, math.Float64bits(v))
	case bool:
		b := byte(0)
		if v {
			b = 1
		}

		return writeTagged(h, tagBool, []byte{b})
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedKeyType, value)
	}
}

func writeTagged(h hash.Hash, tag byte, data []byte) error {
	if _, err := h.Write([]byte{tag}); err != nil {
		return err
	}

	_, err := h.Write(data)

	return err
}

func writeInt(h hash.Hash, v int64) error {
	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], uint64(v))

	return writeTagged(h, tagInt, buf[:])
}

func writeUint(h hash.Hash, tag byte, v uint64) error {
	var buf [8]byte

	binary.BigEndian.PutUint64(buf[:], v)

	return writeTagged(h, tag, buf[:])
}

// HashableString is a string that hashes as its exact contents.
// For case-insensitive hashing, fold the string first with Fold.
type HashableString string

func (s HashableString) String() string {
	return string(s)
}

func (s HashableString) UpdateHash(h hash.Hash) error {
	_, err := h.Write([]byte(s))
	if err != nil {
		return err
	}

	return nil
}

func (s HashableString) Equals(other HashableString) bool {
	return s == other
}
