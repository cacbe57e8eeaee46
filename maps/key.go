package maps

import (
	"bytes"
	"fmt"
	"hash"
	"reflect"
	"strings"

	"github.com/AndreyNudko/caseless/compare"
	"github.com/AndreyNudko/caseless/hashing"
)

// Key carries the full set of collection capabilities: caseless equality,
// three-way ordering, and hashing.
var (
	_ compare.Ordered[Key] = Key{}
	_ hashing.Hashable     = Key{}
)

type keyKind uint8

const (
	textKind keyKind = iota
	opaqueKind
)

// Key is the internal representation of a map key: either a textual key,
// carrying both its original spelling and the case-folded form computed once
// at construction, or an opaque key holding any Go-comparable value as-is.
//
// Keys compare, order, and hash case-insensitively for text; the original
// spelling is preserved and is what callers see on export. A Key is an
// immutable value type: a brand-new Key is constructed for every write, which
// is what makes the most recently written casing win on overwrite.
type Key struct {
	kind   keyKind
	text   string // original spelling, exact case (text keys only)
	folded string // case-folded form of text, the canonical caseless representation
	opaque any    // raw value (opaque keys only)
}

// TextKey wraps a textual key, computing its case-folded form eagerly.
func TextKey(s string) Key {
	return Key{kind: textKind, text: s, folded: hashing.Fold(s)}
}

// OpaqueKey wraps a non-textual key. The value is stored and compared as-is;
// it must be Go-comparable and of a type supported by hashing.UpdateHashValue
// when used in a digest-based backing store.
func OpaqueKey(value any) Key {
	return Key{kind: opaqueKind, opaque: value}
}

// WrapKey routes a caller-supplied key to the right Key constructor:
// strings become text keys, everything else stays opaque.
func WrapKey(key any) Key {
	if s, ok := key.(string); ok {
		return TextKey(s)
	}

	return OpaqueKey(key)
}

// IsText reports whether this is a textual (case-folding) key.
func (k Key) IsText() bool {
	return k.kind == textKind
}

// Display returns the plain form of the key as exposed to callers:
// the original string spelling for text keys, the raw value otherwise.
func (k Key) Display() any {
	if k.kind == textKind {
		return k.text
	}

	return k.opaque
}

// String returns the original spelling for text keys, so a wrapped key
// renders identically to the string it was built from.
func (k Key) String() string {
	if k.kind == textKind {
		return k.text
	}

	return fmt.Sprint(k.opaque)
}

// UpdateHash writes the key's caseless representation to the hash: the folded
// text for textual keys, a type-tagged rendering of the raw value otherwise.
// Two keys that differ only in case always produce the same digest.
func (k Key) UpdateHash(h hash.Hash) error {
	if k.kind == textKind {
		_, err := h.Write([]byte(k.folded))

		return err
	}

	return hashing.UpdateHashValue(h, k.opaque)
}

// Equals reports whether two keys are equal. Text keys compare by their
// folded forms, ignoring case; opaque keys compare with ==, except []byte
// keys, which compare by contents. A text key is never equal to an opaque
// key, even one holding a string.
func (k Key) Equals(other Key) bool {
	if k.kind != other.kind {
		return false
	}

	if k.kind == textKind {
		return k.folded == other.folded
	}

	// []byte is a supported key type but not Go-comparable.
	if a, isBytes := k.opaque.([]byte); isBytes {
		b, alsoBytes := other.opaque.([]byte)

		return alsoBytes && bytes.Equal(a, b)
	}

	if !comparableValue(k.opaque) || !comparableValue(other.opaque) {
		return false
	}

	return k.opaque == other.opaque
}

// checkStorable validates that an opaque key can later be compared for
// equality: non-comparable types other than []byte are rejected up front,
// so a key the store accepts can never fail a later lookup.
func (k Key) checkStorable() error {
	if k.kind == textKind {
		return nil
	}

	if _, isBytes := k.opaque.([]byte); isBytes {
		return nil
	}

	if !comparableValue(k.opaque) {
		return fmt.Errorf("%w: %T", hashing.ErrUnsupportedKeyType, k.opaque)
	}

	return nil
}

// comparableValue reports whether == is safe on the value's dynamic type.
func comparableValue(v any) bool {
	if v == nil {
		return true
	}

	return reflect.TypeOf(v).Comparable()
}

// EqualsString reports whether this key matches a raw textual key under
// case-insensitive comparison. Symmetric with TextKey(s).Equals(k).
func (k Key) EqualsString(s string) bool {
	return k.kind == textKind && k.folded == hashing.Fold(s)
}

// Compare is the three-way ordering used by sorted backing stores.
// Text keys order lexicographically on their folded forms, so "a" and "A"
// occupy the same position. Text keys sort before all other key kinds; this
// is a deliberate tie-break, not an oversight. Opaque keys order among
// themselves by a type-then-value rendering, which is deterministic but
// otherwise arbitrary.
func (k Key) Compare(other Key) int {
	switch {
	case k.kind == textKind && other.kind == textKind:
		return strings.Compare(k.folded, other.folded)
	case k.kind == textKind:
		return -1
	case other.kind == textKind:
		return 1
	default:
		return strings.Compare(k.opaqueOrder(), other.opaqueOrder())
	}
}

// opaqueOrder renders an opaque key as a sortable string. The NUL separator
// keeps type names from bleeding into values.
func (k Key) opaqueOrder() string {
	return fmt.Sprintf("%T\x00%v", k.opaque, k.opaque)
}
