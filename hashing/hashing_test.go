package hashing_test

import (
	"hash"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyNudko/caseless/hashing"
)

func TestSha256(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    hashing.HashableString
		expected string
	}{
		{
			name:     "empty string",
			input:    hashing.HashableString(""),
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:     "simple string",
			input:    hashing.HashableString("hello"),
			expected: "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		},
		{
			name:     "string with spaces",
			input:    hashing.HashableString("hello world"),
			expected: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			digest, err := hashing.Sha256(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, digest)
		})
	}
}

func TestXX64(t *testing.T) {
	t.Parallel()

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()

		first, err := hashing.XX64(hashing.HashableString("payload"))
		require.NoError(t, err)

		second, err := hashing.XX64(hashing.HashableString("payload"))
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("distinct inputs produce distinct digests", func(t *testing.T) {
		t.Parallel()

		first, err := hashing.XX64(hashing.HashableString("one"))
		require.NoError(t, err)

		second, err := hashing.XX64(hashing.HashableString("two"))
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("digest is hex encoded", func(t *testing.T) {
		t.Parallel()

		digest, err := hashing.XX64(hashing.HashableString("payload"))
		require.NoError(t, err)
		assert.Len(t, digest, 16)
		assert.Regexp(t, "^[0-9a-f]+$", digest)
	})
}

func TestXXH3(t *testing.T) {
	t.Parallel()

	t.Run("deterministic and distinct from XX64", func(t *testing.T) {
		t.Parallel()

		first, err := hashing.XXH3(hashing.HashableString("payload"))
		require.NoError(t, err)

		second, err := hashing.XXH3(hashing.HashableString("payload"))
		require.NoError(t, err)
		assert.Equal(t, first, second)

		other, err := hashing.XX64(hashing.HashableString("payload"))
		require.NoError(t, err)
		assert.NotEqual(t, other, first)
	})
}

func TestFold(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
	}{
		{name: "ascii case", a: "Content-Type", b: "CONTENT-TYPE"},
		{name: "mixed case", a: "HeLLo", b: "hello"},
		{name: "turkish dotless already folded", a: "istanbul", b: "ISTANBUL"},
		{name: "sharp s folds to ss", a: "straße", b: "STRASSE"},
		{name: "greek sigma", a: "ΟΔΥΣΣΕΥΣ", b: "οδυσσευς"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, hashing.Fold(tt.a), hashing.Fold(tt.b))
		})
	}

	t.Run("distinct words stay distinct", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, hashing.Fold("alpha"), hashing.Fold("beta"))
	})
}

type taggedProbe struct {
	value any
}

func (p taggedProbe) UpdateHash(h hash.Hash) error {
	return hashing.UpdateHashValue(h, p.value)
}

func TestUpdateHashValue(t *testing.T) {
	t.Parallel()

	digestOf := func(t *testing.T, value any) string {
		t.Helper()

		digest, err := hashing.XX64(taggedProbe{value: value})
		require.NoError(t, err)

		return digest
	}

	t.Run("same scalar hashes equally", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, digestOf(t, 42), digestOf(t, 42))
		assert.Equal(t, digestOf(t, "x"), digestOf(t, "x"))
		assert.Equal(t, digestOf(t, true), digestOf(t, true))
	})

	t.Run("type tag separates equal bit patterns", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, digestOf(t, int64(1)), digestOf(t, uint64(1)))
		assert.NotEqual(t, digestOf(t, "1"), digestOf(t, 1))
	})

	t.Run("unsupported type reports sentinel", func(t *testing.T) {
		t.Parallel()

		_, err := hashing.XX64(taggedProbe{value: struct{ X int }{X: 1}})
		require.ErrorIs(t, err, hashing.ErrUnsupportedKeyType)
	})
}

func TestHashableString(t *testing.T) {
	t.Parallel()

	t.Run("equality is exact", func(t *testing.T) {
		t.Parallel()

		assert.True(t, hashing.HashableString("a").Equals("a"))
		assert.False(t, hashing.HashableString("a").Equals("A"))
	})

	t.Run("stringer returns the raw text", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "abc", hashing.HashableString("abc").String())
	})
}
