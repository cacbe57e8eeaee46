package maps_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreyNudko/caseless/hashing"
	"github.com/AndreyNudko/caseless/maps"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("creates an empty insertion-ordered map", func(t *testing.T) {
		t.Parallel()

		m := maps.New[string]()
		assert.True(t, m.IsEmpty())
		assert.Equal(t, 0, m.Size())
		assert.Equal(t, maps.InsertionOrdered, m.Kind())
	})

	t.Run("kind is honored", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, maps.Sorted, maps.NewWithKind[int](maps.Sorted).Kind())
		assert.Equal(t, maps.Unordered, maps.NewWithKind[int](maps.Unordered).Kind())
	})
}

func TestPutAndGet(t *testing.T) {
	t.Parallel()

	t.Run("retrieves through any casing", func(t *testing.T) {
		t.Parallel()

		m := maps.New[string]()
		_, _, err := m.Put("Content-Type", "application/json")
		require.NoError(t, err)

		for _, spelling := range []string{"Content-Type", "content-type", "CONTENT-TYPE", "CoNtEnT-tYpE"} {
			value, found, err := m.Get(spelling)
			require.NoError(t, err)
			assert.True(t, found, spelling)
			assert.Equal(t, "application/json", value)
		}
	})

	t.Run("missing key is found=false without error", func(t *testing.T) {
		t.Parallel()

		m := maps.New[string]()

		value, found, err := m.Get("absent")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, value)
	})

	t.Run("overwrite reports previous value", func(t *testing.T) {
		t.Parallel()

		m := maps.New[int]()

		_, replaced, err := m.Put("key", 1)
		require.NoError(t, err)
		assert.False(t, replaced)

		prev, replaced, err := m.Put("KEY", 2)
		require.NoError(t, err)
		assert.True(t, replaced)
		assert.Equal(t, 1, prev)
	})

	t.Run("most recent casing wins", func(t *testing.T) {
		t.Parallel()

		m := maps.New[int]()

		_, _, err := m.Put("Foo", 1)
		require.NoError(t, err)

		_, _, err = m.Put("FOO", 2)
		require.NoError(t, err)

		assert.Equal(t, 1, m.Size())

		value, found, err := m.Get("foo")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 2, value)

		assert.Equal(t, []string{"FOO"}, m.Keys().Strings())
	})

	t.Run("unicode spellings collapse", func(t *testing.T) {
		t.Parallel()

		m := maps.New[int]()

		_, _, err := m.Put("straße", 1)
		require.NoError(t, err)

		value, found, err := m.Get("STRASSE")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 1, value)
	})

	t.Run("byte slice keys round trip by contents", func(t *testing.T) {
		t.Parallel()

		m := maps.New[int]()

		_, _, err := m.Put([]byte("raw"), 1)
		require.NoError(t, err)

		value, found, err := m.Get([]byte("raw"))
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, 1, value)

		_, found, err = m.Get([]byte("other"))
		require.NoError(t, err)
		assert.False(t, found)

		_, removed, err := m.Remove([]byte("raw"))
		require.NoError(t, err)
		assert.True(t, removed)
		assert.True(t, m.IsEmpty())
	})

	t.Run("non-comparable keys are rejected, not stored", func(t *testing.T) {
		t.Parallel()

		m := maps.New[int]()

		_, _, err := m.Put([]int{1, 2}, 1)
		require.ErrorIs(t, err, hashing.ErrUnsupportedKeyType)
		assert.True(t, m.IsEmpty())
	})

	t.Run("non-string keys are exact-match", func(t *testing.T) {
		t.Parallel()

		m := maps.New[string]()

		_, _, err := m.Put(42, "answer")
		require.NoError(t, err)

		value, found, err := m.Get(42)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "answer", value)

		_, found, err = m.Get(43)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestGetOrElse(t *testing.T) {
	t.Parallel()

	m := maps.New[string]()
	_, _, err := m.Put("Accept", "text/html")
	require.NoError(t, err)

	value, err := m.GetOrElse("ACCEPT", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "text/html", value)

	value, err = m.GetOrElse("absent", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", value)
}

func TestContainsKey(t *testing.T) {
	t.Parallel()

	m := maps.New[int]()
	_, _, err := m.Put("Alpha", 1)
	require.NoError(t, err)

	found, err := m.ContainsKey("ALPHA")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = m.ContainsKey("beta")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	t.Run("removes through any casing", func(t *testing.T) {
		t.Parallel()

		m := maps.New[int]()
		_, _, err := m.Put("Alpha", 1)
		require.NoError(t, err)

		value, removed, err := m.Remove("ALPHA")
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Equal(t, 1, value)
		assert.True(t, m.IsEmpty())
	})

	t.Run("absent key is a no-op", func(t *testing.T) {
		t.Parallel()

		m := maps.New[int]()

		_, removed, err := m.Remove("ghost")
		require.NoError(t, err)
		assert.False(t, removed)
	})
}

func TestPutAll(t *testing.T) {
	t.Parallel()

	t.Run("copies entries with their stored casing", func(t *testing.T) {
		t.Parallel()

		source := maps.New[int]()
		_, _, err := source.Put("Content-Type", 1)
		require.NoError(t, err)
		_, _, err = source.Put("Accept", 2)
		require.NoError(t, err)

		dest := maps.New[int]()
		require.NoError(t, dest.PutAll(source))

		assert.Equal(t, 2, dest.Size())
		assert.Equal(t, []string{"Content-Type", "Accept"}, dest.Keys().Strings())
	})

	t.Run("nil source is a no-op", func(t *testing.T) {
		t.Parallel()

		m := maps.New[int]()
		require.NoError(t, m.PutAll(nil))
		assert.True(t, m.IsEmpty())
	})
}

func TestPutAllGoMap(t *testing.T) {
	t.Parallel()

	m := maps.New[int]()
	require.NoError(t, m.PutAllGoMap(map[string]int{"One": 1, "Two": 2}))

	assert.Equal(t, 2, m.Size())

	value, found, err := m.Get("ONE")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, value)
}

func TestPutEntries(t *testing.T) {
	t.Parallel()

	m := maps.New[int]()
	err := m.PutEntries(
		maps.NewEntry("Alpha", 1),
		maps.NewEntry("Beta", 2),
	)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Size())

	value, found, err := m.Get("alpha")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, value)
}

func TestFrom(t *testing.T) {
	t.Parallel()

	source := maps.New[int]()
	_, _, err := source.Put("Banana", 2)
	require.NoError(t, err)
	_, _, err = source.Put("Apple", 1)
	require.NoError(t, err)

	t.Run("copies into the requested kind", func(t *testing.T) {
		t.Parallel()

		sorted, err := maps.From(source, maps.Sorted)
		require.NoError(t, err)
		assert.Equal(t, maps.Sorted, sorted.Kind())
		assert.Equal(t, []string{"Apple", "Banana"}, sorted.Keys().Strings())
	})

	t.Run("nil source gives an empty map", func(t *testing.T) {
		t.Parallel()

		m, err := maps.From[int](nil, maps.Unordered)
		require.NoError(t, err)
		assert.True(t, m.IsEmpty())
	})
}

func TestFromGoMap(t *testing.T) {
	t.Parallel()

	m, err := maps.FromGoMap(map[string]string{"Host": "example.com"})
	require.NoError(t, err)

	value, found, err := m.Get("HOST")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "example.com", value)
}

func TestContainsValue(t *testing.T) {
	t.Parallel()

	m := maps.New[[]int]()
	_, _, err := m.Put("key", []int{1, 2})
	require.NoError(t, err)

	assert.True(t, m.ContainsValue([]int{1, 2}))
	assert.False(t, m.ContainsValue([]int{3}))
}

func TestValuesAndSeq(t *testing.T) {
	t.Parallel()

	m := maps.New[int]()
	_, _, err := m.Put("One", 1)
	require.NoError(t, err)
	_, _, err = m.Put("Two", 2)
	require.NoError(t, err)
	_, _, err = m.Put("Three", 3)
	require.NoError(t, err)

	t.Run("values follow insertion order", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []int{1, 2, 3}, m.Values())
	})

	t.Run("seq yields display keys in order", func(t *testing.T) {
		t.Parallel()

		var keys []any
		for key := range m.Seq() {
			keys = append(keys, key)
		}

		assert.Equal(t, []any{"One", "Two", "Three"}, keys)
	})

	t.Run("overwrite keeps the original slot", func(t *testing.T) {
		t.Parallel()

		ordered := maps.New[int]()
		for _, key := range []string{"a", "b", "c"} {
			_, _, err := ordered.Put(key, 0)
			require.NoError(t, err)
		}

		_, _, err := ordered.Put("A", 10)
		require.NoError(t, err)

		assert.Equal(t, []string{"A", "b", "c"}, ordered.Keys().Strings())
	})
}

func TestClear(t *testing.T) {
	t.Parallel()

	m := maps.New[int]()
	_, _, err := m.Put("key", 1)
	require.NoError(t, err)

	m.Clear()

	assert.True(t, m.IsEmpty())

	found, err := m.ContainsKey("key")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestEquals(t *testing.T) {
	t.Parallel()

	t.Run("casing of keys does not matter", func(t *testing.T) {
		t.Parallel()

		a := maps.New[int]()
		_, _, err := a.Put("X", 1)
		require.NoError(t, err)

		b := maps.New[int]()
		_, _, err = b.Put("x", 1)
		require.NoError(t, err)

		assert.True(t, a.Equals(b))
		assert.True(t, b.Equals(a))
	})

	t.Run("kind does not matter", func(t *testing.T) {
		t.Parallel()

		a := maps.NewWithKind[int](maps.Sorted)
		_, _, err := a.Put("k", 1)
		require.NoError(t, err)

		b := maps.NewWithKind[int](maps.Unordered)
		_, _, err = b.Put("K", 1)
		require.NoError(t, err)

		assert.True(t, a.Equals(b))
	})

	t.Run("differing values are unequal", func(t *testing.T) {
		t.Parallel()

		a := maps.New[int]()
		_, _, err := a.Put("k", 1)
		require.NoError(t, err)

		b := maps.New[int]()
		_, _, err = b.Put("k", 2)
		require.NoError(t, err)

		assert.False(t, a.Equals(b))
		assert.False(t, a.Equals(nil))
	})

	t.Run("nil values equal only nil values", func(t *testing.T) {
		t.Parallel()

		a := maps.New[any]()
		_, _, err := a.Put("k", nil)
		require.NoError(t, err)

		b := maps.New[any]()
		_, _, err = b.Put("K", nil)
		require.NoError(t, err)

		c := maps.New[any]()
		_, _, err = c.Put("k", 0)
		require.NoError(t, err)

		assert.True(t, a.Equals(b))
		assert.False(t, a.Equals(c))
	})
}

func TestEqualsGoMap(t *testing.T) {
	t.Parallel()

	m := maps.New[int]()
	_, _, err := m.Put("Key", 1)
	require.NoError(t, err)

	assert.True(t, m.EqualsGoMap(map[string]int{"KEY": 1}))
	assert.False(t, m.EqualsGoMap(map[string]int{"KEY": 2}))
	assert.False(t, m.EqualsGoMap(map[string]int{"KEY": 1, "other": 2}))
}

func TestHash(t *testing.T) {
	t.Parallel()

	t.Run("equal maps hash equally across casing and kind", func(t *testing.T) {
		t.Parallel()

		a := maps.New[int]()
		_, _, err := a.Put("X", 1)
		require.NoError(t, err)

		b := maps.NewWithKind[int](maps.Sorted)
		_, _, err = b.Put("x", 1)
		require.NoError(t, err)

		hashA, err := a.Hash()
		require.NoError(t, err)

		hashB, err := b.Hash()
		require.NoError(t, err)

		assert.Equal(t, hashA, hashB)
	})

	t.Run("insertion order does not matter", func(t *testing.T) {
		t.Parallel()

		a := maps.New[int]()
		for _, key := range []string{"one", "two", "three"} {
			_, _, err := a.Put(key, len(key))
			require.NoError(t, err)
		}

		b := maps.New[int]()
		for _, key := range []string{"three", "one", "two"} {
			_, _, err := b.Put(key, len(key))
			require.NoError(t, err)
		}

		hashA, err := a.Hash()
		require.NoError(t, err)

		hashB, err := b.Hash()
		require.NoError(t, err)

		assert.Equal(t, hashA, hashB)
	})

	t.Run("different contents hash differently", func(t *testing.T) {
		t.Parallel()

		a := maps.New[int]()
		_, _, err := a.Put("k", 1)
		require.NoError(t, err)

		b := maps.New[int]()
		_, _, err = b.Put("k", 2)
		require.NoError(t, err)

		hashA, err := a.Hash()
		require.NoError(t, err)

		hashB, err := b.Hash()
		require.NoError(t, err)

		assert.NotEqual(t, hashA, hashB)
	})
}

func TestString(t *testing.T) {
	t.Parallel()

	m := maps.New[int]()
	_, _, err := m.Put("A", 1)
	require.NoError(t, err)
	_, _, err = m.Put("B", 2)
	require.NoError(t, err)

	assert.Equal(t, "map[A:1 B:2]", m.String())
	assert.Equal(t, "map[]", maps.New[int]().String())
}

func TestHashFunctionSelection(t *testing.T) {
	t.Parallel()

	m := maps.NewWithKindAndHash[int](maps.Unordered, hashing.Sha256)
	_, _, err := m.Put("Key", 1)
	require.NoError(t, err)

	value, found, err := m.Get("KEY")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, value)
}
