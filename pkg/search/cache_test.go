package search

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, dims int) *Cache {
	t.Helper()
	c, err := OpenCache(filepath.Join(t.TempDir(), "embeddings.db"), dims, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestOpenCache(t *testing.T) {
	t.Run("empty path rejected", func(t *testing.T) {
		_, err := OpenCache("", 3, zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("nonpositive dims rejected", func(t *testing.T) {
		_, err := OpenCache(filepath.Join(t.TempDir(), "c.db"), 0, zerolog.Nop())
		assert.Error(t, err)
	})
}

func TestCacheGetPut(t *testing.T) {
	c := newTestCache(t, 3)

	t.Run("miss before put", func(t *testing.T) {
		_, ok := c.Get("never stored")
		assert.False(t, ok)
	})

	t.Run("round trip", func(t *testing.T) {
		in := []float32{0.1, 0.2, 0.3}
		require.NoError(t, c.Put("some text", in))

		out, ok := c.Get("some text")
		require.True(t, ok)
		assert.Equal(t, in, out)
	})

	t.Run("put replaces", func(t *testing.T) {
		require.NoError(t, c.Put("text", []float32{1, 1, 1}))
		require.NoError(t, c.Put("text", []float32{2, 2, 2}))

		out, ok := c.Get("text")
		require.True(t, ok)
		assert.Equal(t, []float32{2, 2, 2}, out)
	})

	t.Run("distinct texts do not collide", func(t *testing.T) {
		require.NoError(t, c.Put("alpha", []float32{1, 0, 0}))
		require.NoError(t, c.Put("beta", []float32{0, 1, 0}))

		a, ok := c.Get("alpha")
		require.True(t, ok)
		assert.Equal(t, []float32{1, 0, 0}, a)
	})
}

func TestCacheRelated(t *testing.T) {
	c := newTestCache(t, 3)

	require.NoError(t, c.StoreMemoryVector("travel", []float32{1, 0, 0}))
	require.NoError(t, c.StoreMemoryVector("flights", []float32{0.9, 0.1, 0}))
	require.NoError(t, c.StoreMemoryVector("groceries", []float32{0, 1, 0}))

	t.Run("nearest neighbors first", func(t *testing.T) {
		results, err := c.Related("travel", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "flights", results[0].MemoryID)
		assert.Equal(t, "groceries", results[1].MemoryID)
		assert.Greater(t, results[0].Similarity, results[1].Similarity)
	})

	t.Run("self excluded", func(t *testing.T) {
		results, err := c.Related("travel", 10)
		require.NoError(t, err)
		for _, r := range results {
			assert.NotEqual(t, "travel", r.MemoryID)
		}
	})

	t.Run("unknown memory errors", func(t *testing.T) {
		_, err := c.Related("missing", 5)
		assert.Error(t, err)
	})

	t.Run("store replaces existing vector", func(t *testing.T) {
		require.NoError(t, c.StoreMemoryVector("groceries", []float32{0.95, 0, 0}))

		results, err := c.Related("travel", 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "groceries", results[0].MemoryID)
	})

	t.Run("dimension mismatch rejected", func(t *testing.T) {
		err := c.StoreMemoryVector("bad", []float32{1, 2})
		assert.Error(t, err)
	})
}
