package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("Absent key", func(t *testing.T) {
		doc := NewDocument[sample](NewMemoryStore(), "doc", nil)

		got, ok, err := doc.Get(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, sample{}, got)
	})

	t.Run("Set then Get", func(t *testing.T) {
		doc := NewDocument[[]sample](NewMemoryStore(), "doc", nil)

		require.NoError(t, doc.Set(ctx, []sample{{Name: "a", Count: 2}}))

		got, ok, err := doc.Get(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []sample{{Name: "a", Count: 2}}, got)
	})

	t.Run("Corrupted value reads as absent", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Set(ctx, "doc", []byte(`{"name": "a", `)))
		doc := NewDocument[sample](store, "doc", nil)

		got, ok, err := doc.Get(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, sample{}, got)
	})

	t.Run("Remove", func(t *testing.T) {
		store := NewMemoryStore()
		doc := NewDocument[sample](store, "doc", nil)
		require.NoError(t, doc.Set(ctx, sample{Name: "x"}))

		require.NoError(t, doc.Remove(ctx))

		_, err := store.Get(ctx, "doc")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Equal(t, "doc", doc.Key())
	})
}
