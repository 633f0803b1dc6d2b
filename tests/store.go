package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/learnerair/core"
)

// CheckStore runs the behaviour every core.Store must share against store.
func CheckStore(t *testing.T, store core.Store) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		_, err := store.Get(ctx, "missing")
		assert.ErrorIs(t, err, core.ErrKeyNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "doc", []byte(`{"a": 1}`)))
		data, err := store.Get(ctx, "doc")
		require.NoError(t, err)
		assert.JSONEq(t, `{"a": 1}`, string(data))
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, "doc", []byte(`[1, 2]`)))
		data, err := store.Get(ctx, "doc")
		require.NoError(t, err)
		assert.JSONEq(t, `[1, 2]`, string(data))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "doc"))
		_, err := store.Get(ctx, "doc")
		assert.ErrorIs(t, err, core.ErrKeyNotFound)
		assert.NoError(t, store.Delete(ctx, "doc"), "deleting a missing key")
	})

	t.Run("read or seed", func(t *testing.T) {
		seed := []string{"x", "y"}
		got, err := core.ReadOrSeed(ctx, store, "seeded", seed)
		require.NoError(t, err)
		assert.Equal(t, seed, got)

		got, err = core.ReadOrSeed(ctx, store, "seeded", []string{"ignored"})
		require.NoError(t, err)
		assert.Equal(t, seed, got, "an existing document is never re-seeded")
	})
}
