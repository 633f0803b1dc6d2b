package inmem_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/learnerair/storage/kv/inmem"
	"github.com/trezcool/learnerair/tests"
)

func TestStore(t *testing.T) {
	testutil.CheckStore(t, inmem.NewStore())
}

func TestStore_copies(t *testing.T) {
	ctx := context.Background()
	s := inmem.NewStore()

	value := []byte(`"abc"`)
	require.NoError(t, s.Set(ctx, "k", value))
	value[1] = 'z'

	data, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"abc"`, string(data))

	data[1] = 'z'
	data, _ = s.Get(ctx, "k")
	assert.Equal(t, `"abc"`, string(data))
}

func TestStore_Keys(t *testing.T) {
	ctx := context.Background()
	s := inmem.NewStore()
	require.NoError(t, s.Set(ctx, "users", []byte(`[]`)))
	require.NoError(t, s.Set(ctx, "announcements", []byte(`[]`)))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"announcements", "users"}, keys)
}
