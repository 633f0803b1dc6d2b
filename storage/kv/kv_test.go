package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/storage/kv"
	"github.com/trezcool/learnerair/storage/kv/inmem"
)

var ctx = context.Background()

type opaqueStore struct{ core.Store }

func TestOpen(t *testing.T) {
	conf := *core.Conf
	conf.Storage.Engine = core.StorageMemory
	store, err := kv.Open(ctx, &conf)
	require.NoError(t, err)
	assert.IsType(t, &inmem.Store{}, store)

	conf.Storage.Engine = "redis"
	_, err = kv.Open(ctx, &conf)
	assert.EqualError(t, err, `unknown storage engine "redis"`)
}

func TestKeys(t *testing.T) {
	store := inmem.NewStore()
	require.NoError(t, store.Set(ctx, core.KeyUsers, []byte(`[]`)))
	require.NoError(t, store.Set(ctx, core.KeySessions, []byte(`{}`)))

	keys, err := kv.Keys(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{core.KeySessions, core.KeyUsers}, keys)

	_, err = kv.Keys(ctx, opaqueStore{store})
	assert.EqualError(t, err, "kv_test.opaqueStore cannot list its documents")
}
