// Package kv opens the core.Store selected by the configuration.
package kv

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/learnerair/core"
	boltkv "github.com/trezcool/learnerair/storage/kv/bolt"
	"github.com/trezcool/learnerair/storage/kv/inmem"
	postgreskv "github.com/trezcool/learnerair/storage/kv/postgres"
)

// Lister is implemented by the stores able to enumerate their documents.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

var (
	_ Lister = (*inmem.Store)(nil)
	_ Lister = (*boltkv.Store)(nil)
	_ Lister = (*postgreskv.Store)(nil)
)

// Keys returns the keys of the documents held by store, sorted.
func Keys(ctx context.Context, store core.Store) ([]string, error) {
	lister, ok := store.(Lister)
	if !ok {
		return nil, errors.Errorf("%T cannot list its documents", store)
	}
	return lister.Keys(ctx)
}

// Open returns the store of the configured engine. A postgres store is migrated up first.
func Open(ctx context.Context, conf *core.Config) (core.Store, error) {
	switch conf.Storage.Engine {
	case core.StorageMemory:
		return inmem.NewStore(), nil
	case core.StorageBolt:
		return boltkv.Open(conf.Storage.Path, conf.Storage.Timeout)
	case core.StoragePostgres:
		db, err := postgreskv.Open(conf.Storage.DSN)
		if err != nil {
			return nil, err
		}
		if err := postgreskv.Migrate(ctx, db.DB, "up"); err != nil {
			_ = db.Close()
			return nil, err
		}
		return postgreskv.NewStore(db), nil
	default:
		return nil, errors.Errorf("unknown storage engine %q", conf.Storage.Engine)
	}
}
