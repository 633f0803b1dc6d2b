package main

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/storage/kv/postgres"
)

var (
	migrateFunc = postgreskv.Migrate // mockable

	// mockable
	openMigrationsDBFunc = func(dsn string) (*sql.DB, error) {
		db, err := postgreskv.Open(dsn)
		if err != nil {
			return nil, err
		}
		return db.DB, nil
	}

	errNotMigratable = errors.New("migrations only apply to the postgres storage engine")
)

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "Run a goose command (up, down, status, version, ...) against the postgres store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Usage()
				return errHelp
			}
			return cli.migrate(cmd.Context(), args)
		},
	}
}

func (cli *commandLine) migrate(ctx context.Context, args []string) error {
	if cli.conf.Storage.Engine != core.StoragePostgres {
		return errNotMigratable
	}
	db, err := openMigrationsDBFunc(cli.conf.Storage.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	return migrateFunc(ctx, db, args[0], args[1:]...)
}
