package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/activity"
	"github.com/trezcool/learnerair/core/user"
	"github.com/trezcool/learnerair/storage/documents"
	"github.com/trezcool/learnerair/storage/kv"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf       *core.Config
	store      core.Store
	db         *documents.DB
	usrSvc     *user.Service
	ledger     *activity.Ledger
	translator ut.Translator
}

// open sets up the storage & the services, unless it is already done.
func (cli *commandLine) open(ctx context.Context) error {
	if cli.db != nil {
		return nil
	}

	store, err := kv.Open(ctx, cli.conf)
	if err != nil {
		return errors.Wrapf(err, "opening %s store", cli.conf.Storage.Engine)
	}
	cipher, err := user.NewCipher(cli.conf.CredentialsKey)
	if err != nil {
		_ = store.Close()
		return err
	}
	db := documents.NewDB(store, cipher)
	if err := db.Seed(ctx); err != nil {
		_ = store.Close()
		return err
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	activity.InitValidators(validate, translator)

	cli.store = store
	cli.db = db
	cli.translator = translator
	cli.usrSvc = user.NewService(documents.NewUserRepository(db), cipher, validate)
	cli.ledger = activity.NewLedger(documents.NewActivityRepository(db), cli.usrSvc, validate)
	return nil
}

func (cli *commandLine) close() error {
	if cli.store == nil {
		return nil
	}
	return cli.store.Close()
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Learnerair administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Usage()
			return errHelp
		},
	}
	withStore := func(cmd *cobra.Command) *cobra.Command {
		cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
			return cli.open(cmd.Context())
		}
		return cmd
	}

	root.AddCommand(
		withStore(cli.addUserCmd()),
		withStore(cli.resetPasswordCmd()),
		withStore(cli.credentialsCmd()),
		withStore(cli.statsCmd()),
		cli.migrateCmd(),
	)
	return root
}

func (cli *commandLine) run(args []string, out io.Writer) error {
	root := cli.rootCmd()
	root.SetArgs(args[1:])
	root.SetOut(out)
	root.SetErr(out)
	return root.ExecuteContext(context.Background())
}

// explain renders validation errors field by field.
func (cli *commandLine) explain(err error) string {
	switch e := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		msgs := make([]string, 0, len(e))
		for _, fErr := range e {
			msg := fErr.Error()
			if cli.translator != nil {
				msg = fErr.Translate(cli.translator)
			}
			msgs = append(msgs, fmt.Sprintf("%s: %s", fErr.Field(), msg))
		}
		sort.Strings(msgs)
		return strings.Join(msgs, "\n")
	case *core.ValidationError:
		if len(e.Fields) == 0 {
			return e.Error()
		}
		msgs := make([]string, 0, len(e.Fields))
		for _, fErr := range e.Fields {
			msgs = append(msgs, fmt.Sprintf("%s: %s", fErr.Field, fErr.Error))
		}
		return strings.Join(msgs, "\n")
	default:
		return err.Error()
	}
}

// promptPassword reads a password from the terminal, without echoing it.
func promptPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Enter password:")
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		_ = cmd.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}
