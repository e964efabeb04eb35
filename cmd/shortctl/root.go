package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/shortlink/internal/app/bootstrap"
	"github.com/atinyakov/shortlink/internal/app/service"
	"github.com/atinyakov/shortlink/internal/config"
	"github.com/atinyakov/shortlink/internal/logger"
	"github.com/atinyakov/shortlink/internal/worker"
)

// env holds what every subcommand needs once the root has parsed the
// configuration.
type env struct {
	opts   *config.Options
	logger *zap.Logger

	configPath string
	dsn        string
	sqliteDSN  string
	redisAddr  string
	filePath   string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	e := &env{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:           "shortctl",
		Short:         "Create and inspect short links",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.load()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&e.configPath, "config", "c", "", "path to json config file")
	flags.StringVar(&e.dsn, "database-dsn", "", "postgres dsn")
	flags.StringVar(&e.sqliteDSN, "sqlite-dsn", "", "sqlite file or libsql:// url")
	flags.StringVar(&e.redisAddr, "redis-addr", "", "redis address")
	flags.StringVar(&e.filePath, "file", "", "path to storage file")
	flags.BoolVarP(&e.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newMigrateCmd(e),
		newCreateCmd(e),
		newResolveCmd(e),
		newStatsCmd(e),
	)

	return root
}

// load passes the persistent flags to the server's configuration parser as
// its short flags, so .env, the config file and the environment apply here
// exactly as they do for the server.
func (e *env) load() error {
	var args []string
	for flag, v := range map[string]string{
		"-c": e.configPath,
		"-d": e.dsn,
		"-l": e.sqliteDSN,
		"-r": e.redisAddr,
		"-f": e.filePath,
	} {
		if v != "" {
			args = append(args, flag, v)
		}
	}

	opts, err := config.Parse(args)
	if err != nil {
		return err
	}
	e.opts = opts

	if e.verbose {
		l := logger.New()
		if err := l.Init(opts.LogLevel); err != nil {
			return err
		}
		e.logger = l.Log
	}

	return nil
}

func (e *env) open(ctx context.Context) (bootstrap.Store, error) {
	return bootstrap.OpenStorage(ctx, e.opts, e.logger)
}

func (e *env) timeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, e.opts.StoreTimeout.Duration)
}

// resolver counts clicks synchronously: the process exits right after.
func (e *env) resolver(store bootstrap.Store) *service.URLResolver {
	return service.NewURLResolver(store, worker.NewDirect(e.logger, store, e.opts.StoreTimeout.Duration), e.logger)
}

func userError(err error) error {
	return fmt.Errorf("%s: %s", service.ErrorCode(err), service.ErrorDetail(err))
}
