package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/adanyl0v/todo-app/internal/app"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the command line and returns the process exit code.
// Startup helpers panic after logging the cause; that is reported
// as exit code 1.
func run(args []string) (code int) {
	logger := app.NewDefaultLogger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().
				Interface("cause", r).
				Msg("exiting after fatal error")
			code = 1
		}
	}()

	rootCmd := newRootCommand(logger)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		return 1
	}
	return 0
}

func newRootCommand(logger zerolog.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "todo-app",
		Short:        "HTTP service for todo items",
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			serve(cmd.Context(), logger)
		},
	}
	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Create missing tables and serve HTTP",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				serve(cmd.Context(), logger)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create missing tables and exit",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				migrate(cmd.Context(), logger)
			},
		},
	)
	return rootCmd
}

func serve(ctx context.Context, logger zerolog.Logger) {
	cfg := app.MustReadEnv(logger)
	logger = app.MustInitApplicationLogger(logger, cfg)

	db := app.MustConnectPostgres(ctx, logger, cfg)
	defer app.DisconnectPostgres(logger, db)

	app.MustCreateTables(logger, db)
	app.MustListenAndServeHTTP(logger, cfg, db)
}

func migrate(ctx context.Context, logger zerolog.Logger) {
	cfg := app.MustReadEnv(logger)
	logger = app.MustInitApplicationLogger(logger, cfg)

	db := app.MustConnectPostgres(ctx, logger, cfg)
	defer app.DisconnectPostgres(logger, db)

	app.MustCreateTables(logger, db)
}
