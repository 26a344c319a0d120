// Package cmd defines and implements the CLI commands for the salaryscout
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/salaryscout/salaryscout/internal/config"
	"github.com/salaryscout/salaryscout/internal/logging"
	"github.com/salaryscout/salaryscout/internal/store"
)

var cfgFile string

// appKeyType is the key for storing the app in the context.
type appKeyType string

const appKey appKeyType = "app"

// app bundles the services every subcommand needs: validated config and
// the process logger. Database handles are opened per command so that
// commands which never touch the database do not pay for a pool.
type app struct {
	cfg    config.Config
	logger *zap.Logger
}

func (a *app) close() {
	_ = a.logger.Sync() //nolint:errcheck // stderr sync failures are benign
}

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "salaryscout",
		Short: "OEWS salary data ingestion and publishing service",
		Long: `salaryscout loads BLS Occupational Employment and Wage Statistics
spreadsheets into Postgres, scores each row for data quality, and serves
the search API plus paginated sitemaps over the resulting tables.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env is a developer convenience; absence is not an error.
			_ = godotenv.Load() //nolint:errcheck

			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, &app{cfg: cfg, logger: logger})
			cmd.SetContext(ctx)
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a, ok := cmd.Context().Value(appKey).(*app); ok && a != nil {
				a.close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (env vars with prefix SALARYSCOUT are always read)")

	cmd.AddCommand(newInitDBCmd())
	cmd.AddCommand(newIngestCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// Execute is the main entry point. Exit code 1 is reserved for "new data
// release available" from the check command; every other failure exits 2.
func Execute() {
	err := newRootCmd().Execute()
	switch {
	case err == nil:
	case errors.Is(err, errUpdateAvailable):
		os.Exit(1)
	default:
		os.Exit(2)
	}
}

func resolveApp(ctx context.Context) (*app, error) {
	a, ok := ctx.Value(appKey).(*app)
	if !ok || a == nil {
		return nil, errors.New("application services not initialized")
	}
	return a, nil
}

// openStore connects the Postgres pool using the app config. Callers own
// the returned store and must Close it.
func openStore(ctx context.Context, a *app) (*store.Store, error) {
	connCtx, cancel := context.WithTimeout(ctx, a.cfg.ConnTimeout())
	defer cancel()

	st, err := store.New(connCtx, store.Config{
		DSN:             a.cfg.DB.DSN,
		MaxConns:        a.cfg.DB.MaxConns,
		MinConns:        a.cfg.DB.MinConns,
		MaxConnLifetime: time.Duration(a.cfg.DB.MaxConnLifetimeMin) * time.Minute,
		RetryAttempts:   a.cfg.BLS.RetryAttempts,
		RetryBackoff:    a.cfg.RetryBackoff(),
	}, a.logger)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return st, nil
}
