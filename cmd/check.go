package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/salaryscout/salaryscout/internal/blscheck"
)

// errUpdateAvailable signals exit code 1: a newer OEWS release exists.
var errUpdateAvailable = errors.New("new data release available")

// newCheckCmd creates the 'check' subcommand.
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check BLS for a newer OEWS release",
		Long: `Fetches the BLS OEWS tables page and compares the newest published
May release against the data period recorded in data_metadata.

Exit codes:
  0 - data is current
  1 - a newer release is available
  2 - the check itself failed`,
		RunE: runCheckCommand,
	}
}

func runCheckCommand(cmd *cobra.Command, _ []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	st, err := openStore(cmd.Context(), a)
	if err != nil {
		return err
	}
	defer st.Close()

	checker := blscheck.New(blscheck.Config{
		TablesURL: a.cfg.BLS.TablesURL,
		UserAgent: a.cfg.BLS.UserAgent,
	}, st, a.logger)

	result, err := checker.Check(cmd.Context())
	if err != nil {
		return fmt.Errorf("freshness check: %w", err)
	}

	if result.HasUpdate {
		a.logger.Info("newer release available",
			zap.String("current_period", result.CurrentPeriod),
			zap.String("latest_period", result.LatestPeriod),
			zap.String("download_url", result.DownloadURL),
		)
		return errUpdateAvailable
	}

	a.logger.Info("data is current", zap.String("data_period", result.CurrentPeriod))
	return nil
}
