package cmd

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/salaryscout/salaryscout/internal/clock/system"
	sha256hash "github.com/salaryscout/salaryscout/internal/hash/sha256"
	uuidgen "github.com/salaryscout/salaryscout/internal/id/uuid"
	"github.com/salaryscout/salaryscout/internal/ingest"
	"github.com/salaryscout/salaryscout/internal/progress"
	"github.com/salaryscout/salaryscout/internal/progress/sinks"
)

// newIngestCmd creates the 'ingest' subcommand.
func newIngestCmd() *cobra.Command {
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load an OEWS spreadsheet into the database",
		Long: `Reads the configured source spreadsheet, normalizes and scores every
detailed-occupation row, and upserts the result inside one transaction.
A dry run processes the first rows and reports what would be written
without opening a database connection.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIngestCommand(cmd, file, dryRun)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "source spreadsheet (.xlsx or .csv); overrides ingest.file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and score without writing to the database")
	return cmd
}

func runIngestCommand(cmd *cobra.Command, file string, dryRun bool) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	if file == "" {
		file = a.cfg.Ingest.File
	}
	if file == "" {
		return errors.New("no source file: set --file or ingest.file")
	}

	promSink, err := sinks.NewPrometheusSink(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register progress metrics: %w", err)
	}
	emitter := progress.NewBroadcaster(sinks.NewLogSink(a.logger), promSink)
	defer emitter.Close(cmd.Context()) //nolint:errcheck

	var snapshotter ingest.Snapshotter
	if !dryRun {
		st, err := openStore(cmd.Context(), a)
		if err != nil {
			return err
		}
		defer st.Close()
		snapshotter = st
	}

	pipeline := ingest.New(snapshotter, sha256hash.New(), uuidgen.NewGenerator(), emitter, system.New(), a.logger)
	summary, err := pipeline.Run(cmd.Context(), ingest.Config{
		File:        file,
		BatchSize:   a.cfg.Ingest.BatchSize,
		DryRun:      dryRun,
		DryRunLimit: a.cfg.Ingest.DryRunLimit,
		DataPeriod:  a.cfg.Ingest.DataPeriod,
		DataYear:    a.cfg.Ingest.DataYear,
		SourceURL:   a.cfg.Ingest.SourceURL,
	})
	if err != nil {
		return fmt.Errorf("ingest %s: %w", file, err)
	}

	a.logger.Info("ingest finished",
		zap.String("run_id", summary.RunID),
		zap.Bool("dry_run", summary.DryRun),
		zap.Int("rows_admitted", summary.RowsAdmitted),
		zap.Int("facts_written", summary.FactsWritten),
		zap.Int("indexable", summary.Indexable),
	)
	return nil
}
