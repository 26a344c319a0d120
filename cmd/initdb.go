package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newInitDBCmd creates the 'initdb' subcommand.
func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Create the database schema",
		Long: `Applies the occupations, metros, salary_data, and data_metadata DDL,
including indexes and updated_at triggers. Every statement is idempotent,
so re-running against an existing database is safe.`,
		RunE: runInitDBCommand,
	}
}

func runInitDBCommand(cmd *cobra.Command, _ []string) error {
	a, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}

	st, err := openStore(cmd.Context(), a)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Init(cmd.Context()); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	a.logger.Info("database schema ready")
	return nil
}
