package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"backoffice.GO/config"
)

var migrateCmd = &cobra.Command{
	Use:   "db:migrate",
	Short: "Create or update tables and seed the chart of accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := openEnv()
		if err != nil {
			return err
		}
		defer log.Sync()
		if err := config.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		if err := config.SeedAccounts(cmd.Context(), db); err != nil {
			return fmt.Errorf("seed accounts: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database migrated.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
