package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice.GO/config"
	"backoffice.GO/core/scope"
)

var rootCmd = &cobra.Command{
	Use:   "backoffice",
	Short: "Inventory and ledger back office",
}

// Execute applies registered commands and runs the CLI.
func Execute() {
	Apply()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openEnv connects the database and builds the process logger.
func openEnv() (*gorm.DB, *zap.Logger, error) {
	db, err := config.NewDB()
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	return db, config.MustLogger(), nil
}

// scoped returns a context acting in outlet as actor. An empty outlet
// falls back to the central warehouse.
func scoped(outlet, actor string) context.Context {
	if outlet == "" {
		outlet = config.App().CentralOutletID
	}
	return scope.With(context.Background(), scope.Scope{OutletID: outlet, Actor: actor})
}
