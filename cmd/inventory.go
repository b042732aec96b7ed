package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"backoffice.GO/service/inventory"
)

var (
	csvFile   string
	csvOutlet string
	csvActor  string
)

var exportCmd = &cobra.Command{
	Use:   "inventory:export",
	Short: "Export the ingredients of an outlet as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := openEnv()
		if err != nil {
			return err
		}
		defer log.Sync()

		var w io.Writer = cmd.OutOrStdout()
		if csvFile != "" && csvFile != "-" {
			f, err := os.Create(csvFile)
			if err != nil {
				return fmt.Errorf("create %s: %w", csvFile, err)
			}
			defer f.Close()
			w = f
		}
		svc := inventory.NewService(db, inventory.WithLogger(log.Named("inventory")))
		return svc.ExportCSV(scoped(csvOutlet, csvActor), w)
	},
}

var importCmd = &cobra.Command{
	Use:   "inventory:import",
	Short: "Upsert ingredients of an outlet from CSV by SKU",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(csvFile)
		if err != nil {
			return fmt.Errorf("open CSV: %w", err)
		}
		defer f.Close()

		db, log, err := openEnv()
		if err != nil {
			return err
		}
		defer log.Sync()

		svc := inventory.NewService(db, inventory.WithLogger(log.Named("inventory")))
		res, err := svc.ImportCSV(scoped(csvOutlet, csvActor), f)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		out := cmd.OutOrStdout()
		for _, re := range res.RowErrors {
			fmt.Fprintf(out, "line %d: %s\n", re.Line, re.Err)
		}
		fmt.Fprintf(out, "Rows: %d, created: %d, updated: %d, skipped: %d in %s\n",
			res.TotalRows, res.Created, res.Updated, res.Skipped, res.TotalTime)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{exportCmd, importCmd} {
		c.Flags().StringVar(&csvOutlet, "outlet", "", "Outlet id (default: central warehouse)")
		c.Flags().StringVar(&csvActor, "actor", "cli", "Actor recorded on adjustments")
	}
	exportCmd.Flags().StringVarP(&csvFile, "file", "f", "-", "Output file ('-' for stdout)")
	importCmd.Flags().StringVarP(&csvFile, "file", "f", "", "CSV file to import")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(exportCmd, importCmd)
}
