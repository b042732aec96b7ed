package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"backoffice.GO/config"
	"backoffice.GO/core/scope"
	"backoffice.GO/service/restock"
)

var restockOutlets []string

var restockCmd = &cobra.Command{
	Use:   "restock:run",
	Short: "Draft purchase orders for every critical ingredient",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := openEnv()
		if err != nil {
			return err
		}
		defer log.Sync()

		cfg := config.App()
		outlets := restockOutlets
		if len(outlets) == 0 {
			outlets = cfg.RestockOutlets
		}
		p := restock.NewPlanner(db,
			restock.WithLogger(log.Named("restock")),
			restock.WithDefaultSupplier(cfg.DefaultSupplierID),
		)
		ctx := scope.With(context.Background(), scope.Scope{TargetOutletIDs: outlets, Actor: "cli"})
		res, err := p.Run(ctx)
		if err != nil {
			return err
		}
		for _, po := range res.Orders {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  outlet=%s supplier=%s items=%d total=%s\n",
				po.ID, po.OutletID, po.SupplierID, len(po.Items), po.TotalEstimated)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Drafted %d purchase orders\n", res.Created)
		return nil
	},
}

func init() {
	restockCmd.Flags().StringSliceVar(&restockOutlets, "outlet", nil, "Outlets to plan (default: RESTOCK_OUTLETS)")
	rootCmd.AddCommand(restockCmd)
}
