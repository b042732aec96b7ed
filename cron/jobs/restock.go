// Package jobs registers the scheduled jobs of the back office.
package jobs

import (
	"context"

	"go.uber.org/zap"

	"backoffice.GO/config"
	"backoffice.GO/core/scope"
	"backoffice.GO/cron"
	"backoffice.GO/service/restock"
)

func init() {
	cron.Register(config.JobAutoRestock, "0 6 * * *", AutoRestock)
}

// AutoRestock drafts restock orders for the configured outlets. Outlet ids
// passed as args replace the configured list.
func AutoRestock(ctx context.Context, env cron.Env, args ...string) error {
	cfg := config.App()
	outlets := cfg.RestockOutlets
	if len(args) > 0 {
		outlets = args
	}
	p := restock.NewPlanner(env.DB,
		restock.WithLogger(env.Log),
		restock.WithDefaultSupplier(cfg.DefaultSupplierID),
	)
	ctx = scope.With(ctx, scope.Scope{TargetOutletIDs: outlets, Actor: config.JobAutoRestock})
	res, err := p.Run(ctx)
	if err != nil {
		return err
	}
	env.Log.Info("restock drafts created", zap.Int("count", res.Created))
	return nil
}
