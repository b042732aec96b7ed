package api

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"backoffice.GO/config"
	"backoffice.GO/core/cache"
	"backoffice.GO/service/bridge"
	"backoffice.GO/service/inventory"
	"backoffice.GO/service/production"
	"backoffice.GO/service/purchase"
	"backoffice.GO/service/restock"
	"backoffice.GO/service/transfer"
)

// Services is what route modules call into. Inventory and Purchase share
// one price cache so receipts invalidate suggested prices.
type Services struct {
	DB         *gorm.DB
	Log        *zap.Logger
	Central    string
	Inventory  *inventory.Service
	Production *production.Service
	Purchase   *purchase.Service
	Transfer   *transfer.Service
	Restock    *restock.Planner
	Bridge     *bridge.Service
}

// NewServices builds every service on db with the given configuration.
func NewServices(db *gorm.DB, cfg *config.Config, log *zap.Logger, prices cache.Prices) *Services {
	if log == nil {
		log = zap.NewNop()
	}
	if prices == nil {
		prices = cache.NewMemoryPrices(cfg.PriceCacheTTL)
	}
	ledger := inventory.NewService(db,
		inventory.WithLogger(log.Named("inventory")),
		inventory.WithPriceCache(prices),
		inventory.WithDefaultOutlet(cfg.CentralOutletID),
	)
	return &Services{
		DB:         db,
		Log:        log,
		Central:    cfg.CentralOutletID,
		Inventory:  ledger,
		Production: production.NewService(db, production.WithLogger(log.Named("production"))),
		Purchase: purchase.NewService(db, ledger,
			purchase.WithLogger(log.Named("purchase")),
			purchase.WithPriceCache(prices),
			purchase.WithDefaultOutlet(cfg.CentralOutletID),
		),
		Transfer: transfer.NewService(db,
			transfer.WithLogger(log.Named("transfer")),
			transfer.WithCentralOutlet(cfg.CentralOutletID),
		),
		Restock: restock.NewPlanner(db,
			restock.WithLogger(log.Named("restock")),
			restock.WithDefaultSupplier(cfg.DefaultSupplierID),
		),
		Bridge: bridge.NewService(db,
			bridge.WithLogger(log.Named("bridge")),
			bridge.WithDefaultOutlet(cfg.CentralOutletID),
		),
	}
}
