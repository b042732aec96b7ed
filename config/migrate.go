package config

import (
	"context"

	"gorm.io/gorm"

	"backoffice.GO/model/entity/accounting"
	"backoffice.GO/model/entity/inventory"
	"backoffice.GO/model/entity/payroll"
	"backoffice.GO/model/entity/purchase"
	"backoffice.GO/model/entity/sales"
	"backoffice.GO/model/entity/transfer"
	accountingRepo "backoffice.GO/model/repository/accounting"
)

// Models lists every persisted entity.
func Models() []interface{} {
	return []interface{}{
		&inventory.Ingredient{},
		&inventory.StockAdjustment{},
		&inventory.StockMovement{},
		&purchase.Supplier{},
		&purchase.PurchaseOrder{},
		&transfer.StockTransfer{},
		&accounting.Account{},
		&accounting.LedgerEntry{},
		&accounting.Payable{},
		&sales.SalesOrder{},
		&payroll.Payroll{},
	}
}

// Migrate creates or updates every table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// SeedAccounts creates the default chart of accounts where missing.
func SeedAccounts(ctx context.Context, db *gorm.DB) error {
	return accountingRepo.NewAccountingRepository(db).SeedAccounts(ctx, accounting.DefaultChart())
}
