// Package uow runs multi-entity operations inside one database transaction.
package uow

import (
	"context"

	"gorm.io/gorm"

	"backoffice.GO/model/repository/accounting"
	"backoffice.GO/model/repository/inventory"
	"backoffice.GO/model/repository/payroll"
	"backoffice.GO/model/repository/purchase"
	"backoffice.GO/model/repository/sales"
	"backoffice.GO/model/repository/transfer"
)

// Repos bundles every repository bound to the same connection or transaction.
type Repos struct {
	Ingredients    *inventory.IngredientRepository
	Movements      *inventory.MovementRepository
	PurchaseOrders *purchase.OrderRepository
	Suppliers      *purchase.SupplierRepository
	Transfers      *transfer.TransferRepository
	Accounting     *accounting.AccountingRepository
	Sales          *sales.OrderRepository
	Payrolls       *payroll.PayrollRepository
}

func NewRepos(db *gorm.DB) *Repos {
	return &Repos{
		Ingredients:    inventory.NewIngredientRepository(db),
		Movements:      inventory.NewMovementRepository(db),
		PurchaseOrders: purchase.NewOrderRepository(db),
		Suppliers:      purchase.NewSupplierRepository(db),
		Transfers:      transfer.NewTransferRepository(db),
		Accounting:     accounting.NewAccountingRepository(db),
		Sales:          sales.NewOrderRepository(db),
		Payrolls:       payroll.NewPayrollRepository(db),
	}
}

type UnitOfWork struct {
	db    *gorm.DB
	repos *Repos
}

func New(db *gorm.DB) *UnitOfWork {
	return &UnitOfWork{db: db, repos: NewRepos(db)}
}

// Repos returns repositories outside any transaction, for reads.
func (u *UnitOfWork) Repos() *Repos {
	return u.repos
}

// Do runs fn in one transaction. Any error returned by fn rolls back every
// write made through the given Repos.
func (u *UnitOfWork) Do(ctx context.Context, fn func(r *Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}
