package accounting

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	accountingEntity "backoffice.GO/model/entity/accounting"
	"backoffice.GO/model/repository"
)

// AccountingRepository writes journal lines, account balances and payables.
type AccountingRepository struct {
	db *gorm.DB
}

func NewAccountingRepository(db *gorm.DB) *AccountingRepository {
	return &AccountingRepository{db: db}
}

func (r *AccountingRepository) FindAccount(ctx context.Context, id string) (*accountingEntity.Account, error) {
	var a accountingEntity.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, repository.Translate(err, "account", id)
	}
	return &a, nil
}

func (r *AccountingRepository) ListAccounts(ctx context.Context) ([]accountingEntity.Account, error) {
	var items []accountingEntity.Account
	err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error
	return items, err
}

// Post appends the entry and moves the account balance by delta.
func (r *AccountingRepository) Post(ctx context.Context, entry *accountingEntity.LedgerEntry, delta decimal.Decimal) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&accountingEntity.Account{}).
		Where("id = ?", entry.AccountID).
		Update("balance", gorm.Expr("ROUND(balance + ?, 6)", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repository.Translate(gorm.ErrRecordNotFound, "account", entry.AccountID)
	}
	return db.Create(entry).Error
}

// EntriesByReference returns the journal lines of one business document.
func (r *AccountingRepository) EntriesByReference(ctx context.Context, refType, refID string) ([]accountingEntity.LedgerEntry, error) {
	var items []accountingEntity.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("reference_type = ? AND reference_id = ?", refType, refID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *AccountingRepository) CreatePayable(ctx context.Context, p *accountingEntity.Payable) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// PayableByOrder returns the payable of a purchase order, or nil when none exists.
func (r *AccountingRepository) PayableByOrder(ctx context.Context, purchaseOrderID string) (*accountingEntity.Payable, error) {
	var items []accountingEntity.Payable
	err := r.db.WithContext(ctx).Where("purchase_order_id = ?", purchaseOrderID).Limit(1).Find(&items).Error
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

func (r *AccountingRepository) SavePayable(ctx context.Context, p *accountingEntity.Payable) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// SeedAccounts creates the missing accounts of the chart, leaving existing
// balances untouched.
func (r *AccountingRepository) SeedAccounts(ctx context.Context, chart []accountingEntity.Account) error {
	for i := range chart {
		acc := chart[i]
		if err := r.db.WithContext(ctx).Where("id = ?", acc.ID).FirstOrCreate(&acc).Error; err != nil {
			return err
		}
	}
	return nil
}
