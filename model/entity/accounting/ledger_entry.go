package accounting

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reference types for ledger entries and payables.
const (
	RefPurchaseOrder = "purchase_order"
	RefSale          = "sale"
	RefPayroll       = "payroll"
)

// LedgerEntry is one immutable journal line.
type LedgerEntry struct {
	ID            uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AccountID     string          `gorm:"column:account_id;type:varchar(16);not null;index" json:"account_id"`
	Date          time.Time       `gorm:"column:date;index" json:"date"`
	Description   string          `gorm:"column:description;type:varchar(255)" json:"description"`
	Debit         decimal.Decimal `gorm:"column:debit;type:decimal(20,6);not null;default:0" json:"debit"`
	Credit        decimal.Decimal `gorm:"column:credit;type:decimal(20,6);not null;default:0" json:"credit"`
	ReferenceType string          `gorm:"column:reference_type;type:varchar(32);index:idx_ledger_ref,priority:1" json:"reference_type"`
	ReferenceID   string          `gorm:"column:reference_id;type:varchar(64);index:idx_ledger_ref,priority:2" json:"reference_id"`
	Actor         string          `gorm:"column:actor;type:varchar(120)" json:"actor"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

type PayableStatus string

const (
	PayableUnpaid PayableStatus = "unpaid"
	PayablePaid   PayableStatus = "paid"
)

// Payable is a supplier debt created by a tempo purchase.
type Payable struct {
	ID              string          `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	PurchaseOrderID string          `gorm:"column:purchase_order_id;type:varchar(64);not null;uniqueIndex" json:"purchase_order_id"`
	SupplierID      string          `gorm:"column:supplier_id;type:varchar(64);index" json:"supplier_id"`
	Amount          decimal.Decimal `gorm:"column:amount;type:decimal(20,6);not null" json:"amount"`
	DueDate         *time.Time      `gorm:"column:due_date" json:"due_date,omitempty"`
	Status          PayableStatus   `gorm:"column:status;type:varchar(16);not null" json:"status"`
	PaidAt          *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at" json:"created_at"`
}

func (Payable) TableName() string {
	return "payables"
}
