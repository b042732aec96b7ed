package accounting

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	TypeAsset     AccountType = "asset"
	TypeLiability AccountType = "liability"
	TypeEquity    AccountType = "equity"
	TypeRevenue   AccountType = "revenue"
	TypeExpense   AccountType = "expense"
)

// Chart of accounts codes seeded on migrate.
const (
	CodeCash           = "1-1100"
	CodeBank           = "1-1200"
	CodeInventory      = "1-1300"
	CodeAccountPayable = "2-1100"
	CodeSalesRevenue   = "4-1000"
	CodeSalaryExpense  = "6-1000"
)

// Account represents the accounts table. The code doubles as primary key.
type Account struct {
	ID        string          `gorm:"column:id;primaryKey;type:varchar(16)" json:"id"`
	Name      string          `gorm:"column:name;type:varchar(120);not null" json:"name"`
	Type      AccountType     `gorm:"column:type;type:varchar(16);not null" json:"type"`
	Balance   decimal.Decimal `gorm:"column:balance;type:decimal(20,6);not null;default:0" json:"balance"`
	UpdatedAt time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (Account) TableName() string {
	return "accounts"
}

// DefaultChart is the chart of accounts every fresh store starts with.
func DefaultChart() []Account {
	return []Account{
		{ID: CodeCash, Name: "Kas", Type: TypeAsset},
		{ID: CodeBank, Name: "Bank", Type: TypeAsset},
		{ID: CodeInventory, Name: "Persediaan", Type: TypeAsset},
		{ID: CodeAccountPayable, Name: "Utang Usaha", Type: TypeLiability},
		{ID: CodeSalesRevenue, Name: "Pendapatan Penjualan", Type: TypeRevenue},
		{ID: CodeSalaryExpense, Name: "Beban Gaji", Type: TypeExpense},
	}
}
