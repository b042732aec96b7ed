package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reason is the closed set of justifications for a stock correction.
type Reason string

const (
	ReasonOpname   Reason = "Opname"
	ReasonRusak    Reason = "Rusak"
	ReasonHilang   Reason = "Hilang"
	ReasonExpired  Reason = "Expired"
	ReasonKoreksi  Reason = "Koreksi"
	ReasonProduksi Reason = "Produksi"
)

// Valid reports whether r is one of the known reasons.
func (r Reason) Valid() bool {
	switch r {
	case ReasonOpname, ReasonRusak, ReasonHilang, ReasonExpired, ReasonKoreksi, ReasonProduksi:
		return true
	}
	return false
}

// StockAdjustment is an immutable audit row for a stock correction.
type StockAdjustment struct {
	ID           uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	IngredientID string          `gorm:"column:ingredient_id;type:varchar(64);not null;index" json:"ingredient_id"`
	OldStock     decimal.Decimal `gorm:"column:old_stock;type:decimal(20,6);not null" json:"old_stock"`
	NewStock     decimal.Decimal `gorm:"column:new_stock;type:decimal(20,6);not null" json:"new_stock"`
	Variance     decimal.Decimal `gorm:"column:variance;type:decimal(20,6);not null" json:"variance"`
	Reason       Reason          `gorm:"column:reason;type:varchar(20);not null" json:"reason"`
	Note         string          `gorm:"column:note;type:varchar(255)" json:"note,omitempty"`
	Actor        string          `gorm:"column:actor;type:varchar(120)" json:"actor"`
	CreatedAt    time.Time       `gorm:"column:created_at;index" json:"timestamp"`
}

func (StockAdjustment) TableName() string {
	return "stock_adjustments"
}
