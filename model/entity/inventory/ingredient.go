package inventory

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Type distinguishes purchased raw stock from stock produced in-house.
type Type string

const (
	TypeRaw          Type = "raw"
	TypeSemiFinished Type = "semi_finished"
)

// RecipeLine is one component of a semi-finished ingredient's bill of
// materials, expressed per produced unit.
type RecipeLine struct {
	ComponentID string          `json:"component_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
}

// Ingredient represents the ingredients table: one stock item in one outlet.
type Ingredient struct {
	ID         string                          `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	OutletID   string                          `gorm:"column:outlet_id;type:varchar(64);not null;index:idx_ingredients_outlet_sku,priority:1" json:"outlet_id"`
	Name       string                          `gorm:"column:name;type:varchar(255);not null" json:"name"`
	SKU        string                          `gorm:"column:sku;type:varchar(64);index:idx_ingredients_outlet_sku,priority:2" json:"sku"`
	Category   string                          `gorm:"column:category;type:varchar(120);index" json:"category"`
	Stock      decimal.Decimal                 `gorm:"column:stock;type:decimal(20,6);not null;default:0" json:"stock"`
	Unit       string                          `gorm:"column:unit;type:varchar(32);not null" json:"unit"`
	MinStock   decimal.Decimal                 `gorm:"column:min_stock;type:decimal(20,6);not null;default:0" json:"min_stock"`
	AvgCost    decimal.Decimal                 `gorm:"column:avg_cost;type:decimal(20,6);not null;default:0" json:"avg_cost"`
	SupplierID string                          `gorm:"column:supplier_id;type:varchar(64);index" json:"supplier_id,omitempty"`
	Type       Type                            `gorm:"column:type;type:varchar(20);not null;default:raw" json:"type"`
	Recipe     datatypes.JSONSlice[RecipeLine] `gorm:"column:recipe" json:"recipe,omitempty"`
	CreatedAt  time.Time                       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time                       `gorm:"column:updated_at" json:"updated_at"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// IsCritical reports stock at or below the reorder threshold.
func (i *Ingredient) IsCritical() bool {
	return i.Stock.LessThanOrEqual(i.MinStock)
}

// StockStatus is the listing filter bucket for an ingredient.
type StockStatus string

const (
	StatusCritical StockStatus = "critical"
	StatusLow      StockStatus = "low"
	StatusSafe     StockStatus = "safe"
)

var lowStockFactor = decimal.RequireFromString("1.5")

// Status classifies the ingredient: critical at or below minStock, low up to
// 1.5x minStock, safe above.
func (i *Ingredient) Status() StockStatus {
	switch {
	case i.IsCritical():
		return StatusCritical
	case i.Stock.LessThanOrEqual(i.MinStock.Mul(lowStockFactor)):
		return StatusLow
	default:
		return StatusSafe
	}
}
