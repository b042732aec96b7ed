package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType labels the source of a stock change.
type MovementType string

const (
	MovementPO          MovementType = "PO"
	MovementSale        MovementType = "Sale"
	MovementTransferIn  MovementType = "Transfer In"
	MovementTransferOut MovementType = "Transfer Out"
	MovementAdjustment  MovementType = "Adjustment"
	MovementProduction  MovementType = "Production"
)

// StockMovement records every change to an ingredient's stock together with
// the stock level it produced. It backs the per-ingredient history view.
type StockMovement struct {
	ID             uint            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	IngredientID   string          `gorm:"column:ingredient_id;type:varchar(64);not null;index:idx_movements_ingredient_time,priority:1" json:"ingredient_id"`
	OutletID       string          `gorm:"column:outlet_id;type:varchar(64);index" json:"outlet_id"`
	Type           MovementType    `gorm:"column:type;type:varchar(20);not null" json:"type"`
	ReferenceID    string          `gorm:"column:reference_id;type:varchar(64);index" json:"reference_id"`
	QuantityChange decimal.Decimal `gorm:"column:quantity_change;type:decimal(20,6);not null" json:"quantity_change"`
	ResultingStock decimal.Decimal `gorm:"column:resulting_stock;type:decimal(20,6);not null" json:"resulting_stock"`
	Note           string          `gorm:"column:note;type:varchar(255)" json:"note,omitempty"`
	Actor          string          `gorm:"column:actor;type:varchar(120)" json:"actor"`
	CreatedAt      time.Time       `gorm:"column:created_at;index:idx_movements_ingredient_time,priority:2" json:"created_at"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}

// HistoryItem is one line of an ingredient's ledger view.
type HistoryItem struct {
	Date           time.Time       `json:"date"`
	Type           MovementType    `json:"type"`
	ReferenceID    string          `json:"reference_id"`
	QuantityChange decimal.Decimal `json:"quantity_change"`
	ResultingStock decimal.Decimal `json:"resulting_stock"`
	Actor          string          `json:"actor"`
	Note           string          `json:"note,omitempty"`
}
