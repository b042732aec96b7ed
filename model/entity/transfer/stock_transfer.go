package transfer

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusShipped   Status = "shipped"
	StatusReceived  Status = "received"
	StatusCancelled Status = "cancelled"
)

// Item is one requested ingredient. IngredientID refers to the source
// outlet's ingredient.
type Item struct {
	IngredientID      string           `json:"ingredient_id"`
	Name              string           `json:"name,omitempty"`
	SKU               string           `json:"sku,omitempty"`
	Unit              string           `json:"unit"`
	QuantityRequested decimal.Decimal  `json:"quantity_requested"`
	QuantityShipped   *decimal.Decimal `json:"quantity_shipped,omitempty"`
	QuantityReceived  *decimal.Decimal `json:"quantity_received,omitempty"`
}

// StockTransfer represents the stock_transfers table.
type StockTransfer struct {
	ID             string                    `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	SourceOutletID string                    `gorm:"column:source_outlet_id;type:varchar(64);not null;index" json:"source_outlet_id"`
	TargetOutletID string                    `gorm:"column:target_outlet_id;type:varchar(64);not null;index" json:"target_outlet_id"`
	Items          datatypes.JSONSlice[Item] `gorm:"column:items" json:"items"`
	Status         Status                    `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	RequestedBy    string                    `gorm:"column:requested_by;type:varchar(120)" json:"requested_by"`
	RequestDate    time.Time                 `gorm:"column:request_date" json:"request_date"`
	ShippedBy      string                    `gorm:"column:shipped_by;type:varchar(120)" json:"shipped_by,omitempty"`
	ShipDate       *time.Time                `gorm:"column:ship_date" json:"ship_date,omitempty"`
	DriverName     string                    `gorm:"column:driver_name;type:varchar(120)" json:"driver_name,omitempty"`
	DriverPhone    string                    `gorm:"column:driver_phone;type:varchar(32)" json:"driver_phone,omitempty"`
	ReceivedBy     string                    `gorm:"column:received_by;type:varchar(120)" json:"received_by,omitempty"`
	ReceiveDate    *time.Time                `gorm:"column:receive_date" json:"receive_date,omitempty"`
	Note           string                    `gorm:"column:note;type:varchar(255)" json:"note,omitempty"`
	UpdatedAt      time.Time                 `gorm:"column:updated_at" json:"updated_at"`
}

func (StockTransfer) TableName() string {
	return "stock_transfers"
}
