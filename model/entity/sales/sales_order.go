package sales

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"backoffice.GO/model/entity/inventory"
)

// LineKind discriminates the persisted form of a Line.
type LineKind string

const (
	KindRecipe LineKind = "recipe"
	KindStock  LineKind = "stock"
)

// Line is a sold item. It is either a RecipeLine, consumed through its
// bill of materials, or a StockLine, consumed directly from stock.
type Line interface {
	Kind() LineKind
	Subtotal() decimal.Decimal
}

// RecipeLine is a menu item made to order. Recipe is the snapshot of
// components per sold unit at the time of sale.
type RecipeLine struct {
	ProductID string
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Recipe    []inventory.RecipeLine
}

func (RecipeLine) Kind() LineKind { return KindRecipe }

func (l RecipeLine) Subtotal() decimal.Decimal { return l.Quantity.Mul(l.UnitPrice) }

// StockLine sells a stocked item as is.
type StockLine struct {
	IngredientID string
	Name         string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
}

func (StockLine) Kind() LineKind { return KindStock }

func (l StockLine) Subtotal() decimal.Decimal { return l.Quantity.Mul(l.UnitPrice) }

// LineRecord is the flat JSON form of a Line.
type LineRecord struct {
	Kind         LineKind               `json:"kind"`
	ProductID    string                 `json:"product_id,omitempty"`
	IngredientID string                 `json:"ingredient_id,omitempty"`
	Name         string                 `json:"name,omitempty"`
	Quantity     decimal.Decimal        `json:"quantity"`
	UnitPrice    decimal.Decimal        `json:"unit_price"`
	Recipe       []inventory.RecipeLine `json:"recipe,omitempty"`
}

// Line converts the record into its variant.
func (r LineRecord) Line() (Line, error) {
	switch r.Kind {
	case KindRecipe:
		return RecipeLine{ProductID: r.ProductID, Name: r.Name, Quantity: r.Quantity, UnitPrice: r.UnitPrice, Recipe: r.Recipe}, nil
	case KindStock:
		return StockLine{IngredientID: r.IngredientID, Name: r.Name, Quantity: r.Quantity, UnitPrice: r.UnitPrice}, nil
	}
	return nil, fmt.Errorf("sales: unknown line kind %q", r.Kind)
}

// Record flattens a Line.
func Record(l Line) LineRecord {
	switch v := l.(type) {
	case RecipeLine:
		return LineRecord{Kind: KindRecipe, ProductID: v.ProductID, Name: v.Name, Quantity: v.Quantity, UnitPrice: v.UnitPrice, Recipe: v.Recipe}
	case StockLine:
		return LineRecord{Kind: KindStock, IngredientID: v.IngredientID, Name: v.Name, Quantity: v.Quantity, UnitPrice: v.UnitPrice}
	}
	return LineRecord{Kind: l.Kind(), Quantity: decimal.Zero, UnitPrice: decimal.Zero}
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// SalesOrder represents the sales_orders table.
type SalesOrder struct {
	ID               string                          `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	OutletID         string                          `gorm:"column:outlet_id;type:varchar(64);not null;index" json:"outlet_id"`
	Lines            []Line                          `gorm:"-" json:"-"`
	LineData         datatypes.JSONSlice[LineRecord] `gorm:"column:lines" json:"lines"`
	Total            decimal.Decimal                 `gorm:"column:total;type:decimal(20,6);not null;default:0" json:"total"`
	PaymentStatus    PaymentStatus                   `gorm:"column:payment_status;type:varchar(16);not null" json:"payment_status"`
	PaymentAccountID string                          `gorm:"column:payment_account_id;type:varchar(16)" json:"payment_account_id,omitempty"`
	RevenueAccountID string                          `gorm:"column:revenue_account_id;type:varchar(16)" json:"revenue_account_id,omitempty"`
	Actor            string                          `gorm:"column:actor;type:varchar(120)" json:"actor"`
	CreatedAt        time.Time                       `gorm:"column:created_at;index" json:"created_at"`
}

func (SalesOrder) TableName() string {
	return "sales_orders"
}

// ResolveLines fills Lines from LineData when only the persisted form is set.
func (o *SalesOrder) ResolveLines() error {
	if o.Lines != nil {
		return nil
	}
	lines := make([]Line, 0, len(o.LineData))
	for i, rec := range o.LineData {
		l, err := rec.Line()
		if err != nil {
			return fmt.Errorf("line %d: %w", i, err)
		}
		lines = append(lines, l)
	}
	o.Lines = lines
	return nil
}

// ComputedTotal sums the line subtotals.
func (o *SalesOrder) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

func (o *SalesOrder) BeforeSave(tx *gorm.DB) error {
	if o.Lines == nil {
		return nil
	}
	recs := make(datatypes.JSONSlice[LineRecord], 0, len(o.Lines))
	for _, l := range o.Lines {
		recs = append(recs, Record(l))
	}
	o.LineData = recs
	return nil
}

func (o *SalesOrder) AfterFind(tx *gorm.DB) error {
	o.Lines = nil
	return o.ResolveLines()
}
