package purchase

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Status is the purchase order lifecycle state.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusOrdered         Status = "ordered"
	StatusProcessed       Status = "processed"
	StatusShipped         Status = "shipped"
	StatusReceived        Status = "received"
	StatusCancelled       Status = "cancelled"
	StatusRejected        Status = "rejected"
)

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusReceived || s == StatusCancelled || s == StatusRejected
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodTransfer PaymentMethod = "transfer"
	MethodTempo    PaymentMethod = "tempo"
)

func (m PaymentMethod) Valid() bool {
	return m == MethodCash || m == MethodTransfer || m == MethodTempo
}

// DistributorStatus tracks fulfilment on the network partner side.
type DistributorStatus string

const (
	DistributorNone       DistributorStatus = ""
	DistributorPending    DistributorStatus = "pending"
	DistributorProcessing DistributorStatus = "processing"
	DistributorShipped    DistributorStatus = "shipped"
	DistributorDelivered  DistributorStatus = "delivered"
)

// Discrepancy explains a received quantity that differs from the order.
type Discrepancy string

const (
	DiscrepancyBonus   Discrepancy = "bonus"
	DiscrepancyDamaged Discrepancy = "damaged"
	DiscrepancyMissing Discrepancy = "missing"
)

func (d Discrepancy) Valid() bool {
	return d == DiscrepancyBonus || d == DiscrepancyDamaged || d == DiscrepancyMissing
}

// Item is the line-item snapshot stored on the order.
type Item struct {
	IngredientID      string           `json:"ingredient_id"`
	Name              string           `json:"name,omitempty"`
	Quantity          decimal.Decimal  `json:"quantity"`
	Unit              string           `json:"unit"`
	Cost              decimal.Decimal  `json:"cost"`
	ReceivedQuantity  *decimal.Decimal `json:"received_quantity,omitempty"`
	FinalCost         *decimal.Decimal `json:"final_cost,omitempty"`
	DiscrepancyReason Discrepancy      `json:"discrepancy_reason,omitempty"`
	ExpiryDate        *time.Time       `json:"expiry_date,omitempty"`
}

// HistoryEntry is appended on every transition.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Actor     string    `json:"actor"`
	Note      string    `json:"note,omitempty"`
}

// PurchaseOrder represents the purchase_orders table.
type PurchaseOrder struct {
	ID                string                            `gorm:"column:id;primaryKey;type:varchar(64)" json:"id"`
	OutletID          string                            `gorm:"column:outlet_id;type:varchar(64);not null;index" json:"outlet_id"`
	SupplierID        string                            `gorm:"column:supplier_id;type:varchar(64);index" json:"supplier_id"`
	Items             datatypes.JSONSlice[Item]         `gorm:"column:items" json:"items"`
	Status            Status                            `gorm:"column:status;type:varchar(32);not null;index" json:"status"`
	PaymentStatus     PaymentStatus                     `gorm:"column:payment_status;type:varchar(16);not null;default:unpaid" json:"payment_status"`
	PaymentMethod     PaymentMethod                     `gorm:"column:payment_method;type:varchar(16)" json:"payment_method,omitempty"`
	DueDate           *time.Time                        `gorm:"column:due_date" json:"due_date,omitempty"`
	TotalEstimated    decimal.Decimal                   `gorm:"column:total_estimated;type:decimal(20,6);not null;default:0" json:"total_estimated"`
	TotalFinal        decimal.Decimal                   `gorm:"column:total_final;type:decimal(20,6);not null;default:0" json:"total_final"`
	OrderDate         *time.Time                        `gorm:"column:order_date" json:"order_date,omitempty"`
	ReceivedBy        string                            `gorm:"column:received_by;type:varchar(120)" json:"received_by,omitempty"`
	ReceivedDate      *time.Time                        `gorm:"column:received_date" json:"received_date,omitempty"`
	DistributorStatus DistributorStatus                 `gorm:"column:distributor_status;type:varchar(16)" json:"distributor_status,omitempty"`
	History           datatypes.JSONSlice[HistoryEntry] `gorm:"column:history" json:"history"`
	CreatedAt         time.Time                         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time                         `gorm:"column:updated_at" json:"updated_at"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// Append records a history entry stamped with now.
func (po *PurchaseOrder) Append(now time.Time, action, actor, note string) {
	po.History = append(po.History, HistoryEntry{Timestamp: now, Action: action, Actor: actor, Note: note})
}

// EstimatedTotal sums quantity times cost over the items.
func (po *PurchaseOrder) EstimatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range po.Items {
		total = total.Add(it.Quantity.Mul(it.Cost))
	}
	return total
}
