package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backoffice.GO/internal/testdb"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	purchaseEntity "backoffice.GO/model/entity/purchase"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// stepClock returns a clock that advances one minute per call.
func stepClock() func() time.Time {
	t := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newService(t *testing.T, opts ...Option) (*Service, *gorm.DB) {
	t.Helper()
	db := testdb.Open(t)
	opts = append([]Option{WithClock(stepClock())}, opts...)
	return NewService(db, opts...), db
}

func seedIngredient(t *testing.T, db *gorm.DB, ing inventoryEntity.Ingredient) *inventoryEntity.Ingredient {
	t.Helper()
	if ing.ID == "" {
		ing.ID = uuid.NewString()
	}
	if ing.OutletID == "" {
		ing.OutletID = "central"
	}
	if ing.Type == "" {
		ing.Type = inventoryEntity.TypeRaw
	}
	require.NoError(t, db.Create(&ing).Error)
	return &ing
}

func seedOrder(t *testing.T, db *gorm.DB, items ...purchaseEntity.Item) *purchaseEntity.PurchaseOrder {
	t.Helper()
	po := &purchaseEntity.PurchaseOrder{
		ID:            uuid.NewString(),
		OutletID:      "central",
		SupplierID:    "sup-1",
		Items:         items,
		Status:        purchaseEntity.StatusOrdered,
		PaymentStatus: purchaseEntity.PaymentUnpaid,
	}
	po.TotalEstimated = po.EstimatedTotal()
	require.NoError(t, db.Create(po).Error)
	return po
}

func reload(t *testing.T, db *gorm.DB, id string) *inventoryEntity.Ingredient {
	t.Helper()
	var ing inventoryEntity.Ingredient
	require.NoError(t, db.First(&ing, "id = ?", id).Error)
	return &ing
}

func requireDec(t *testing.T, want string, got decimal.Decimal, what string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s = %s, want %s", what, got, want)
	}
}
