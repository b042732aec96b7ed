package restock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backoffice.GO/core/scope"
	"backoffice.GO/internal/testdb"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	purchaseEntity "backoffice.GO/model/entity/purchase"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T, db *gorm.DB, outlet, name, supplier, stock, min, cost string) *inventoryEntity.Ingredient {
	t.Helper()
	ing := &inventoryEntity.Ingredient{
		ID:         uuid.NewString(),
		OutletID:   outlet,
		Name:       name,
		Unit:       "kg",
		Type:       inventoryEntity.TypeRaw,
		SupplierID: supplier,
		Stock:      dec(stock),
		MinStock:   dec(min),
		AvgCost:    dec(cost),
	}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

func TestTargetQuantity(t *testing.T) {
	cases := []struct {
		stock, min, want string
	}{
		{"2", "5", "13"},
		{"0", "0", "1"},
		{"5", "5", "10"},
		{"1.5", "2", "5"},
		{"14.5", "5", "1"},
		{"-3", "1", "6"},
	}
	for _, tc := range cases {
		got := TargetQuantity(dec(tc.stock), dec(tc.min))
		if !got.Equal(dec(tc.want)) {
			t.Errorf("TargetQuantity(%s, %s) = %s, want %s", tc.stock, tc.min, got, tc.want)
		}
	}
}

func TestRun_GroupsBySupplier(t *testing.T) {
	db := testdb.Open(t)
	p := NewPlanner(db)
	ctx := scope.With(context.Background(), scope.Scope{OutletID: "central"})

	sugar := seed(t, db, "central", "Gula", "sup-a", "2", "5", "14000")
	flour := seed(t, db, "central", "Tepung", "sup-a", "0", "4", "12000")
	milk := seed(t, db, "central", "Susu", "sup-b", "1", "3", "18000")
	seed(t, db, "central", "Kopi", "sup-b", "20", "3", "90000")
	seed(t, db, "outlet-b", "Gula", "sup-a", "0", "5", "14000")

	res, err := p.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, res.Created)

	bySupplier := map[string]purchaseEntity.PurchaseOrder{}
	for _, po := range res.Orders {
		bySupplier[po.SupplierID] = po
	}
	a, b := bySupplier["sup-a"], bySupplier["sup-b"]
	require.Len(t, a.Items, 2)
	require.Len(t, b.Items, 1)

	// sup-a: gula 13 x 14000 + tepung 12 x 12000
	assert.True(t, a.TotalEstimated.Equal(dec("326000")), "sup-a total = %s", a.TotalEstimated)
	// sup-b: susu 8 x 18000
	assert.True(t, b.TotalEstimated.Equal(dec("144000")), "sup-b total = %s", b.TotalEstimated)

	qty := map[string]decimal.Decimal{}
	for _, it := range append(a.Items, b.Items...) {
		qty[it.IngredientID] = it.Quantity
	}
	assert.True(t, qty[sugar.ID].Equal(dec("13")))
	assert.True(t, qty[flour.ID].Equal(dec("12")))
	assert.True(t, qty[milk.ID].Equal(dec("8")))

	var stored []purchaseEntity.PurchaseOrder
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 2)
	for _, po := range stored {
		assert.Equal(t, purchaseEntity.StatusDraft, po.Status)
		assert.Equal(t, "central", po.OutletID)
		require.Len(t, po.History, 1)
		assert.Equal(t, "autorestock", po.History[0].Actor)
	}
}

func TestRun_DefaultSupplier(t *testing.T) {
	db := testdb.Open(t)
	p := NewPlanner(db, WithDefaultSupplier("sup-umum"))
	ctx := scope.With(context.Background(), scope.Scope{OutletID: "central"})
	seed(t, db, "central", "Garam", "", "0", "1", "5000")
	seed(t, db, "central", "Merica", "", "1", "1", "30000")

	res, err := p.Run(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, res.Created)
	assert.Equal(t, "sup-umum", res.Orders[0].SupplierID)
	assert.Len(t, res.Orders[0].Items, 2)
}

func TestRun_NothingCritical(t *testing.T) {
	db := testdb.Open(t)
	p := NewPlanner(db)
	seed(t, db, "central", "Kopi", "sup-b", "20", "3", "90000")

	res, err := p.Run(scope.With(context.Background(), scope.Scope{OutletID: "central"}))
	require.NoError(t, err)
	assert.Zero(t, res.Created)
	assert.Empty(t, res.Orders)
}

func TestRun_AllOutlets(t *testing.T) {
	db := testdb.Open(t)
	p := NewPlanner(db)
	seed(t, db, "central", "Gula", "sup-a", "0", "5", "14000")
	seed(t, db, "outlet-b", "Gula", "sup-a", "0", "5", "14000")

	res, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created, "one draft per outlet and supplier")
}
