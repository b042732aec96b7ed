package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backoffice.GO/core/apperr"
	"backoffice.GO/core/scope"
	"backoffice.GO/internal/testdb"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	transferEntity "backoffice.GO/model/entity/transfer"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seed(t *testing.T, db *gorm.DB, outlet, sku, unit, stock, cost string) *inventoryEntity.Ingredient {
	t.Helper()
	ing := &inventoryEntity.Ingredient{
		ID:       uuid.NewString(),
		OutletID: outlet,
		Name:     "Item " + sku,
		SKU:      sku,
		Unit:     unit,
		Type:     inventoryEntity.TypeRaw,
		Stock:    dec(stock),
		MinStock: dec("1"),
		AvgCost:  dec(cost),
	}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

func reload(t *testing.T, db *gorm.DB, id string) inventoryEntity.Ingredient {
	t.Helper()
	var ing inventoryEntity.Ingredient
	require.NoError(t, db.First(&ing, "id = ?", id).Error)
	return ing
}

var (
	branch  = scope.With(context.Background(), scope.Scope{OutletID: "outlet-b", Actor: "budi"})
	central = scope.With(context.Background(), scope.Scope{OutletID: "central", Actor: "gudang"})
)

func TestTransfer_FullCycle(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db, WithClock(func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }))
	flour := seed(t, db, "central", "TPG", "kg", "50", "12000")
	branchFlour := seed(t, db, "outlet-b", "TPG", "gram", "500", "11")
	milk := seed(t, db, "central", "SSU", "liter", "20", "18000")

	tr, err := svc.Request(branch, Request{Items: []Line{
		{IngredientID: flour.ID, Quantity: dec("10")},
		{IngredientID: milk.ID, Quantity: dec("4")},
	}})
	require.NoError(t, err)
	assert.Equal(t, "central", tr.SourceOutletID)
	assert.Equal(t, "outlet-b", tr.TargetOutletID)
	assert.Equal(t, transferEntity.StatusPending, tr.Status)
	assert.Equal(t, "budi", tr.RequestedBy)

	tr, err = svc.Ship(central, tr.ID, Shipment{
		Items:      []Line{{IngredientID: milk.ID, Quantity: dec("3")}},
		DriverName: "Andi",
	})
	require.NoError(t, err)
	assert.Equal(t, transferEntity.StatusShipped, tr.Status)
	assert.True(t, tr.Items[0].QuantityShipped.Equal(dec("10")))
	assert.True(t, tr.Items[1].QuantityShipped.Equal(dec("3")))
	assert.Equal(t, "Andi", tr.DriverName)
	assert.Equal(t, "gudang", tr.ShippedBy)
	assert.True(t, reload(t, db, flour.ID).Stock.Equal(dec("50")), "source stock must not move on ship")

	tr, err = svc.Receive(branch, tr.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, transferEntity.StatusReceived, tr.Status)
	assert.Equal(t, "budi", tr.ReceivedBy)
	require.NotNil(t, tr.ReceiveDate)
	assert.True(t, tr.Items[1].QuantityReceived.Equal(dec("3")))

	// 10 kg lands as 10000 gram on the branch's own ingredient.
	got := reload(t, db, branchFlour.ID)
	assert.True(t, got.Stock.Equal(dec("10500")), "branch flour = %s", got.Stock)
	assert.True(t, got.AvgCost.Equal(dec("11")))

	var copies []inventoryEntity.Ingredient
	require.NoError(t, db.Where("outlet_id = ? AND sku = ?", "outlet-b", "SSU").Find(&copies).Error)
	require.Len(t, copies, 1)
	assert.True(t, copies[0].Stock.Equal(dec("3")), "branch milk = %s", copies[0].Stock)
	assert.True(t, copies[0].AvgCost.Equal(dec("18000")))
	assert.Equal(t, "liter", copies[0].Unit)

	var moves []inventoryEntity.StockMovement
	require.NoError(t, db.Where("reference_id = ?", tr.ID).Order("id").Find(&moves).Error)
	require.Len(t, moves, 2)
	for _, m := range moves {
		assert.Equal(t, inventoryEntity.MovementTransferIn, m.Type)
		assert.Equal(t, "outlet-b", m.OutletID)
	}
	assert.True(t, moves[0].ResultingStock.Equal(dec("10500")))
}

func TestTransfer_RequestValidation(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	flour := seed(t, db, "central", "TPG", "kg", "50", "12000")
	local := seed(t, db, "outlet-b", "GLA", "kg", "5", "14000")

	cases := []struct {
		name string
		ctx  context.Context
		in   Request
		want error
	}{
		{"no items", branch, Request{}, apperr.ErrValidation},
		{"zero quantity", branch, Request{Items: []Line{{IngredientID: flour.ID, Quantity: dec("0")}}}, apperr.ErrValidation},
		{"same outlet", central, Request{Items: []Line{{IngredientID: flour.ID, Quantity: dec("1")}}}, apperr.ErrValidation},
		{"wrong source outlet", branch, Request{Items: []Line{{IngredientID: local.ID, Quantity: dec("1")}}}, apperr.ErrValidation},
		{"unknown ingredient", branch, Request{Items: []Line{{IngredientID: "ghost", Quantity: dec("1")}}}, apperr.ErrNotFound},
		{"no target", context.Background(), Request{Items: []Line{{IngredientID: flour.ID, Quantity: dec("1")}}}, apperr.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Request(tc.ctx, tc.in)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTransfer_ShipMoreThanRequested(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	flour := seed(t, db, "central", "TPG", "kg", "50", "12000")
	tr, err := svc.Request(branch, Request{Items: []Line{{IngredientID: flour.ID, Quantity: dec("5")}}})
	require.NoError(t, err)

	_, err = svc.Ship(central, tr.ID, Shipment{Items: []Line{{IngredientID: flour.ID, Quantity: dec("6")}}})
	require.True(t, errors.Is(err, apperr.ErrValidation), "err = %v", err)

	stored, err := svc.Get(central, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, transferEntity.StatusPending, stored.Status)
	assert.Nil(t, stored.Items[0].QuantityShipped)
}

func TestTransfer_ReceiveRequiresShipment(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	flour := seed(t, db, "central", "TPG", "kg", "50", "12000")
	tr, err := svc.Request(branch, Request{Items: []Line{{IngredientID: flour.ID, Quantity: dec("5")}}})
	require.NoError(t, err)

	_, err = svc.Receive(branch, tr.ID, nil)
	require.True(t, errors.Is(err, apperr.ErrValidation), "err = %v", err)

	_, err = svc.Ship(central, tr.ID, Shipment{})
	require.NoError(t, err)
	_, err = svc.Receive(branch, tr.ID, []Line{{IngredientID: flour.ID, Quantity: dec("7")}})
	require.True(t, errors.Is(err, apperr.ErrValidation), "over-receipt err = %v", err)

	var count int64
	require.NoError(t, db.Model(&inventoryEntity.Ingredient{}).Where("outlet_id = ?", "outlet-b").Count(&count).Error)
	assert.Zero(t, count, "failed receipt must not create target ingredients")

	tr, err = svc.Receive(branch, tr.ID, []Line{{IngredientID: flour.ID, Quantity: dec("4.5")}})
	require.NoError(t, err)
	assert.True(t, tr.Items[0].QuantityReceived.Equal(dec("4.5")))
}

func TestTransfer_Cancel(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	flour := seed(t, db, "central", "TPG", "kg", "50", "12000")

	pending, err := svc.Request(branch, Request{Items: []Line{{IngredientID: flour.ID, Quantity: dec("1")}}})
	require.NoError(t, err)
	got, err := svc.Cancel(branch, pending.ID, "tidak jadi")
	require.NoError(t, err)
	assert.Equal(t, transferEntity.StatusCancelled, got.Status)
	assert.Equal(t, "tidak jadi", got.Note)

	shipped, err := svc.Request(branch, Request{Items: []Line{{IngredientID: flour.ID, Quantity: dec("1")}}})
	require.NoError(t, err)
	_, err = svc.Ship(central, shipped.ID, Shipment{})
	require.NoError(t, err)
	_, err = svc.Cancel(central, shipped.ID, "")
	require.NoError(t, err)

	received, err := svc.Request(branch, Request{Items: []Line{{IngredientID: flour.ID, Quantity: dec("1")}}})
	require.NoError(t, err)
	_, err = svc.Ship(central, received.ID, Shipment{})
	require.NoError(t, err)
	_, err = svc.Receive(branch, received.ID, nil)
	require.NoError(t, err)
	_, err = svc.Cancel(branch, received.ID, "")
	assert.True(t, errors.Is(err, apperr.ErrValidation), "cancel received err = %v", err)
}

func TestTransfer_ScopeAndList(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	flour := seed(t, db, "central", "TPG", "kg", "50", "12000")
	tr, err := svc.Request(branch, Request{Items: []Line{{IngredientID: flour.ID, Quantity: dec("1")}}})
	require.NoError(t, err)

	other := scope.With(context.Background(), scope.Scope{OutletID: "outlet-c"})
	_, err = svc.Get(other, tr.ID)
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "err = %v", err)
	_, err = svc.Ship(other, tr.ID, Shipment{})
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "err = %v", err)

	for _, ctx := range []context.Context{branch, central} {
		list, err := svc.List(ctx, "")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	}
	list, err := svc.List(other, "")
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = svc.List(branch, transferEntity.StatusShipped)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransfer_ReceiveWithoutSKUReusesTargetIngredient(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	syrup := seed(t, db, "central", "", "liter", "40", "25000")

	cycle := func(qty string) {
		t.Helper()
		tr, err := svc.Request(branch, Request{Items: []Line{{IngredientID: syrup.ID, Quantity: dec(qty)}}})
		require.NoError(t, err)
		_, err = svc.Ship(central, tr.ID, Shipment{})
		require.NoError(t, err)
		_, err = svc.Receive(branch, tr.ID, nil)
		require.NoError(t, err)
	}
	cycle("2")
	cycle("3")

	var copies []inventoryEntity.Ingredient
	require.NoError(t, db.Where("outlet_id = ?", "outlet-b").Find(&copies).Error)
	require.Len(t, copies, 1)
	assert.True(t, copies[0].Stock.Equal(dec("5")), "stock = %s", copies[0].Stock)
	assert.Equal(t, syrup.Name, copies[0].Name)
}

func TestTransfer_ReceiveWithoutSKUMatchesNameInUnitFamily(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	syrup := seed(t, db, "central", "", "liter", "40", "25000")
	namesake := seed(t, db, "outlet-b", "", "pcs", "1", "1")
	local := seed(t, db, "outlet-b", "", "ml", "500", "25")
	require.NoError(t, db.Model(local).Update("name", "ITEM ").Error)

	tr, err := svc.Request(branch, Request{Items: []Line{{IngredientID: syrup.ID, Quantity: dec("2")}}})
	require.NoError(t, err)
	_, err = svc.Ship(central, tr.ID, Shipment{})
	require.NoError(t, err)
	_, err = svc.Receive(branch, tr.ID, nil)
	require.NoError(t, err)

	assert.True(t, reload(t, db, local.ID).Stock.Equal(dec("2500")), "ml counterpart receives the liters")
	assert.True(t, reload(t, db, namesake.ID).Stock.Equal(dec("1")), "count-unit namesake untouched")
}
