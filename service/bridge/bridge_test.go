package bridge

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"backoffice.GO/core/apperr"
	"backoffice.GO/core/scope"
	"backoffice.GO/internal/testdb"
	accountingEntity "backoffice.GO/model/entity/accounting"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	payrollEntity "backoffice.GO/model/entity/payroll"
	purchaseEntity "backoffice.GO/model/entity/purchase"
	salesEntity "backoffice.GO/model/entity/sales"
	salesRepo "backoffice.GO/model/repository/sales"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var ctx = scope.With(context.Background(), scope.Scope{OutletID: "central", Actor: "kasir-1"})

func seed(t *testing.T, db *gorm.DB, name, unit, stock string) *inventoryEntity.Ingredient {
	t.Helper()
	ing := &inventoryEntity.Ingredient{
		ID:       uuid.NewString(),
		OutletID: "central",
		Name:     name,
		Unit:     unit,
		Type:     inventoryEntity.TypeRaw,
		Stock:    dec(stock),
		AvgCost:  dec("1000"),
	}
	require.NoError(t, db.Create(ing).Error)
	return ing
}

func stockOf(t *testing.T, db *gorm.DB, id string) decimal.Decimal {
	t.Helper()
	var ing inventoryEntity.Ingredient
	require.NoError(t, db.First(&ing, "id = ?", id).Error)
	return ing.Stock
}

func balanceOf(t *testing.T, db *gorm.DB, code string) decimal.Decimal {
	t.Helper()
	var acc accountingEntity.Account
	require.NoError(t, db.First(&acc, "id = ?", code).Error)
	return acc.Balance
}

// Two lattes with 150 ml of milk each take 0.3 liter off a liter-stocked milk.
func TestSettleSale_RecipeConversion(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	milk := seed(t, db, "Susu", "liter", "5")
	beans := seed(t, db, "Kopi", "kg", "2")
	cups := seed(t, db, "Cup", "pcs", "100")

	o, err := svc.SettleSale(ctx, &salesEntity.SalesOrder{
		PaymentStatus: salesEntity.PaymentPaid,
		Lines: []salesEntity.Line{
			salesEntity.RecipeLine{
				ProductID: "latte",
				Name:      "Cafe Latte",
				Quantity:  dec("2"),
				UnitPrice: dec("25000"),
				Recipe: []inventoryEntity.RecipeLine{
					{ComponentID: milk.ID, Quantity: dec("150"), Unit: "ml"},
					{ComponentID: beans.ID, Quantity: dec("18"), Unit: "gram"},
				},
			},
			salesEntity.StockLine{IngredientID: cups.ID, Quantity: dec("2"), UnitPrice: dec("0")},
		},
	})
	require.NoError(t, err)
	assert.True(t, o.Total.Equal(dec("50000")), "total = %s", o.Total)
	assert.Equal(t, "central", o.OutletID)
	assert.Equal(t, "kasir-1", o.Actor)

	assert.True(t, stockOf(t, db, milk.ID).Equal(dec("4.7")), "milk = %s", stockOf(t, db, milk.ID))
	assert.True(t, stockOf(t, db, beans.ID).Equal(dec("1.964")), "beans = %s", stockOf(t, db, beans.ID))
	assert.True(t, stockOf(t, db, cups.ID).Equal(dec("98")))

	assert.True(t, balanceOf(t, db, accountingEntity.CodeCash).Equal(dec("50000")))
	assert.True(t, balanceOf(t, db, accountingEntity.CodeSalesRevenue).Equal(dec("50000")))

	var moves []inventoryEntity.StockMovement
	require.NoError(t, db.Where("reference_id = ?", o.ID).Find(&moves).Error)
	assert.Len(t, moves, 3)
	for _, m := range moves {
		assert.Equal(t, inventoryEntity.MovementSale, m.Type)
		assert.True(t, m.QuantityChange.IsNegative())
	}

	stored, err := salesRepo.NewOrderRepository(db).FindByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
	rl, ok := stored.Lines[0].(salesEntity.RecipeLine)
	require.True(t, ok, "first line is %T", stored.Lines[0])
	assert.Len(t, rl.Recipe, 2)
	_, ok = stored.Lines[1].(salesEntity.StockLine)
	assert.True(t, ok, "second line is %T", stored.Lines[1])
}

func TestSettleSale_UnpaidSkipsLedger(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	cups := seed(t, db, "Cup", "pcs", "1")

	o, err := svc.SettleSale(ctx, &salesEntity.SalesOrder{
		Lines: []salesEntity.Line{salesEntity.StockLine{IngredientID: cups.ID, Quantity: dec("3"), UnitPrice: dec("500")}},
	})
	require.NoError(t, err)
	assert.Equal(t, salesEntity.PaymentUnpaid, o.PaymentStatus)

	// no negative guard on the sale path
	assert.True(t, stockOf(t, db, cups.ID).Equal(dec("-2")))

	var entries int64
	require.NoError(t, db.Model(&accountingEntity.LedgerEntry{}).Count(&entries).Error)
	assert.Zero(t, entries)
}

func TestSettleSale_RollsBackOnFailure(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	milk := seed(t, db, "Susu", "liter", "5")
	flour := seed(t, db, "Tepung", "kg", "5")

	cases := []struct {
		name string
		line salesEntity.Line
		want error
	}{
		{"unknown ingredient", salesEntity.StockLine{IngredientID: "ghost", Quantity: dec("1"), UnitPrice: dec("1")}, apperr.ErrNotFound},
		{"incompatible recipe unit", salesEntity.RecipeLine{
			ProductID: "roti",
			Quantity:  dec("1"),
			UnitPrice: dec("1"),
			Recipe:    []inventoryEntity.RecipeLine{{ComponentID: flour.ID, Quantity: dec("100"), Unit: "ml"}},
		}, apperr.ErrIncompatibleUnit},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SettleSale(ctx, &salesEntity.SalesOrder{
				PaymentStatus: salesEntity.PaymentPaid,
				Lines: []salesEntity.Line{
					salesEntity.StockLine{IngredientID: milk.ID, Quantity: dec("1"), UnitPrice: dec("10000")},
					tc.line,
				},
			})
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			assert.True(t, stockOf(t, db, milk.ID).Equal(dec("5")), "milk must be untouched")
			assert.True(t, stockOf(t, db, flour.ID).Equal(dec("5")), "flour must be untouched")
			assert.True(t, balanceOf(t, db, accountingEntity.CodeCash).IsZero())
			var orders int64
			require.NoError(t, db.Model(&salesEntity.SalesOrder{}).Count(&orders).Error)
			assert.Zero(t, orders)
		})
	}
}

func TestSettleSale_Validation(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	cups := seed(t, db, "Cup", "pcs", "1")

	cases := []struct {
		name  string
		order *salesEntity.SalesOrder
	}{
		{"no lines", &salesEntity.SalesOrder{}},
		{"zero quantity", &salesEntity.SalesOrder{Lines: []salesEntity.Line{salesEntity.StockLine{IngredientID: cups.ID, Quantity: dec("0")}}}},
		{"missing ingredient", &salesEntity.SalesOrder{Lines: []salesEntity.Line{salesEntity.StockLine{Quantity: dec("1")}}}},
		{"bad payment status", &salesEntity.SalesOrder{PaymentStatus: "later", Lines: []salesEntity.Line{salesEntity.StockLine{IngredientID: cups.ID, Quantity: dec("1")}}}},
		{"unknown persisted kind", &salesEntity.SalesOrder{LineData: []salesEntity.LineRecord{{Kind: "combo", Quantity: dec("1")}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SettleSale(ctx, tc.order)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("err = %v, want validation error", err)
			}
		})
	}
}

func TestSettleSale_FromRecords(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	cups := seed(t, db, "Cup", "pcs", "10")

	o, err := svc.SettleSale(ctx, &salesEntity.SalesOrder{
		PaymentStatus:    salesEntity.PaymentPaid,
		PaymentAccountID: accountingEntity.CodeBank,
		LineData: []salesEntity.LineRecord{
			{Kind: salesEntity.KindStock, IngredientID: cups.ID, Quantity: dec("4"), UnitPrice: dec("2500")},
		},
	})
	require.NoError(t, err)
	assert.True(t, o.Total.Equal(dec("10000")))
	assert.True(t, stockOf(t, db, cups.ID).Equal(dec("6")))
	assert.True(t, balanceOf(t, db, accountingEntity.CodeBank).Equal(dec("10000")))
	assert.True(t, balanceOf(t, db, accountingEntity.CodeCash).IsZero())
}

func seedPayroll(t *testing.T, db *gorm.DB, net string) *payrollEntity.Payroll {
	t.Helper()
	p := &payrollEntity.Payroll{
		ID:           uuid.NewString(),
		EmployeeName: "Siti",
		Period:       "2024-05",
		NetSalary:    dec(net),
		Status:       payrollEntity.StatusPending,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestSettlePayroll(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	p := seedPayroll(t, db, "4500000")

	got, err := svc.SettlePayroll(ctx, p.ID, purchaseEntity.MethodTransfer)
	require.NoError(t, err)
	assert.Equal(t, payrollEntity.StatusPaid, got.Status)
	assert.Equal(t, "kasir-1", got.PaidBy)
	assert.Equal(t, "transfer", got.PaymentMethod)
	require.NotNil(t, got.PaidAt)

	assert.True(t, balanceOf(t, db, accountingEntity.CodeBank).Equal(dec("-4500000")))
	assert.True(t, balanceOf(t, db, accountingEntity.CodeSalaryExpense).Equal(dec("4500000")))

	var entries []accountingEntity.LedgerEntry
	require.NoError(t, db.Where("reference_type = ? AND reference_id = ?", accountingEntity.RefPayroll, p.ID).Find(&entries).Error)
	assert.Len(t, entries, 2)

	_, err = svc.SettlePayroll(ctx, p.ID, purchaseEntity.MethodCash)
	assert.True(t, errors.Is(err, apperr.ErrValidation), "second payment err = %v", err)
	assert.True(t, balanceOf(t, db, accountingEntity.CodeCash).IsZero())
}

func TestSettlePayroll_Errors(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	p := seedPayroll(t, db, "100")

	_, err := svc.SettlePayroll(ctx, p.ID, purchaseEntity.MethodTempo)
	assert.True(t, errors.Is(err, apperr.ErrValidation), "tempo err = %v", err)

	_, err = svc.SettlePayroll(ctx, "ghost", purchaseEntity.MethodCash)
	assert.True(t, errors.Is(err, apperr.ErrNotFound), "unknown err = %v", err)
}

func TestSettleSale_ConcurrentSalesDeductAdditively(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	cups := seed(t, db, "Cup", "pcs", "100")

	const sales = 20
	var wg sync.WaitGroup
	errs := make(chan error, sales)
	for i := 0; i < sales; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SettleSale(ctx, &salesEntity.SalesOrder{
				Lines: []salesEntity.Line{salesEntity.StockLine{IngredientID: cups.ID, Quantity: dec("1"), UnitPrice: dec("500")}},
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.True(t, stockOf(t, db, cups.ID).Equal(dec("80")), "stock = %s", stockOf(t, db, cups.ID))
	var movements int64
	require.NoError(t, db.Model(&inventoryEntity.StockMovement{}).
		Where("ingredient_id = ? AND type = ?", cups.ID, inventoryEntity.MovementSale).
		Count(&movements).Error)
	assert.EqualValues(t, sales, movements)
}

func TestSettleSale_OtherOutletIngredient(t *testing.T) {
	db := testdb.Open(t)
	svc := NewService(db)
	branchMilk := &inventoryEntity.Ingredient{
		ID: uuid.NewString(), OutletID: "outlet-b", Name: "Susu", Unit: "liter",
		Type: inventoryEntity.TypeRaw, Stock: dec("5"),
	}
	require.NoError(t, db.Create(branchMilk).Error)

	_, err := svc.SettleSale(ctx, &salesEntity.SalesOrder{
		Lines: []salesEntity.Line{salesEntity.StockLine{IngredientID: branchMilk.ID, Quantity: dec("1")}},
	})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.True(t, stockOf(t, db, branchMilk.ID).Equal(dec("5")))

	_, err = svc.SettleSale(ctx, &salesEntity.SalesOrder{
		Lines: []salesEntity.Line{salesEntity.RecipeLine{
			ProductID: "susu-segar", Quantity: dec("1"),
			Recipe: []inventoryEntity.RecipeLine{{ComponentID: branchMilk.ID, Quantity: dec("200"), Unit: "ml"}},
		}},
	})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.True(t, stockOf(t, db, branchMilk.ID).Equal(dec("5")))

	o, err := svc.SettleSale(scope.With(context.Background(), scope.Scope{OutletID: "outlet-b"}), &salesEntity.SalesOrder{
		Lines: []salesEntity.Line{salesEntity.StockLine{IngredientID: branchMilk.ID, Quantity: dec("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "outlet-b", o.OutletID)
	assert.True(t, stockOf(t, db, branchMilk.ID).Equal(dec("4")))
}
