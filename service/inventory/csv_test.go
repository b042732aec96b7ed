package inventory

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backoffice.GO/core/apperr"
	"backoffice.GO/core/scope"
	inventoryEntity "backoffice.GO/model/entity/inventory"
)

func TestExportCSV(t *testing.T) {
	svc, db := newService(t)
	seedIngredient(t, db, inventoryEntity.Ingredient{ID: "i-1", Name: `Saus "Pedas", Extra`, SKU: "SP-1", Category: "Saus", Unit: "ml", Stock: dec("750"), MinStock: dec("200"), AvgCost: dec("12.5")})

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(context.Background(), &buf))

	want := "ID,Name,SKU,Category,Stock,Unit,MinStock,AvgCost\n" +
		`i-1,"Saus ""Pedas"", Extra",SP-1,Saus,750,ml,200,12.5` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestCSV_RoundTripKeepsStockAndCost(t *testing.T) {
	svc, db := newService(t)
	ctx := scope.With(context.Background(), scope.Scope{OutletID: "central"})
	a := seedIngredient(t, db, inventoryEntity.Ingredient{Name: "Gula", SKU: "GL-1", Unit: "kg", Stock: dec("12.75"), MinStock: dec("5"), AvgCost: dec("14250.5")})
	b := seedIngredient(t, db, inventoryEntity.Ingredient{Name: "Kopi", SKU: "KP-1", Unit: "gram", Stock: dec("0"), AvgCost: dec("0")})

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, &buf))

	res, err := svc.ImportCSV(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalRows)
	assert.Equal(t, 2, res.Updated)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 0, res.Skipped)

	for _, before := range []*inventoryEntity.Ingredient{a, b} {
		after := reload(t, db, before.ID)
		requireDec(t, before.Stock.String(), after.Stock, before.Name+" stock")
		requireDec(t, before.AvgCost.String(), after.AvgCost, before.Name+" avgCost")
	}
	history, err := svc.GetIngredientHistory(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, history, "unchanged rows should not leave history")
}

func TestImportCSV_UpsertAndSkip(t *testing.T) {
	svc, db := newService(t)
	ctx := scope.With(context.Background(), scope.Scope{OutletID: "central", Actor: "admin"})
	existing := seedIngredient(t, db, inventoryEntity.Ingredient{Name: "Gula", SKU: "GL-1", Unit: "kg", Stock: dec("1"), AvgCost: dec("10000")})

	input := strings.Join([]string{
		"ID,Name,SKU,Category,Stock,Unit,MinStock,AvgCost",
		`,"Gula",GL-1,,4,kg,1,12000`,
		`,"Teh Celup",TH-1,Minuman,50,pcs,10,500`,
		`,"Rusak",RS-1,,-3,pcs,0,1`,
		`,"Tanpa Satuan",TS-1,,1,,0,1`,
		`,"Angka Salah",AS-1,,abc,pcs,0,1`,
		`,,NN-1,,1,pcs,0,1`,
		`,"Satuan Aneh",SA-1,,1,porsi,0,1`,
	}, "\n") + "\n"

	res, err := svc.ImportCSV(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 7, res.TotalRows)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 5, res.Skipped)
	require.Len(t, res.RowErrors, 5)
	assert.Equal(t, 4, res.RowErrors[0].Line)

	after := reload(t, db, existing.ID)
	requireDec(t, "4", after.Stock, "stock")
	requireDec(t, "12000", after.AvgCost, "avgCost")

	var tea inventoryEntity.Ingredient
	require.NoError(t, db.First(&tea, "sku = ?", "TH-1").Error)
	assert.Equal(t, "central", tea.OutletID)
	requireDec(t, "50", tea.Stock, "new stock")

	history, err := svc.GetIngredientHistory(ctx, existing.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	requireDec(t, "3", history[0].QuantityChange, "import correction")
}

func TestImportCSV_RequiresSKUColumn(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.ImportCSV(context.Background(), strings.NewReader("Name,Stock\nGula,1\n"))
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestParseRow(t *testing.T) {
	row, err := ParseRow(map[string]string{
		"id": " x ", "name": "Gula", "sku": "GL-1", "category": "Kering",
		"stock": " 1.25 ", "unit": "KG", "minstock": "", "avgcost": "100",
	})
	require.NoError(t, err)
	assert.Equal(t, "x", row.ID)
	assert.Equal(t, "kg", row.Unit)
	requireDec(t, "1.25", row.Stock, "stock")
	requireDec(t, "0", row.MinStock, "minStock")

	_, err = ParseRow(map[string]string{"name": "Gula", "sku": "GL-1", "unit": "kg", "stock": "-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock")
}
