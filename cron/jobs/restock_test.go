package jobs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backoffice.GO/config"
	"backoffice.GO/cron"
	"backoffice.GO/internal/testdb"
	inventoryEntity "backoffice.GO/model/entity/inventory"
	purchaseEntity "backoffice.GO/model/entity/purchase"
)

func TestAutoRestock_Registered(t *testing.T) {
	j, ok := cron.Jobs()[config.JobAutoRestock]
	require.True(t, ok, "autorestock not registered")
	assert.Equal(t, "0 6 * * *", j.Schedule)
}

func TestAutoRestock_OutletArgs(t *testing.T) {
	db := testdb.Open(t)
	for _, outlet := range []string{"central", "outlet-b", "outlet-c"} {
		require.NoError(t, db.Create(&inventoryEntity.Ingredient{
			ID:         uuid.NewString(),
			OutletID:   outlet,
			Name:       "Gula",
			Unit:       "kg",
			Type:       inventoryEntity.TypeRaw,
			SupplierID: "sup-a",
			Stock:      decimal.Zero,
			MinStock:   decimal.NewFromInt(2),
			AvgCost:    decimal.NewFromInt(14000),
		}).Error)
	}

	env := cron.Env{DB: db, Log: zap.NewNop()}
	require.NoError(t, cron.RunJob(context.Background(), env, config.JobAutoRestock, "outlet-b", "outlet-c"))

	var orders []purchaseEntity.PurchaseOrder
	require.NoError(t, db.Order("outlet_id").Find(&orders).Error)
	require.Len(t, orders, 2)
	assert.Equal(t, "outlet-b", orders[0].OutletID)
	assert.Equal(t, "outlet-c", orders[1].OutletID)
	assert.Equal(t, config.JobAutoRestock, orders[0].History[0].Actor)
	assert.True(t, orders[0].Items[0].Quantity.Equal(decimal.NewFromInt(6)))
}
