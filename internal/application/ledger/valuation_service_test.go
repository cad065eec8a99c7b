package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/negoce/backend/internal/domain/ledger"
)

func seedStock(t *testing.T, env *testEnv, warehouseID string) *ledger.Warehouse {
	t.Helper()
	warehouse := env.addWarehouse(warehouseID)
	svc := NewLedgerService(env.scope, NewStockGuard(time.Second), env.warehouses, zap.NewNop())

	for i, price := range []int64{5, 7} {
		_, err := svc.RecordPurchase(context.Background(), RecordPurchaseRequest{
			Date:        time.Date(2025, 1, 1+i, 0, 0, 0, 0, time.UTC),
			Product:     "hevea",
			WarehouseID: warehouse.ID,
			Quantity:    decimal.NewFromInt(10),
			PricePerKg:  decimal.NewFromInt(price),
		})
		require.NoError(t, err)
	}
	return warehouse
}

func TestValuationQueryService_StockPosition(t *testing.T) {
	env := newTestEnv()
	warehouse := seedStock(t, env, "ABJ")
	svc := NewValuationQueryService(env.scope)

	position, err := svc.StockPosition(context.Background(), "hevea", warehouse.ID)
	require.NoError(t, err)

	assert.True(t, position.Quantity.Equal(decimal.NewFromInt(20)))
	assert.True(t, position.Value.Equal(decimal.NewFromInt(120)))
	assert.True(t, position.AverageCost.Equal(decimal.NewFromInt(6)))
	assert.Len(t, position.Lots, 2)

	// Reading the position must not change it.
	again, err := svc.StockPosition(context.Background(), "hevea", warehouse.ID)
	require.NoError(t, err)
	assert.True(t, again.Quantity.Equal(position.Quantity))
	assert.True(t, again.Value.Equal(position.Value))
	assert.True(t, again.AverageCost.Equal(position.AverageCost))
	assert.Len(t, again.Lots, len(position.Lots))
}

func TestValuationQueryService_PreviewSale(t *testing.T) {
	env := newTestEnv()
	warehouse := seedStock(t, env, "ABJ")
	svc := NewValuationQueryService(env.scope)
	ctx := context.Background()

	t.Run("preview matches the eventual sale", func(t *testing.T) {
		preview, err := svc.PreviewSale(ctx, SalePreviewRequest{
			Product:     "hevea",
			WarehouseID: warehouse.ID,
			Quantity:    decimal.NewFromInt(15),
			PricePerKg:  decimal.NewFromInt(10),
		})
		require.NoError(t, err)

		assert.Equal(t, "FIFO", preview.Method)
		assert.True(t, preview.CostPerKg.Equal(decimal.NewFromFloat(5.6667)), "cogs %s", preview.CostPerKg)
		assert.True(t, preview.MarginPerKg.Equal(decimal.NewFromFloat(4.3333)), "margin %s", preview.MarginPerKg)

		// Preview must not consume anything
		position, err := svc.StockPosition(ctx, "hevea", warehouse.ID)
		require.NoError(t, err)
		assert.True(t, position.Quantity.Equal(decimal.NewFromInt(20)))
	})

	t.Run("preview surfaces shortfall", func(t *testing.T) {
		_, err := svc.PreviewSale(ctx, SalePreviewRequest{
			Product:     "hevea",
			WarehouseID: warehouse.ID,
			Quantity:    decimal.NewFromInt(25),
		})
		var insufficientErr *ledger.InsufficientStockError
		assert.ErrorAs(t, err, &insufficientErr)
	})

	t.Run("shortfall on a product with no lots still names the request", func(t *testing.T) {
		_, err := svc.PreviewSale(ctx, SalePreviewRequest{
			Product:     "cacao",
			WarehouseID: warehouse.ID,
			Quantity:    decimal.NewFromInt(5),
		})
		var insufficientErr *ledger.InsufficientStockError
		require.ErrorAs(t, err, &insufficientErr)
		assert.Equal(t, "cacao", insufficientErr.Product)
		assert.Equal(t, warehouse.ID, insufficientErr.WarehouseID)
	})
}

func TestSettingsService_Update(t *testing.T) {
	env := newTestEnv()
	svc := NewSettingsService(env.settings, zap.NewNop())
	ctx := context.Background()

	initial, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "FIFO", initial.ValuationMethod)
	assert.Equal(t, "FCFA", initial.DisplayCurrency)

	method := "WEIGHTED_AVERAGE"
	storageCost := decimal.NewFromFloat(0.25)
	updated, err := svc.Update(ctx, UpdateSettingsRequest{
		ValuationMethod:     &method,
		StorageCostPerKgDay: &storageCost,
	})
	require.NoError(t, err)
	assert.Equal(t, "WEIGHTED_AVERAGE", updated.ValuationMethod)
	require.NotNil(t, updated.StorageCostPerKgDay)
	assert.True(t, updated.StorageCostPerKgDay.Equal(storageCost))

	reloaded, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "WEIGHTED_AVERAGE", reloaded.ValuationMethod)

	bogus := "LIFO"
	_, err = svc.Update(ctx, UpdateSettingsRequest{ValuationMethod: &bogus})
	assert.Error(t, err)
}

func TestWarehouseService_CRUD(t *testing.T) {
	env := newTestEnv()
	svc := NewWarehouseService(env.warehouses)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateWarehouseRequest{Code: "ABJ", Name: "Abidjan", Location: "Port"})
	require.NoError(t, err)
	assert.True(t, created.Active)

	_, err = svc.Create(ctx, CreateWarehouseRequest{Code: "ABJ", Name: "Duplicate"})
	assert.Error(t, err, "duplicate code rejected")

	name := "Abidjan Nord"
	active := false
	updated, err := svc.Update(ctx, created.ID, UpdateWarehouseRequest{Name: &name, Active: &active})
	require.NoError(t, err)
	assert.Equal(t, "Abidjan Nord", updated.Name)
	assert.False(t, updated.Active)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReportingService_Dashboard(t *testing.T) {
	env := newTestEnv()
	warehouse := env.addWarehouse("ABJ")
	ledgerSvc := NewLedgerService(env.scope, NewStockGuard(time.Second), env.warehouses, zap.NewNop())
	reporting := NewReportingService(env.scope)
	ctx := context.Background()

	_, err := ledgerSvc.RecordPurchase(ctx, RecordPurchaseRequest{
		Date:               time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Product:            "hevea",
		WarehouseID:        warehouse.ID,
		Quantity:           decimal.NewFromInt(1000),
		PricePerKg:         decimal.NewFromInt(500),
		HandlingCostPerKg:  decimal.NewFromInt(30),
		TransportCostPerKg: decimal.NewFromInt(45),
		OtherCostPerKg:     decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	_, err = ledgerSvc.RecordSale(ctx, RecordSaleRequest{
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Product:     "hevea",
		WarehouseID: warehouse.ID,
		Quantity:    decimal.NewFromInt(400),
		PricePerKg:  decimal.NewFromInt(650),
	})
	require.NoError(t, err)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	dashboard, err := reporting.Dashboard(ctx, from, to)
	require.NoError(t, err)

	assert.True(t, dashboard.PurchasedQuantity.Equal(decimal.NewFromInt(1000)))
	assert.True(t, dashboard.PurchasedValue.Equal(decimal.NewFromInt(590000)))
	assert.True(t, dashboard.SoldQuantity.Equal(decimal.NewFromInt(400)))
	assert.True(t, dashboard.Revenue.Equal(decimal.NewFromInt(260000)))
	assert.True(t, dashboard.TotalMargin.Equal(decimal.NewFromInt(24000)))
	assert.True(t, dashboard.StockQuantity.Equal(decimal.NewFromInt(600)))
	assert.True(t, dashboard.StockValue.Equal(decimal.NewFromInt(354000)))
	assert.Equal(t, "FCFA", dashboard.DisplayCurrency)
	assert.Nil(t, dashboard.EstimatedStorageCost, "no storage rate configured")
}

func TestReportingService_DashboardStorageCost(t *testing.T) {
	env := newTestEnv()
	warehouse := env.addWarehouse("ABJ")
	ledgerSvc := NewLedgerService(env.scope, NewStockGuard(time.Second), env.warehouses, zap.NewNop())
	reporting := NewReportingService(env.scope)
	ctx := context.Background()

	settings, err := env.settings.Get(ctx)
	require.NoError(t, err)
	require.NoError(t, settings.SetStorageCostPerKgDay(decimal.NewFromFloat(0.5)))
	require.NoError(t, env.settings.Save(ctx, settings))

	_, err = ledgerSvc.RecordPurchase(ctx, RecordPurchaseRequest{
		Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Product:     "hevea",
		WarehouseID: warehouse.ID,
		Quantity:    decimal.NewFromInt(100),
		PricePerKg:  decimal.NewFromInt(590),
	})
	require.NoError(t, err)

	to := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	dashboard, err := reporting.Dashboard(ctx, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), to)
	require.NoError(t, err)

	// 100 kg held 10 days at 0.5 per kg-day
	require.NotNil(t, dashboard.EstimatedStorageCost)
	assert.True(t, dashboard.EstimatedStorageCost.Equal(decimal.NewFromInt(500)), "storage cost %s", dashboard.EstimatedStorageCost)
}

func TestReportingService_InventoryReport(t *testing.T) {
	env := newTestEnv()
	warehouse := seedStock(t, env, "ABJ")
	reporting := NewReportingService(env.scope)

	lines, err := reporting.InventoryReport(context.Background())
	require.NoError(t, err)
	require.Len(t, lines, 1)

	line := lines[0]
	assert.Equal(t, "hevea", line.Product)
	assert.Equal(t, warehouse.ID, line.WarehouseID)
	assert.True(t, line.Quantity.Equal(decimal.NewFromInt(20)))
	assert.True(t, line.Value.Equal(decimal.NewFromInt(120)))
	assert.True(t, line.AverageCost.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, 2, line.LotCount)
	require.NotNil(t, line.OldestEntry)
	assert.True(t, line.OldestEntry.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}
