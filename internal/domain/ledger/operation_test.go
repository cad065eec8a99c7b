package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPurchaseOperation(t *testing.T) {
	warehouseID := uuid.New()
	date := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("landed cost is the sum of all per-kg components", func(t *testing.T) {
		op, err := NewPurchaseOperation(
			date, "hevea", warehouseID, "Plantation Sud",
			decimal.NewFromInt(1000),
			decimal.NewFromInt(500),
			decimal.NewFromInt(30),
			decimal.NewFromInt(45),
			decimal.NewFromInt(15),
		)
		require.NoError(t, err)

		assert.Equal(t, OperationTypePurchase, op.Type)
		assert.True(t, op.TotalUnitCost.Equal(decimal.NewFromInt(590)))
		assert.True(t, op.IsPurchase())
		assert.False(t, op.IsSale())
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := NewPurchaseOperation(
			date, "hevea", warehouseID, "",
			decimal.Zero,
			decimal.NewFromInt(500), decimal.Zero, decimal.Zero, decimal.Zero,
		)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("negative cost component rejected", func(t *testing.T) {
		_, err := NewPurchaseOperation(
			date, "hevea", warehouseID, "",
			decimal.NewFromInt(100),
			decimal.NewFromInt(500), decimal.NewFromInt(-1), decimal.Zero, decimal.Zero,
		)
		assert.Error(t, err)
	})
}

func TestNewSaleOperation(t *testing.T) {
	warehouseID := uuid.New()
	date := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)

	t.Run("margin figures frozen at creation", func(t *testing.T) {
		op, err := NewSaleOperation(
			date, "hevea", warehouseID, "Port Abidjan",
			decimal.NewFromInt(400),
			decimal.NewFromInt(650),
			decimal.NewFromInt(590),
		)
		require.NoError(t, err)

		assert.Equal(t, OperationTypeSale, op.Type)
		assert.True(t, op.MarginPerKg.Equal(decimal.NewFromInt(60)), "margin per kg %s", op.MarginPerKg)
		assert.True(t, op.TotalMargin.Equal(decimal.NewFromInt(24000)), "total margin %s", op.TotalMargin)
		assert.True(t, op.Revenue.Equal(decimal.NewFromInt(260000)), "revenue %s", op.Revenue)
	})

	t.Run("negative margin is a valid outcome", func(t *testing.T) {
		op, err := NewSaleOperation(
			date, "hevea", warehouseID, "",
			decimal.NewFromInt(100),
			decimal.NewFromInt(500),
			decimal.NewFromInt(590),
		)
		require.NoError(t, err)
		assert.True(t, op.MarginPerKg.Equal(decimal.NewFromInt(-90)))
		assert.True(t, op.TotalMargin.Equal(decimal.NewFromInt(-9000)))
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := NewSaleOperation(
			date, "hevea", warehouseID, "",
			decimal.Zero, decimal.NewFromInt(650), decimal.NewFromInt(590),
		)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("empty product rejected", func(t *testing.T) {
		_, err := NewSaleOperation(
			date, "", warehouseID, "",
			decimal.NewFromInt(10), decimal.NewFromInt(650), decimal.NewFromInt(590),
		)
		assert.Error(t, err)
	})
}
