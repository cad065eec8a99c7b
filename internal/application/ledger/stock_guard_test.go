package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/negoce/backend/internal/domain/ledger"
)

func TestStockGuard_SerializesSameKey(t *testing.T) {
	guard := NewStockGuard(time.Second)
	warehouseID := uuid.New()
	ctx := context.Background()

	release, err := guard.Acquire(ctx, "hevea", warehouseID)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r, err := guard.Acquire(ctx, "hevea", warehouseID)
		assert.NoError(t, err)
		close(acquired)
		r()
	}()

	select {
	case <-acquired:
		t.Fatal("second writer acquired while the first still holds the pair")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second writer never acquired after release")
	}
}

func TestStockGuard_IndependentKeysDoNotBlock(t *testing.T) {
	guard := NewStockGuard(time.Second)
	ctx := context.Background()

	releaseA, err := guard.Acquire(ctx, "hevea", uuid.New())
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := guard.Acquire(ctx, "hevea", uuid.New())
	require.NoError(t, err)
	releaseB()

	releaseC, err := guard.Acquire(ctx, "cacao", uuid.New())
	require.NoError(t, err)
	releaseC()
}

func TestStockGuard_BoundedWait(t *testing.T) {
	guard := NewStockGuard(50 * time.Millisecond)
	warehouseID := uuid.New()
	ctx := context.Background()

	release, err := guard.Acquire(ctx, "hevea", warehouseID)
	require.NoError(t, err)
	defer release()

	_, err = guard.Acquire(ctx, "hevea", warehouseID)
	assert.ErrorIs(t, err, ledger.ErrLockTimeout)
}

func TestStockGuard_ContextCancellation(t *testing.T) {
	guard := NewStockGuard(time.Minute)
	warehouseID := uuid.New()

	release, err := guard.Acquire(context.Background(), "hevea", warehouseID)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = guard.Acquire(ctx, "hevea", warehouseID)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStockGuard_OpposingTransfersDoNotDeadlock(t *testing.T) {
	guard := NewStockGuard(2 * time.Second)
	a := uuid.New()
	b := uuid.New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release, err := guard.AcquirePair(ctx, "hevea", a, b)
			assert.NoError(t, err)
			release()
		}()
		go func() {
			defer wg.Done()
			release, err := guard.AcquirePair(ctx, "hevea", b, a)
			assert.NoError(t, err)
			release()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("opposing transfers deadlocked")
	}
}

func TestStockGuard_ReleaseIsIdempotent(t *testing.T) {
	guard := NewStockGuard(time.Second)
	warehouseID := uuid.New()
	ctx := context.Background()

	release, err := guard.Acquire(ctx, "hevea", warehouseID)
	require.NoError(t, err)
	release()
	release()

	again, err := guard.Acquire(ctx, "hevea", warehouseID)
	require.NoError(t, err)
	again()
}

// Concurrent sales on the same pair must serialize through the guard so that
// total consumption never exceeds available stock.
func TestLedgerService_ConcurrentSalesSerialize(t *testing.T) {
	env := newTestEnv()
	svc := NewLedgerService(env.scope, NewStockGuard(5*time.Second), env.warehouses, zap.NewNop())
	warehouse := env.addWarehouse("ABJ")
	ctx := context.Background()

	_, err := svc.RecordPurchase(ctx, RecordPurchaseRequest{
		Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Product:     "hevea",
		WarehouseID: warehouse.ID,
		Quantity:    decimal.NewFromInt(100),
		PricePerKg:  decimal.NewFromInt(590),
	})
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RecordSale(ctx, RecordSaleRequest{
				Date:        time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
				Product:     "hevea",
				WarehouseID: warehouse.ID,
				Quantity:    decimal.NewFromInt(15),
				PricePerKg:  decimal.NewFromInt(650),
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				var insufficientErr *ledger.InsufficientStockError
				assert.ErrorAs(t, err, &insufficientErr)
			}
		}()
	}
	wg.Wait()

	// 100 kg serves exactly 6 sales of 15 kg
	assert.Equal(t, 6, succeeded)

	lots, err := env.lots.FindForUpdate(ctx, "hevea", warehouse.ID)
	require.NoError(t, err)
	require.Len(t, lots, 1)
	assert.True(t, lots[0].RemainingQuantity.Equal(decimal.NewFromInt(10)), "remaining %s", lots[0].RemainingQuantity)
}
