package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/negoce/backend/internal/domain/ledger"
)

// DefaultLockWait bounds how long a writer waits for a (product, warehouse)
// ledger before giving up with a conflict error.
const DefaultLockWait = 5 * time.Second

// StockGuard serializes stock mutations per (product, warehouse) pair.
// Writers touching different pairs proceed in parallel; writers on the same
// pair queue up. Waiting is bounded: a writer that cannot acquire the pair
// within the configured wait fails with ErrLockTimeout instead of blocking
// the request indefinitely.
type StockGuard struct {
	mu      sync.Mutex
	entries map[string]*guardEntry
	maxWait time.Duration
}

type guardEntry struct {
	ch   chan struct{} // capacity 1, token present when free
	refs int
}

// NewStockGuard creates a StockGuard with the given maximum wait.
func NewStockGuard(maxWait time.Duration) *StockGuard {
	if maxWait <= 0 {
		maxWait = DefaultLockWait
	}
	return &StockGuard{
		entries: make(map[string]*guardEntry),
		maxWait: maxWait,
	}
}

func guardKey(product string, warehouseID uuid.UUID) string {
	return product + "|" + warehouseID.String()
}

// Acquire locks a single (product, warehouse) pair. The returned release
// function must be called exactly once.
func (g *StockGuard) Acquire(ctx context.Context, product string, warehouseID uuid.UUID) (func(), error) {
	return g.acquireKeys(ctx, []string{guardKey(product, warehouseID)})
}

// AcquirePair locks two (product, warehouse) pairs, as needed by a transfer.
// Keys are always taken in lexicographic order so two concurrent transfers in
// opposite directions cannot deadlock.
func (g *StockGuard) AcquirePair(ctx context.Context, product string, a, b uuid.UUID) (func(), error) {
	keys := []string{guardKey(product, a), guardKey(product, b)}
	sort.Strings(keys)
	return g.acquireKeys(ctx, keys)
}

func (g *StockGuard) acquireKeys(ctx context.Context, keys []string) (func(), error) {
	deadline := time.Now().Add(g.maxWait)

	acquired := make([]string, 0, len(keys))
	release := func() {
		for i := len(acquired) - 1; i >= 0; i-- {
			g.releaseKey(acquired[i])
		}
	}

	for _, key := range keys {
		if err := g.acquireKey(ctx, key, deadline); err != nil {
			release()
			return nil, err
		}
		acquired = append(acquired, key)
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

func (g *StockGuard) acquireKey(ctx context.Context, key string, deadline time.Time) error {
	g.mu.Lock()
	entry, ok := g.entries[key]
	if !ok {
		entry = &guardEntry{ch: make(chan struct{}, 1)}
		entry.ch <- struct{}{}
		g.entries[key] = entry
	}
	entry.refs++
	g.mu.Unlock()

	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()

	select {
	case <-entry.ch:
		return nil
	case <-ctx.Done():
		g.unref(key)
		return ctx.Err()
	case <-timer.C:
		g.unref(key)
		return ledger.ErrLockTimeout
	}
}

func (g *StockGuard) releaseKey(key string) {
	g.mu.Lock()
	entry := g.entries[key]
	g.mu.Unlock()
	if entry == nil {
		return
	}
	entry.ch <- struct{}{}
	g.unref(key)
}

// unref drops a waiter/holder reference and garbage-collects idle entries so
// the map does not grow with every product ever traded.
func (g *StockGuard) unref(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	entry, ok := g.entries[key]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs <= 0 && len(entry.ch) == 1 {
		delete(g.entries, key)
	}
}
