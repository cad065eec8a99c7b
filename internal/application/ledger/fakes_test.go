package ledger

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/negoce/backend/internal/domain/ledger"
	"github.com/negoce/backend/internal/domain/shared"
)

// In-memory repositories backing the service tests. They are safe for
// concurrent use so the guard tests can hammer them from multiple goroutines.

type fakeLotRepo struct {
	mu   sync.Mutex
	lots map[uuid.UUID]ledger.Lot
}

func newFakeLotRepo() *fakeLotRepo {
	return &fakeLotRepo{lots: make(map[uuid.UUID]ledger.Lot)}
}

func (r *fakeLotRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Lot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lot, ok := r.lots[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &lot, nil
}

func (r *fakeLotRepo) FindAll(_ context.Context, filter ledger.LotFilter) ([]ledger.Lot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.match(filter), nil
}

func (r *fakeLotRepo) FindForUpdate(_ context.Context, product string, warehouseID uuid.UUID) ([]ledger.Lot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.match(ledger.LotFilter{Product: product, WarehouseID: &warehouseID}), nil
}

func (r *fakeLotRepo) match(filter ledger.LotFilter) []ledger.Lot {
	out := make([]ledger.Lot, 0)
	for _, lot := range r.lots {
		if filter.Product != "" && lot.Product != filter.Product {
			continue
		}
		if filter.WarehouseID != nil && lot.WarehouseID != *filter.WarehouseID {
			continue
		}
		out = append(out, lot)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.Before(out[j].EntryDate)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (r *fakeLotRepo) Save(_ context.Context, lot *ledger.Lot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lots[lot.ID] = *lot
	return nil
}

func (r *fakeLotRepo) SaveAll(ctx context.Context, lots []*ledger.Lot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, lot := range lots {
		r.lots[lot.ID] = *lot
	}
	return nil
}

type fakeOperationRepo struct {
	mu         sync.Mutex
	operations map[uuid.UUID]ledger.Operation
}

func newFakeOperationRepo() *fakeOperationRepo {
	return &fakeOperationRepo{operations: make(map[uuid.UUID]ledger.Operation)}
}

func (r *fakeOperationRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	op, ok := r.operations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &op, nil
}

func (r *fakeOperationRepo) FindAll(_ context.Context, filter ledger.OperationFilter) ([]ledger.Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ledger.Operation, 0)
	for _, op := range r.operations {
		if !matchesOperation(op, filter) {
			continue
		}
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *fakeOperationRepo) Count(ctx context.Context, filter ledger.OperationFilter) (int64, error) {
	ops, err := r.FindAll(ctx, filter)
	return int64(len(ops)), err
}

func matchesOperation(op ledger.Operation, filter ledger.OperationFilter) bool {
	if filter.Product != "" && op.Product != filter.Product {
		return false
	}
	if filter.WarehouseID != nil && op.WarehouseID != *filter.WarehouseID {
		return false
	}
	if filter.Type != "" && op.Type != filter.Type {
		return false
	}
	if filter.From != nil && op.Date.Before(*filter.From) {
		return false
	}
	if filter.To != nil && op.Date.After(*filter.To) {
		return false
	}
	return true
}

func (r *fakeOperationRepo) Save(_ context.Context, op *ledger.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations[op.ID] = *op
	return nil
}

func (r *fakeOperationRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.operations[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.operations, id)
	return nil
}

type fakeMovementRepo struct {
	mu        sync.Mutex
	movements []ledger.Movement
}

func newFakeMovementRepo() *fakeMovementRepo {
	return &fakeMovementRepo{}
}

func (r *fakeMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.movements {
		if r.movements[i].ID == id {
			m := r.movements[i]
			return &m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeMovementRepo) FindAll(_ context.Context, filter ledger.MovementFilter) ([]ledger.Movement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ledger.Movement, 0)
	for _, m := range r.movements {
		if filter.Product != "" && m.Product != filter.Product {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *fakeMovementRepo) Save(_ context.Context, m *ledger.Movement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.movements = append(r.movements, *m)
	return nil
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings *ledger.Settings
	getErr   error
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{}
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*ledger.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.settings == nil {
		r.settings = ledger.DefaultSettings()
	}
	s := *r.settings
	return &s, nil
}

func (r *fakeSettingsRepo) Save(_ context.Context, settings *ledger.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := *settings
	r.settings = &s
	return nil
}

type fakeWarehouseRepo struct {
	mu         sync.Mutex
	warehouses map[uuid.UUID]ledger.Warehouse
}

func newFakeWarehouseRepo() *fakeWarehouseRepo {
	return &fakeWarehouseRepo{warehouses: make(map[uuid.UUID]ledger.Warehouse)}
}

func (r *fakeWarehouseRepo) FindByID(_ context.Context, id uuid.UUID) (*ledger.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.warehouses[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &w, nil
}

func (r *fakeWarehouseRepo) FindByCode(_ context.Context, code string) (*ledger.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.warehouses {
		if w.Code == code {
			found := w
			return &found, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeWarehouseRepo) FindAll(_ context.Context, _ shared.Filter) ([]ledger.Warehouse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ledger.Warehouse, 0, len(r.warehouses))
	for _, w := range r.warehouses {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *fakeWarehouseRepo) Save(_ context.Context, w *ledger.Warehouse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warehouses[w.ID] = *w
	return nil
}

// testEnv bundles the fakes behind a NoOpTransactionScope.
type testEnv struct {
	lots       *fakeLotRepo
	operations *fakeOperationRepo
	movements  *fakeMovementRepo
	settings   *fakeSettingsRepo
	warehouses *fakeWarehouseRepo
	scope      *NoOpTransactionScope
}

func newTestEnv() *testEnv {
	env := &testEnv{
		lots:       newFakeLotRepo(),
		operations: newFakeOperationRepo(),
		movements:  newFakeMovementRepo(),
		settings:   newFakeSettingsRepo(),
		warehouses: newFakeWarehouseRepo(),
	}
	env.scope = NewNoOpTransactionScope(env.lots, env.operations, env.movements, env.settings)
	return env
}

func (env *testEnv) addWarehouse(code string) *ledger.Warehouse {
	w, err := ledger.NewWarehouse(code, "Depot "+code, "")
	if err != nil {
		panic(err)
	}
	if err := env.warehouses.Save(context.Background(), w); err != nil {
		panic(err)
	}
	return w
}
