package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/negoce/backend/internal/domain/shared"
)

// LotFilter narrows lot queries. Nil/empty fields match everything.
type LotFilter struct {
	Product     string
	WarehouseID *uuid.UUID
}

// OperationFilter narrows operation queries.
type OperationFilter struct {
	From        *time.Time
	To          *time.Time
	Product     string
	WarehouseID *uuid.UUID
	Type        OperationType
	Page        int
	PageSize    int
}

// MovementFilter narrows movement queries.
type MovementFilter struct {
	From        *time.Time
	To          *time.Time
	Product     string
	WarehouseID *uuid.UUID
	Type        MovementType
	Page        int
	PageSize    int
}

// LotRepository persists lots. Reads return lots regardless of remaining
// quantity; callers filter for positive stock as needed.
type LotRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Lot, error)
	FindAll(ctx context.Context, filter LotFilter) ([]Lot, error)
	// FindForUpdate reads the lots of a (product, warehouse) pair with a
	// write intent; transactional implementations take row locks here.
	FindForUpdate(ctx context.Context, product string, warehouseID uuid.UUID) ([]Lot, error)
	Save(ctx context.Context, lot *Lot) error
	SaveAll(ctx context.Context, lots []*Lot) error
}

// OperationRepository persists operations. Operations are immutable after
// creation; Delete exists as an administrative correction only and does not
// restore consumed stock.
type OperationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Operation, error)
	FindAll(ctx context.Context, filter OperationFilter) ([]Operation, error)
	Count(ctx context.Context, filter OperationFilter) (int64, error)
	Save(ctx context.Context, operation *Operation) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MovementRepository is append-only: movements are never updated or deleted.
type MovementRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Movement, error)
	FindAll(ctx context.Context, filter MovementFilter) ([]Movement, error)
	Save(ctx context.Context, movement *Movement) error
}

// SettingsRepository persists the singleton valuation settings.
type SettingsRepository interface {
	// Get returns the settings, initializing defaults on first use.
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}

// WarehouseRepository persists warehouses.
type WarehouseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Warehouse, error)
	FindByCode(ctx context.Context, code string) (*Warehouse, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Warehouse, error)
	Save(ctx context.Context, warehouse *Warehouse) error
}
