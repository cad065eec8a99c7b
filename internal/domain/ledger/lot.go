package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/negoce/backend/internal/domain/shared"
)

// Lot represents a single arrival batch of a product into a warehouse.
// The unit cost is fixed at creation; the remaining quantity only ever
// decreases after creation.
type Lot struct {
	shared.BaseEntity
	Product           string
	WarehouseID       uuid.UUID
	EntryDate         time.Time
	InitialQuantity   decimal.Decimal
	RemainingQuantity decimal.Decimal
	UnitCost          decimal.Decimal
	Supplier          string
	Reference         string
	Notes             string
}

// NewLot creates a new lot with remaining quantity equal to the initial quantity.
func NewLot(
	product string,
	warehouseID uuid.UUID,
	entryDate time.Time,
	quantity decimal.Decimal,
	unitCost decimal.Decimal,
) (*Lot, error) {
	if product == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Lot product is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidQuantity
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Lot unit cost cannot be negative")
	}
	return &Lot{
		BaseEntity:        shared.NewBaseEntity(),
		Product:           product,
		WarehouseID:       warehouseID,
		EntryDate:         entryDate,
		InitialQuantity:   quantity,
		RemainingQuantity: quantity,
		UnitCost:          unitCost,
	}, nil
}

// WithProvenance attaches supplier/reference/notes metadata to the lot.
func (l *Lot) WithProvenance(supplier, reference, notes string) *Lot {
	l.Supplier = supplier
	l.Reference = reference
	l.Notes = notes
	return l
}

// HasStock returns true if the lot still has available quantity.
func (l *Lot) HasStock() bool {
	return l.RemainingQuantity.GreaterThan(decimal.Zero)
}

// Value returns the remaining quantity valued at the lot's unit cost.
func (l *Lot) Value() decimal.Decimal {
	return l.RemainingQuantity.Mul(l.UnitCost)
}

// Deduct reduces the remaining quantity by exactly the given amount.
// Unlike a best-effort drain, a deduction that would drive the lot
// negative is rejected so the non-negativity invariant holds at the
// entity level, not just at the planning level.
func (l *Lot) Deduct(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}
	if quantity.GreaterThan(l.RemainingQuantity) {
		return &InsufficientStockError{
			Product:     l.Product,
			WarehouseID: l.WarehouseID,
			Requested:   quantity,
			Available:   l.RemainingQuantity,
		}
	}
	l.RemainingQuantity = l.RemainingQuantity.Sub(quantity)
	l.Touch()
	return nil
}
