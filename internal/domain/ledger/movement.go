package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/negoce/backend/internal/domain/shared"
)

// MovementType classifies audit-trail entries
type MovementType string

const (
	MovementTypeEntry      MovementType = "entry"
	MovementTypeExit       MovementType = "exit"
	MovementTypeTransfer   MovementType = "transfer"
	MovementTypeAdjustment MovementType = "adjustment"
)

// IsValid checks if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeEntry, MovementTypeExit, MovementTypeTransfer, MovementTypeAdjustment:
		return true
	}
	return false
}

// String returns the string representation
func (t MovementType) String() string {
	return string(t)
}

// Movement is an immutable audit-trail entry for stock entering, leaving,
// transferring between warehouses, or being manually adjusted. Movements are
// append-only: the engine never mutates or deletes one.
type Movement struct {
	shared.BaseEntity
	Type              MovementType
	Date              time.Time
	Product           string
	SourceWarehouseID *uuid.UUID
	TargetWarehouseID *uuid.UUID
	Quantity          decimal.Decimal
	UnitCost          decimal.NullDecimal
	OperationID       *uuid.UUID
	Note              string
}

// NewMovement creates a movement and enforces the per-type quantity rules:
// entry/exit/transfer quantities are strictly positive; an adjustment may be
// negative (a recorded loss) but never zero.
func NewMovement(
	movementType MovementType,
	date time.Time,
	product string,
	sourceWarehouseID, targetWarehouseID *uuid.UUID,
	quantity decimal.Decimal,
) (*Movement, error) {
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown movement type")
	}
	if product == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Movement product is required")
	}

	switch movementType {
	case MovementTypeEntry:
		if targetWarehouseID == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Entry movement requires a target warehouse")
		}
		if quantity.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidQuantity
		}
	case MovementTypeExit:
		if sourceWarehouseID == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Exit movement requires a source warehouse")
		}
		if quantity.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidQuantity
		}
	case MovementTypeTransfer:
		if sourceWarehouseID == nil || targetWarehouseID == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Transfer movement requires source and target warehouses")
		}
		if *sourceWarehouseID == *targetWarehouseID {
			return nil, shared.NewDomainError("INVALID_INPUT", "Transfer source and target warehouses must differ")
		}
		if quantity.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidQuantity
		}
	case MovementTypeAdjustment:
		if sourceWarehouseID == nil && targetWarehouseID == nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Adjustment movement requires a warehouse")
		}
		if quantity.IsZero() {
			return nil, ErrInvalidQuantity
		}
	}

	return &Movement{
		BaseEntity:        shared.NewBaseEntity(),
		Type:              movementType,
		Date:              date,
		Product:           product,
		SourceWarehouseID: sourceWarehouseID,
		TargetWarehouseID: targetWarehouseID,
		Quantity:          quantity,
	}, nil
}

// WithUnitCost attaches the unit cost carried by the moved stock.
func (m *Movement) WithUnitCost(unitCost decimal.Decimal) *Movement {
	m.UnitCost = decimal.NullDecimal{Decimal: unitCost, Valid: true}
	return m
}

// WithOperation links the movement to its originating operation.
func (m *Movement) WithOperation(operationID uuid.UUID) *Movement {
	m.OperationID = &operationID
	return m
}

// WithNote attaches a free-text note.
func (m *Movement) WithNote(note string) *Movement {
	m.Note = note
	return m
}
