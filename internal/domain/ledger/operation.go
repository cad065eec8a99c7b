package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/negoce/backend/internal/domain/shared"
)

// OperationType discriminates purchases from sales
type OperationType string

const (
	OperationTypePurchase OperationType = "purchase"
	OperationTypeSale     OperationType = "sale"
)

// IsValid checks if the operation type is valid
func (t OperationType) IsValid() bool {
	return t == OperationTypePurchase || t == OperationTypeSale
}

// String returns the string representation
func (t OperationType) String() string {
	return string(t)
}

// Operation is a business-level purchase or sale record. It carries the raw
// per-kg inputs and the financial figures computed at creation time. Computed
// figures are frozen: a later change to lot costs or valuation mode never
// alters a committed operation.
type Operation struct {
	shared.BaseEntity
	Type         OperationType
	Date         time.Time
	Product      string
	WarehouseID  uuid.UUID
	Counterparty string // purchase point or sale point

	Quantity           decimal.Decimal
	UnitPrice          decimal.Decimal // purchase or sale price per kg
	HandlingCostPerKg  decimal.Decimal
	TransportCostPerKg decimal.Decimal
	OtherCostPerKg     decimal.Decimal

	// Purchase: full landed cost per kg
	TotalUnitCost decimal.Decimal

	// Sale: cost basis and margin, frozen from the consumption plan
	CogsPerKg   decimal.Decimal
	MarginPerKg decimal.Decimal
	TotalMargin decimal.Decimal
	Revenue     decimal.Decimal

	Reference string // delivery note or invoice number
	Notes     string
}

// NewPurchaseOperation creates a purchase with its landed cost computed as
// unit price + handling + transport + other, all per kg.
func NewPurchaseOperation(
	date time.Time,
	product string,
	warehouseID uuid.UUID,
	counterparty string,
	quantity decimal.Decimal,
	unitPrice, handlingCost, transportCost, otherCost decimal.Decimal,
) (*Operation, error) {
	if product == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Operation product is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() || handlingCost.IsNegative() || transportCost.IsNegative() || otherCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Purchase cost components cannot be negative")
	}

	totalUnitCost := unitPrice.Add(handlingCost).Add(transportCost).Add(otherCost)

	return &Operation{
		BaseEntity:         shared.NewBaseEntity(),
		Type:               OperationTypePurchase,
		Date:               date,
		Product:            product,
		WarehouseID:        warehouseID,
		Counterparty:       counterparty,
		Quantity:           quantity,
		UnitPrice:          unitPrice,
		HandlingCostPerKg:  handlingCost,
		TransportCostPerKg: transportCost,
		OtherCostPerKg:     otherCost,
		TotalUnitCost:      totalUnitCost,
	}, nil
}

// NewSaleOperation creates a sale with margin figures derived from the
// consumption plan's cost per kg. A sale priced below cost yields a negative
// margin and is still a valid operation.
func NewSaleOperation(
	date time.Time,
	product string,
	warehouseID uuid.UUID,
	counterparty string,
	quantity decimal.Decimal,
	salePricePerKg decimal.Decimal,
	cogsPerKg decimal.Decimal,
) (*Operation, error) {
	if product == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Operation product is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidQuantity
	}
	if salePricePerKg.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Sale price cannot be negative")
	}

	marginPerKg := salePricePerKg.Sub(cogsPerKg)

	return &Operation{
		BaseEntity:   shared.NewBaseEntity(),
		Type:         OperationTypeSale,
		Date:         date,
		Product:      product,
		WarehouseID:  warehouseID,
		Counterparty: counterparty,
		Quantity:     quantity,
		UnitPrice:    salePricePerKg,
		CogsPerKg:    cogsPerKg,
		MarginPerKg:  marginPerKg,
		TotalMargin:  marginPerKg.Mul(quantity),
		Revenue:      salePricePerKg.Mul(quantity),
	}, nil
}

// WithDetails attaches the paper trail of the operation.
func (o *Operation) WithDetails(reference, notes string) *Operation {
	o.Reference = reference
	o.Notes = notes
	return o
}

// IsPurchase returns true for purchase operations
func (o *Operation) IsPurchase() bool {
	return o.Type == OperationTypePurchase
}

// IsSale returns true for sale operations
func (o *Operation) IsSale() bool {
	return o.Type == OperationTypeSale
}
