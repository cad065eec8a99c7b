package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/negoce/backend/internal/domain/ledger"
)

// RecordPurchaseRequest represents a request to record a purchase operation
type RecordPurchaseRequest struct {
	Date               time.Time       `json:"date" binding:"required"`
	Product            string          `json:"product" binding:"required"`
	WarehouseID        uuid.UUID       `json:"warehouse_id" binding:"required"`
	Counterparty       string          `json:"counterparty"`
	Quantity           decimal.Decimal `json:"quantity" binding:"required"`
	PricePerKg         decimal.Decimal `json:"price_per_kg" binding:"required"`
	HandlingCostPerKg  decimal.Decimal `json:"handling_cost_per_kg"`
	TransportCostPerKg decimal.Decimal `json:"transport_cost_per_kg"`
	OtherCostPerKg     decimal.Decimal `json:"other_cost_per_kg"`
	Reference          string          `json:"reference"`
	Notes              string          `json:"notes"`
}

// RecordSaleRequest represents a request to record a sale operation
type RecordSaleRequest struct {
	Date         time.Time       `json:"date" binding:"required"`
	Product      string          `json:"product" binding:"required"`
	WarehouseID  uuid.UUID       `json:"warehouse_id" binding:"required"`
	Counterparty string          `json:"counterparty"`
	Quantity     decimal.Decimal `json:"quantity" binding:"required"`
	PricePerKg   decimal.Decimal `json:"price_per_kg" binding:"required"`
	Reference    string          `json:"reference"`
	Notes        string          `json:"notes"`
}

// RecordTransferRequest represents a request to move stock between warehouses
type RecordTransferRequest struct {
	Date              time.Time       `json:"date" binding:"required"`
	Product           string          `json:"product" binding:"required"`
	SourceWarehouseID uuid.UUID       `json:"source_warehouse_id" binding:"required"`
	TargetWarehouseID uuid.UUID       `json:"target_warehouse_id" binding:"required"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required"`
	Note              string          `json:"note"`
}

// RecordAdjustmentRequest represents a manual stock correction. A negative
// quantity records a loss, a positive one records found stock.
type RecordAdjustmentRequest struct {
	Date        time.Time       `json:"date" binding:"required"`
	Product     string          `json:"product" binding:"required"`
	WarehouseID uuid.UUID       `json:"warehouse_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Reason      string          `json:"reason" binding:"required,min=1,max=255"`
}

// OperationResponse represents an operation in API responses
type OperationResponse struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	Date          time.Time       `json:"date"`
	Product       string          `json:"product"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	Counterparty  string          `json:"counterparty,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	PricePerKg    decimal.Decimal `json:"price_per_kg"`
	TotalUnitCost decimal.Decimal `json:"total_unit_cost,omitempty"`
	CostPerKg     decimal.Decimal `json:"cost_per_kg,omitempty"`
	MarginPerKg   decimal.Decimal `json:"margin_per_kg,omitempty"`
	TotalMargin   decimal.Decimal `json:"total_margin,omitempty"`
	Revenue       decimal.Decimal `json:"revenue,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovementResponse represents an audit-trail movement in API responses
type MovementResponse struct {
	ID                uuid.UUID       `json:"id"`
	Type              string          `json:"type"`
	Date              time.Time       `json:"date"`
	Product           string          `json:"product"`
	SourceWarehouseID *uuid.UUID      `json:"source_warehouse_id,omitempty"`
	TargetWarehouseID *uuid.UUID      `json:"target_warehouse_id,omitempty"`
	Quantity          decimal.Decimal `json:"quantity"`
	UnitCost          *decimal.Decimal `json:"unit_cost,omitempty"`
	OperationID       *uuid.UUID      `json:"operation_id,omitempty"`
	Note              string          `json:"note,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
}

// LotResponse represents a stock lot in API responses
type LotResponse struct {
	ID                uuid.UUID       `json:"id"`
	Product           string          `json:"product"`
	WarehouseID       uuid.UUID       `json:"warehouse_id"`
	EntryDate         time.Time       `json:"entry_date"`
	InitialQuantity   decimal.Decimal `json:"initial_quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	UnitCost          decimal.Decimal `json:"unit_cost"`
	Value             decimal.Decimal `json:"value"`
	Supplier          string          `json:"supplier,omitempty"`
	Reference         string          `json:"reference,omitempty"`
}

// OperationListFilter represents filter options for operation lists
type OperationListFilter struct {
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	Product     string     `form:"product"`
	WarehouseID *uuid.UUID `form:"warehouse_id"`
	Type        string     `form:"type" binding:"omitempty,oneof=purchase sale"`
	Page        int        `form:"page" binding:"min=0"`
	PageSize    int        `form:"page_size" binding:"min=0,max=100"`
}

// MovementListFilter represents filter options for movement lists
type MovementListFilter struct {
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
	Product     string     `form:"product"`
	WarehouseID *uuid.UUID `form:"warehouse_id"`
	Type        string     `form:"type" binding:"omitempty,oneof=entry exit transfer adjustment"`
	Page        int        `form:"page" binding:"min=0"`
	PageSize    int        `form:"page_size" binding:"min=0,max=100"`
}

// StockPositionResponse represents the valuation of one (product, warehouse) pair
type StockPositionResponse struct {
	Product     string          `json:"product"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
	AverageCost decimal.Decimal `json:"average_cost"`
	Lots        []LotResponse   `json:"lots,omitempty"`
}

// SalePreviewRequest asks what a sale would cost without recording it
type SalePreviewRequest struct {
	Product     string          `form:"product" binding:"required"`
	WarehouseID uuid.UUID       `form:"warehouse_id" binding:"required"`
	Quantity    decimal.Decimal `form:"quantity" binding:"required"`
	PricePerKg  decimal.Decimal `form:"price_per_kg"`
}

// SalePreviewResponse carries the projected cost and margin of a sale
type SalePreviewResponse struct {
	Product     string          `json:"product"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Method      string          `json:"method"`
	CostPerKg   decimal.Decimal `json:"cost_per_kg"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	MarginPerKg decimal.Decimal `json:"margin_per_kg"`
	TotalMargin decimal.Decimal `json:"total_margin"`
}

// ToOperationResponse converts a domain operation to a response DTO
func ToOperationResponse(op *ledger.Operation) OperationResponse {
	return OperationResponse{
		ID:            op.ID,
		Type:          op.Type.String(),
		Date:          op.Date,
		Product:       op.Product,
		WarehouseID:   op.WarehouseID,
		Counterparty:  op.Counterparty,
		Quantity:      op.Quantity,
		PricePerKg:    op.UnitPrice,
		TotalUnitCost: op.TotalUnitCost,
		CostPerKg:     op.CogsPerKg,
		MarginPerKg:   op.MarginPerKg,
		TotalMargin:   op.TotalMargin,
		Revenue:       op.Revenue,
		Reference:     op.Reference,
		Notes:         op.Notes,
		CreatedAt:     op.CreatedAt,
	}
}

// ToMovementResponse converts a domain movement to a response DTO
func ToMovementResponse(m *ledger.Movement) MovementResponse {
	resp := MovementResponse{
		ID:                m.ID,
		Type:              m.Type.String(),
		Date:              m.Date,
		Product:           m.Product,
		SourceWarehouseID: m.SourceWarehouseID,
		TargetWarehouseID: m.TargetWarehouseID,
		Quantity:          m.Quantity,
		OperationID:       m.OperationID,
		Note:              m.Note,
		CreatedAt:         m.CreatedAt,
	}
	if m.UnitCost.Valid {
		cost := m.UnitCost.Decimal
		resp.UnitCost = &cost
	}
	return resp
}

// ToLotResponse converts a domain lot to a response DTO
func ToLotResponse(lot *ledger.Lot) LotResponse {
	return LotResponse{
		ID:                lot.ID,
		Product:           lot.Product,
		WarehouseID:       lot.WarehouseID,
		EntryDate:         lot.EntryDate,
		InitialQuantity:   lot.InitialQuantity,
		RemainingQuantity: lot.RemainingQuantity,
		UnitCost:          lot.UnitCost,
		Value:             lot.Value(),
		Supplier:          lot.Supplier,
		Reference:         lot.Reference,
	}
}

func (f OperationListFilter) toDomain() ledger.OperationFilter {
	page, pageSize := normalizePage(f.Page, f.PageSize)
	return ledger.OperationFilter{
		From:        f.From,
		To:          f.To,
		Product:     f.Product,
		WarehouseID: f.WarehouseID,
		Type:        ledger.OperationType(f.Type),
		Page:        page,
		PageSize:    pageSize,
	}
}

func (f MovementListFilter) toDomain() ledger.MovementFilter {
	page, pageSize := normalizePage(f.Page, f.PageSize)
	return ledger.MovementFilter{
		From:        f.From,
		To:          f.To,
		Product:     f.Product,
		WarehouseID: f.WarehouseID,
		Type:        ledger.MovementType(f.Type),
		Page:        page,
		PageSize:    pageSize,
	}
}

func normalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}
