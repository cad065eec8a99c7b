package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/negoce/backend/internal/application/ledger"
)

// StockHandler handles stock position and lot query endpoints
type StockHandler struct {
	BaseHandler
	valuationService *ledgerapp.ValuationQueryService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(valuationService *ledgerapp.ValuationQueryService) *StockHandler {
	return &StockHandler{valuationService: valuationService}
}

// Position godoc
// @ID           getStockPosition
// @Summary      Get stock position
// @Description  Returns the quantity, value and average cost of one (product, warehouse) pair with its live lots
// @Tags         stock
// @Produce      json
// @Param        product      query string true "Product name"
// @Param        warehouse_id query string true "Warehouse ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /stock/position [get]
func (h *StockHandler) Position(c *gin.Context) {
	product := c.Query("product")
	if product == "" {
		h.BadRequest(c, "Product is required")
		return
	}

	warehouseID, err := uuid.Parse(c.Query("warehouse_id"))
	if err != nil {
		h.BadRequest(c, "Invalid warehouse ID format")
		return
	}

	position, err := h.valuationService.StockPosition(c.Request.Context(), product, warehouseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, position)
}

// ListLots godoc
// @ID           listLots
// @Summary      List lots
// @Description  Returns lots oldest entry first, optionally narrowed to a product and warehouse
// @Tags         stock
// @Produce      json
// @Param        product      query string false "Product name"
// @Param        warehouse_id query string false "Warehouse ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /stock/lots [get]
func (h *StockHandler) ListLots(c *gin.Context) {
	product := c.Query("product")

	var warehouseID *uuid.UUID
	if raw := c.Query("warehouse_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid warehouse ID format")
			return
		}
		warehouseID = &id
	}

	lots, err := h.valuationService.ListLots(c.Request.Context(), product, warehouseID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lots)
}
