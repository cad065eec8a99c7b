package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/negoce/backend/internal/application/ledger"
)

// MovementHandler handles the audit trail and the stock mutations that are
// not operations: transfers and manual adjustments.
type MovementHandler struct {
	BaseHandler
	ledgerService *ledgerapp.LedgerService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(ledgerService *ledgerapp.LedgerService) *MovementHandler {
	return &MovementHandler{ledgerService: ledgerService}
}

// List godoc
// @ID           listMovements
// @Summary      List movements
// @Description  Returns the append-only audit trail, newest first
// @Tags         movements
// @Produce      json
// @Param        from         query string false "Start date (YYYY-MM-DD)"
// @Param        to           query string false "End date (YYYY-MM-DD)"
// @Param        product      query string false "Product name"
// @Param        warehouse_id query string false "Warehouse ID (source or target)" format(uuid)
// @Param        type         query string false "Movement type" Enums(entry, exit, transfer, adjustment)
// @Param        page         query int    false "Page number" default(1)
// @Param        page_size    query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /movements [get]
func (h *MovementHandler) List(c *gin.Context) {
	var filter ledgerapp.MovementListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	movements, err := h.ledgerService.ListMovements(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, movements)
}

// RecordTransfer godoc
// @ID           recordTransfer
// @Summary      Transfer stock between warehouses
// @Description  Consumes stock at the source under the configured valuation method and books it at the target at the blended cost
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.RecordTransferRequest true "Transfer details"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /movements/transfers [post]
func (h *MovementHandler) RecordTransfer(c *gin.Context) {
	var req ledgerapp.RecordTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	movement, err := h.ledgerService.RecordTransfer(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, movement)
}

// RecordAdjustment godoc
// @ID           recordAdjustment
// @Summary      Adjust stock manually
// @Description  Records found stock (positive quantity) or a loss (negative quantity) with a mandatory reason
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.RecordAdjustmentRequest true "Adjustment details"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /movements/adjustments [post]
func (h *MovementHandler) RecordAdjustment(c *gin.Context) {
	var req ledgerapp.RecordAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	movement, err := h.ledgerService.RecordAdjustment(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, movement)
}
