package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	ledgerapp "github.com/negoce/backend/internal/application/ledger"
)

// OperationHandler handles purchase and sale ledger endpoints
type OperationHandler struct {
	BaseHandler
	ledgerService    *ledgerapp.LedgerService
	valuationService *ledgerapp.ValuationQueryService
}

// NewOperationHandler creates a new OperationHandler
func NewOperationHandler(ledgerService *ledgerapp.LedgerService, valuationService *ledgerapp.ValuationQueryService) *OperationHandler {
	return &OperationHandler{
		ledgerService:    ledgerService,
		valuationService: valuationService,
	}
}

// RecordPurchase godoc
// @ID           recordPurchase
// @Summary      Record a purchase
// @Description  Records a purchase operation, creates the backing lot and entry movement atomically
// @Tags         operations
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.RecordPurchaseRequest true "Purchase details"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /operations/purchases [post]
func (h *OperationHandler) RecordPurchase(c *gin.Context) {
	var req ledgerapp.RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	operation, err := h.ledgerService.RecordPurchase(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, operation)
}

// RecordSale godoc
// @ID           recordSale
// @Summary      Record a sale
// @Description  Consumes stock under the configured valuation method and records COGS and margin
// @Tags         operations
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.RecordSaleRequest true "Sale details"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Failure      503 {object} dto.Response
// @Router       /operations/sales [post]
func (h *OperationHandler) RecordSale(c *gin.Context) {
	var req ledgerapp.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	operation, err := h.ledgerService.RecordSale(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, operation)
}

// PreviewSale godoc
// @ID           previewSale
// @Summary      Preview a sale
// @Description  Computes the cost and margin a sale would produce without recording anything
// @Tags         operations
// @Produce      json
// @Param        product      query string true  "Product name"
// @Param        warehouse_id query string true  "Warehouse ID" format(uuid)
// @Param        quantity     query number true  "Quantity in kg"
// @Param        price_per_kg query number false "Sale price per kg"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /operations/sales/preview [get]
func (h *OperationHandler) PreviewSale(c *gin.Context) {
	var req ledgerapp.SalePreviewRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	preview, err := h.valuationService.PreviewSale(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, preview)
}

// List godoc
// @ID           listOperations
// @Summary      List operations
// @Description  Returns a paginated operation history, newest first
// @Tags         operations
// @Produce      json
// @Param        from         query string false "Start date (YYYY-MM-DD)"
// @Param        to           query string false "End date (YYYY-MM-DD)"
// @Param        product      query string false "Product name"
// @Param        warehouse_id query string false "Warehouse ID" format(uuid)
// @Param        type         query string false "Operation type" Enums(purchase, sale)
// @Param        page         query int    false "Page number" default(1)
// @Param        page_size    query int    false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /operations [get]
func (h *OperationHandler) List(c *gin.Context) {
	var filter ledgerapp.OperationListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	operations, total, err := h.ledgerService.ListOperations(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, operations, total, filter.Page, filter.PageSize)
}

// GetByID godoc
// @ID           getOperationById
// @Summary      Get operation by ID
// @Tags         operations
// @Produce      json
// @Param        id path string true "Operation ID" format(uuid)
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /operations/{id} [get]
func (h *OperationHandler) GetByID(c *gin.Context) {
	operationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid operation ID format")
		return
	}

	operation, err := h.ledgerService.GetOperation(c.Request.Context(), operationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, operation)
}

// Delete godoc
// @ID           deleteOperation
// @Summary      Delete an operation
// @Description  Removes an operation record. Stock already consumed or created by it stays as is.
// @Tags         operations
// @Produce      json
// @Param        id path string true "Operation ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /operations/{id} [delete]
func (h *OperationHandler) Delete(c *gin.Context) {
	operationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid operation ID format")
		return
	}

	if err := h.ledgerService.DeleteOperation(c.Request.Context(), operationID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
