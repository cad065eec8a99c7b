package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	ledgerapp "github.com/negoce/backend/internal/application/ledger"
)

// ReportHandler handles dashboard and inventory report endpoints
type ReportHandler struct {
	BaseHandler
	reportingService *ledgerapp.ReportingService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportingService *ledgerapp.ReportingService) *ReportHandler {
	return &ReportHandler{reportingService: reportingService}
}

const dateLayout = "2006-01-02"

// Dashboard godoc
// @ID           getDashboard
// @Summary      Get dashboard figures
// @Description  Aggregates purchases, sales, margin and current stock valuation over a date range. Defaults to the last 30 days.
// @Tags         reports
// @Produce      json
// @Param        from query string false "Start date (YYYY-MM-DD)"
// @Param        to   query string false "End date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.BadRequest(c, "Invalid to date, expected YYYY-MM-DD")
			return
		}
		// Include the whole end day
		to = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	if to.Before(from) {
		h.BadRequest(c, "End date is before start date")
		return
	}

	dashboard, err := h.reportingService.Dashboard(c.Request.Context(), from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, dashboard)
}

// Inventory godoc
// @ID           getInventoryReport
// @Summary      Get inventory report
// @Description  Returns one line per (product, warehouse) pair with quantity, value and average cost
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /reports/inventory [get]
func (h *ReportHandler) Inventory(c *gin.Context) {
	lines, err := h.reportingService.InventoryReport(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lines)
}
