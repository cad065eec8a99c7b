package handler

import (
	"github.com/gin-gonic/gin"

	ledgerapp "github.com/negoce/backend/internal/application/ledger"
)

// SettingsHandler handles valuation settings endpoints
type SettingsHandler struct {
	BaseHandler
	settingsService *ledgerapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *ledgerapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get godoc
// @ID           getSettings
// @Summary      Get valuation settings
// @Tags         settings
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, settings)
}

// Update godoc
// @ID           updateSettings
// @Summary      Update valuation settings
// @Description  Switches the valuation method, display currency or storage cost rate. The method switch applies to subsequent consumptions only.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Param        request body ledgerapp.UpdateSettingsRequest true "Settings update request"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response
// @Router       /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req ledgerapp.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, settings)
}
