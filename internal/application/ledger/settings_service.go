package ledger

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/negoce/backend/internal/domain/ledger"
)

// SettingsResponse represents the valuation settings in API responses
type SettingsResponse struct {
	ValuationMethod     string           `json:"valuation_method"`
	DisplayCurrency     string           `json:"display_currency"`
	StorageCostPerKgDay *decimal.Decimal `json:"storage_cost_per_kg_day,omitempty"`
}

// UpdateSettingsRequest represents a request to change the valuation settings
type UpdateSettingsRequest struct {
	ValuationMethod     *string          `json:"valuation_method" binding:"omitempty,oneof=FIFO WEIGHTED_AVERAGE"`
	DisplayCurrency     *string          `json:"display_currency"`
	StorageCostPerKgDay *decimal.Decimal `json:"storage_cost_per_kg_day"`
}

// SettingsService reads and updates the process-wide valuation settings.
type SettingsService struct {
	settingsRepo ledger.SettingsRepository
	logger       *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(settingsRepo ledger.SettingsRepository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{settingsRepo: settingsRepo, logger: logger}
}

// Get returns the current settings, initializing defaults on first use.
func (s *SettingsService) Get(ctx context.Context) (*SettingsResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

// Update applies the requested changes. A valuation method switch takes
// effect for operations computed afterwards; committed operations keep their
// frozen figures.
func (s *SettingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.ValuationMethod != nil {
		previous := settings.ValuationMethod
		if err := settings.SetValuationMethod(ledger.ValuationMethod(*req.ValuationMethod)); err != nil {
			return nil, err
		}
		if previous != settings.ValuationMethod {
			s.logger.Info("valuation method switched",
				zap.String("from", previous.String()),
				zap.String("to", settings.ValuationMethod.String()))
		}
	}
	if req.DisplayCurrency != nil {
		if err := settings.SetDisplayCurrency(*req.DisplayCurrency); err != nil {
			return nil, err
		}
	}
	if req.StorageCostPerKgDay != nil {
		if err := settings.SetStorageCostPerKgDay(*req.StorageCostPerKgDay); err != nil {
			return nil, err
		}
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}
	return toSettingsResponse(settings), nil
}

func toSettingsResponse(settings *ledger.Settings) *SettingsResponse {
	resp := &SettingsResponse{
		ValuationMethod: settings.ValuationMethod.String(),
		DisplayCurrency: settings.DisplayCurrency,
	}
	if settings.StorageCostPerKgDay.Valid {
		cost := settings.StorageCostPerKgDay.Decimal
		resp.StorageCostPerKgDay = &cost
	}
	return resp
}
