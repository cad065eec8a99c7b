package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/negoce/backend/internal/domain/ledger"
)

// ValuationQueryService answers read-only valuation questions: current stock
// positions, lot detail, and what a sale would cost before it is recorded.
// Nothing here mutates state, so no stock guard is taken.
type ValuationQueryService struct {
	scope     TransactionScope
	valuation *ledger.ValuationService
}

// NewValuationQueryService creates a new ValuationQueryService
func NewValuationQueryService(scope TransactionScope) *ValuationQueryService {
	return &ValuationQueryService{
		scope:     scope,
		valuation: ledger.NewValuationService(),
	}
}

// StockPosition returns the quantity, value and average cost of one
// (product, warehouse) pair, with its live lots.
func (s *ValuationQueryService) StockPosition(ctx context.Context, product string, warehouseID uuid.UUID) (*StockPositionResponse, error) {
	var response *StockPositionResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, err := repos.LotRepo().FindAll(ctx, ledger.LotFilter{Product: product, WarehouseID: &warehouseID})
		if err != nil {
			return err
		}

		position := s.valuation.StockPosition(lots)
		averageCost := decimal.Zero
		if position.Quantity.IsPositive() {
			averageCost = position.Value.Div(position.Quantity).Round(ledger.CostScale)
		}

		lotResponses := make([]LotResponse, 0, len(lots))
		for i := range lots {
			if lots[i].HasStock() {
				lotResponses = append(lotResponses, ToLotResponse(&lots[i]))
			}
		}

		response = &StockPositionResponse{
			Product:     product,
			WarehouseID: warehouseID,
			Quantity:    position.Quantity,
			Value:       position.Value,
			AverageCost: averageCost,
			Lots:        lotResponses,
		}
		return nil
	})
	return response, err
}

// ListLots returns the lots matching the filter, exhausted ones included.
func (s *ValuationQueryService) ListLots(ctx context.Context, product string, warehouseID *uuid.UUID) ([]LotResponse, error) {
	var responses []LotResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, err := repos.LotRepo().FindAll(ctx, ledger.LotFilter{Product: product, WarehouseID: warehouseID})
		if err != nil {
			return err
		}
		responses = make([]LotResponse, 0, len(lots))
		for i := range lots {
			responses = append(responses, ToLotResponse(&lots[i]))
		}
		return nil
	})
	return responses, err
}

// PreviewSale computes the cost and margin a sale would have under the
// configured valuation method, without consuming anything. The same planning
// code backs the preview and the real sale, so the two cannot diverge.
func (s *ValuationQueryService) PreviewSale(ctx context.Context, req SalePreviewRequest) (*SalePreviewResponse, error) {
	var response *SalePreviewResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		settings, err := repos.SettingsRepo().Get(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ledger.ErrSettingsUnavailable, err)
		}

		lots, err := repos.LotRepo().FindAll(ctx, ledger.LotFilter{Product: req.Product, WarehouseID: &req.WarehouseID})
		if err != nil {
			return err
		}

		plan, err := s.valuation.PlanConsumption(settings.ValuationMethod, req.Product, req.WarehouseID, lots, req.Quantity)
		if err != nil {
			return err
		}

		marginPerKg := req.PricePerKg.Sub(plan.CostPerKg)
		response = &SalePreviewResponse{
			Product:     req.Product,
			WarehouseID: req.WarehouseID,
			Quantity:    req.Quantity,
			Method:      plan.Method.String(),
			CostPerKg:   plan.CostPerKg,
			TotalCost:   plan.TotalCost,
			MarginPerKg: marginPerKg,
			TotalMargin: marginPerKg.Mul(req.Quantity),
		}
		return nil
	})
	return response, err
}
