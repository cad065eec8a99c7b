package ledger

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockPosition is the aggregate quantity and value of a set of lots.
type StockPosition struct {
	Quantity decimal.Decimal
	Value    decimal.Decimal
}

// ValuationService is a stateless domain service answering valuation
// questions over an in-memory lot set. It never mutates lots; callers that
// want to consume stock apply the returned plan themselves inside their
// transactional boundary.
type ValuationService struct{}

// NewValuationService creates a new ValuationService
func NewValuationService() *ValuationService {
	return &ValuationService{}
}

// PlanConsumption plans a withdrawal of the given product from the given
// warehouse under the given valuation method. The lots are the candidate
// set for that (product, warehouse) pair.
func (s *ValuationService) PlanConsumption(
	method ValuationMethod,
	product string,
	warehouseID uuid.UUID,
	lots []Lot,
	quantity decimal.Decimal,
) (*ConsumptionPlan, error) {
	strat, err := StrategyForMethod(method)
	if err != nil {
		return nil, err
	}
	plan, err := strat.Plan(quantity, lots)
	if err != nil {
		// Strategies label the shortfall from the lots they saw; with no
		// lots at all they cannot, so fill in the request's key here.
		var shortfall *InsufficientStockError
		if errors.As(err, &shortfall) && shortfall.Product == "" {
			shortfall.Product = product
			shortfall.WarehouseID = warehouseID
		}
		return nil, err
	}
	return plan, nil
}

// StockPosition aggregates remaining quantity and value over the lots.
// The same aggregation backs both reporting and sufficiency checks so the
// two can never disagree.
func (s *ValuationService) StockPosition(lots []Lot) StockPosition {
	quantity := decimal.Zero
	value := decimal.Zero
	for _, lot := range lots {
		if lot.HasStock() {
			quantity = quantity.Add(lot.RemainingQuantity)
			value = value.Add(lot.Value())
		}
	}
	return StockPosition{Quantity: quantity, Value: value}
}

// HasSufficientStock reports whether the lots cover the requested quantity,
// along with the available total for shortfall messages.
func (s *ValuationService) HasSufficientStock(lots []Lot, quantity decimal.Decimal) (bool, decimal.Decimal) {
	position := s.StockPosition(lots)
	return position.Quantity.GreaterThanOrEqual(quantity), position.Quantity
}
