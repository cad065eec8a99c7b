package ledger

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/negoce/backend/internal/domain/shared"
	"github.com/negoce/backend/internal/domain/shared/strategy"
)

// CostScale is the number of decimal places kept on per-kg cost figures.
const CostScale = 4

// QuantityScale is the number of decimal places kept on allocated quantities.
const QuantityScale = 3

// LotAllocation is one line of a consumption plan: how much to take from
// which lot, at that lot's unit cost.
type LotAllocation struct {
	LotID    uuid.UUID
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// ConsumptionPlan is the full allocation satisfying a requested withdrawal.
// Allocation quantities always sum to exactly the requested quantity; the
// plan mutates nothing by itself.
type ConsumptionPlan struct {
	Method      ValuationMethod
	Allocations []LotAllocation
	Quantity    decimal.Decimal
	TotalCost   decimal.Decimal
	CostPerKg   decimal.Decimal
}

// ConsumptionStrategy plans how a requested quantity is drawn from the
// available lots of one (product, warehouse) pair.
type ConsumptionStrategy interface {
	strategy.Strategy
	// Method returns the valuation method implemented by this strategy
	Method() ValuationMethod
	// Plan returns a consumption plan for the requested quantity, or an
	// InsufficientStockError carrying the exact shortfall
	Plan(requested decimal.Decimal, lots []Lot) (*ConsumptionPlan, error)
}

// StrategyForMethod returns the consumption strategy for a valuation method.
func StrategyForMethod(method ValuationMethod) (ConsumptionStrategy, error) {
	switch method {
	case ValuationMethodFIFO:
		return NewFIFOConsumptionStrategy(), nil
	case ValuationMethodWeightedAverage:
		return NewWeightedAverageConsumptionStrategy(), nil
	default:
		return nil, shared.NewDomainError("INVALID_STRATEGY", "Unknown valuation method: "+method.String())
	}
}

// FIFOConsumptionStrategy drains the oldest lots first.
type FIFOConsumptionStrategy struct {
	strategy.BaseStrategy
}

// NewFIFOConsumptionStrategy creates a new FIFO consumption strategy
func NewFIFOConsumptionStrategy() *FIFOConsumptionStrategy {
	return &FIFOConsumptionStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"fifo",
			"First-In-First-Out consumption - oldest lots drained first",
		),
	}
}

// Method returns the valuation method
func (s *FIFOConsumptionStrategy) Method() ValuationMethod {
	return ValuationMethodFIFO
}

// Plan greedily takes min(remaining, still needed) from each lot in entry
// order until the request is satisfied.
func (s *FIFOConsumptionStrategy) Plan(requested decimal.Decimal, lots []Lot) (*ConsumptionPlan, error) {
	candidates, err := availableCandidates(requested, lots)
	if err != nil {
		return nil, err
	}

	remaining := requested
	totalCost := decimal.Zero
	allocations := make([]LotAllocation, 0, len(candidates))

	for _, lot := range candidates {
		if remaining.IsZero() {
			break
		}
		take := decimal.Min(remaining, lot.RemainingQuantity)
		allocations = append(allocations, LotAllocation{
			LotID:    lot.ID,
			Quantity: take,
			UnitCost: lot.UnitCost,
		})
		totalCost = totalCost.Add(take.Mul(lot.UnitCost))
		remaining = remaining.Sub(take)
	}

	return &ConsumptionPlan{
		Method:      ValuationMethodFIFO,
		Allocations: allocations,
		Quantity:    requested,
		TotalCost:   totalCost,
		CostPerKg:   totalCost.Div(requested).Round(CostScale),
	}, nil
}

// WeightedAverageConsumptionStrategy treats all stock as fungible: the cost
// per kg is the quantity-weighted average over every available lot, and the
// draw is spread across all lots proportionally to their remaining quantity.
type WeightedAverageConsumptionStrategy struct {
	strategy.BaseStrategy
}

// NewWeightedAverageConsumptionStrategy creates a new weighted-average strategy
func NewWeightedAverageConsumptionStrategy() *WeightedAverageConsumptionStrategy {
	return &WeightedAverageConsumptionStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"weighted_average",
			"Weighted-average consumption - proportional draw across all lots",
		),
	}
}

// Method returns the valuation method
func (s *WeightedAverageConsumptionStrategy) Method() ValuationMethod {
	return ValuationMethodWeightedAverage
}

// Plan allocates proportionally from every available lot. Per-lot takes are
// truncated to QuantityScale and the residual is assigned to the last lot in
// iteration order, so the allocations sum to exactly the requested quantity
// on every run. The canonical cost figure is avg = total value / total
// available; TotalCost is avg * requested, never the sum of per-lot products.
func (s *WeightedAverageConsumptionStrategy) Plan(requested decimal.Decimal, lots []Lot) (*ConsumptionPlan, error) {
	candidates, err := availableCandidates(requested, lots)
	if err != nil {
		return nil, err
	}

	totalAvailable := decimal.Zero
	totalValue := decimal.Zero
	for _, lot := range candidates {
		totalAvailable = totalAvailable.Add(lot.RemainingQuantity)
		totalValue = totalValue.Add(lot.RemainingQuantity.Mul(lot.UnitCost))
	}

	avgCost := totalValue.Div(totalAvailable).Round(CostScale)

	allocations := make([]LotAllocation, len(candidates))
	allocated := decimal.Zero
	for i, lot := range candidates {
		var take decimal.Decimal
		if i == len(candidates)-1 {
			take = requested.Sub(allocated)
		} else {
			take = requested.Mul(lot.RemainingQuantity).Div(totalAvailable).RoundDown(QuantityScale)
		}
		allocations[i] = LotAllocation{
			LotID:    lot.ID,
			Quantity: take,
			UnitCost: lot.UnitCost,
		}
		allocated = allocated.Add(take)
	}

	// Truncation under-allocates the earlier lots, so the last lot absorbs
	// the residual; when the draw is close to the full stock that residual
	// can exceed what the last lot holds. Push any overflow back onto
	// earlier lots that still have headroom.
	for i := len(allocations) - 1; i > 0; i-- {
		overflow := allocations[i].Quantity.Sub(candidates[i].RemainingQuantity)
		if overflow.LessThanOrEqual(decimal.Zero) {
			break
		}
		allocations[i].Quantity = candidates[i].RemainingQuantity
		allocations[i-1].Quantity = allocations[i-1].Quantity.Add(overflow)
	}

	return &ConsumptionPlan{
		Method:      ValuationMethodWeightedAverage,
		Allocations: allocations,
		Quantity:    requested,
		TotalCost:   avgCost.Mul(requested),
		CostPerKg:   avgCost,
	}, nil
}

// availableCandidates validates the request, filters lots with positive
// remaining quantity, sorts them deterministically (entry date ascending,
// ties broken by lot id), and verifies sufficiency.
func availableCandidates(requested decimal.Decimal, lots []Lot) ([]Lot, error) {
	if requested.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidQuantity
	}

	candidates := make([]Lot, 0, len(lots))
	available := decimal.Zero
	for _, lot := range lots {
		if lot.HasStock() {
			candidates = append(candidates, lot)
			available = available.Add(lot.RemainingQuantity)
		}
	}

	if available.LessThan(requested) {
		var product string
		var warehouseID uuid.UUID
		if len(lots) > 0 {
			product = lots[0].Product
			warehouseID = lots[0].WarehouseID
		}
		return nil, &InsufficientStockError{
			Product:     product,
			WarehouseID: warehouseID,
			Requested:   requested,
			Available:   available,
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].EntryDate.Equal(candidates[j].EntryDate) {
			return candidates[i].EntryDate.Before(candidates[j].EntryDate)
		}
		return candidates[i].ID.String() < candidates[j].ID.String()
	})

	return candidates, nil
}

// ApplyPlan decrements each planned lot by its allocated quantity. Lots are
// matched by id; an allocation that cannot be applied exactly fails the whole
// application so a partially applied plan never leaks out.
func ApplyPlan(lots []*Lot, plan *ConsumptionPlan) error {
	if plan == nil {
		return shared.NewDomainError("INVALID_INPUT", "Consumption plan cannot be nil")
	}

	byID := make(map[uuid.UUID]*Lot, len(lots))
	for _, lot := range lots {
		byID[lot.ID] = lot
	}

	for _, alloc := range plan.Allocations {
		if alloc.Quantity.IsZero() {
			continue
		}
		lot, ok := byID[alloc.LotID]
		if !ok {
			return shared.NewDomainError("NOT_FOUND", "Planned lot not found: "+alloc.LotID.String())
		}
		if err := lot.Deduct(alloc.Quantity); err != nil {
			return err
		}
	}
	return nil
}
