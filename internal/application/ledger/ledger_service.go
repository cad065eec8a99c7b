package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/negoce/backend/internal/domain/ledger"
	"github.com/negoce/backend/internal/domain/shared"
	"github.com/negoce/backend/internal/infrastructure/telemetry"
)

// LedgerService handles the write side of the stock ledger: purchases,
// sales, transfers and adjustments. Every command runs under the stock guard
// of its (product, warehouse) pair and inside a single transaction, so a
// failure leaves no partial writes behind.
type LedgerService struct {
	scope         TransactionScope
	guard         *StockGuard
	warehouseRepo ledger.WarehouseRepository
	valuation     *ledger.ValuationService
	logger        *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	scope TransactionScope,
	guard *StockGuard,
	warehouseRepo ledger.WarehouseRepository,
	logger *zap.Logger,
) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		scope:         scope,
		guard:         guard,
		warehouseRepo: warehouseRepo,
		valuation:     ledger.NewValuationService(),
		logger:        logger,
	}
}

// RecordPurchase records a purchase: one operation, one new lot carrying the
// full landed cost, one entry movement. All three commit atomically.
func (s *LedgerService) RecordPurchase(ctx context.Context, req RecordPurchaseRequest) (*OperationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "record_purchase",
		telemetry.WithAttribute(telemetry.SpanAttrProduct, req.Product),
		telemetry.WithAttribute(telemetry.SpanAttrWarehouseID, req.WarehouseID.String()))
	defer span.End()

	if err := s.requireActiveWarehouse(ctx, req.WarehouseID); err != nil {
		return nil, err
	}

	release, err := s.guard.Acquire(ctx, req.Product, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	defer release()

	operation, err := ledger.NewPurchaseOperation(
		req.Date, req.Product, req.WarehouseID, req.Counterparty,
		req.Quantity, req.PricePerKg, req.HandlingCostPerKg, req.TransportCostPerKg, req.OtherCostPerKg,
	)
	if err != nil {
		return nil, err
	}
	operation.WithDetails(req.Reference, req.Notes)

	lot, err := ledger.NewLot(req.Product, req.WarehouseID, req.Date, req.Quantity, operation.TotalUnitCost)
	if err != nil {
		return nil, err
	}
	lot.WithProvenance(req.Counterparty, req.Reference, req.Notes)

	movement, err := ledger.NewMovement(ledger.MovementTypeEntry, req.Date, req.Product, nil, &req.WarehouseID, req.Quantity)
	if err != nil {
		return nil, err
	}
	movement.WithUnitCost(operation.TotalUnitCost).WithOperation(operation.ID).WithNote(req.Reference)

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.OperationRepo().Save(ctx, operation); err != nil {
			return err
		}
		if err := repos.LotRepo().Save(ctx, lot); err != nil {
			return err
		}
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("purchase recorded",
		zap.String("operation_id", operation.ID.String()),
		zap.String("product", req.Product),
		zap.String("quantity", req.Quantity.String()),
		zap.String("total_unit_cost", operation.TotalUnitCost.String()))

	response := ToOperationResponse(operation)
	return &response, nil
}

// RecordSale records a sale: stock is consumed under the configured valuation
// method, the margin is frozen into the operation, and an exit movement is
// written. Insufficient stock fails the whole command without mutating lots.
func (s *LedgerService) RecordSale(ctx context.Context, req RecordSaleRequest) (*OperationResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "record_sale",
		telemetry.WithAttribute(telemetry.SpanAttrProduct, req.Product),
		telemetry.WithAttribute(telemetry.SpanAttrWarehouseID, req.WarehouseID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrQuantity, req.Quantity.String()))
	defer span.End()

	if err := s.requireActiveWarehouse(ctx, req.WarehouseID); err != nil {
		return nil, err
	}

	release, err := s.guard.Acquire(ctx, req.Product, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	defer release()

	var operation *ledger.Operation
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		settings, err := repos.SettingsRepo().Get(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ledger.ErrSettingsUnavailable, err)
		}

		lots, err := repos.LotRepo().FindForUpdate(ctx, req.Product, req.WarehouseID)
		if err != nil {
			return err
		}

		plan, err := s.valuation.PlanConsumption(settings.ValuationMethod, req.Product, req.WarehouseID, lots, req.Quantity)
		if err != nil {
			return err
		}

		mutable := lotPointers(lots)
		if err := ledger.ApplyPlan(mutable, plan); err != nil {
			return err
		}

		operation, err = ledger.NewSaleOperation(
			req.Date, req.Product, req.WarehouseID, req.Counterparty,
			req.Quantity, req.PricePerKg, plan.CostPerKg,
		)
		if err != nil {
			return err
		}
		operation.WithDetails(req.Reference, req.Notes)

		movement, err := ledger.NewMovement(ledger.MovementTypeExit, req.Date, req.Product, &req.WarehouseID, nil, req.Quantity)
		if err != nil {
			return err
		}
		movement.WithUnitCost(plan.CostPerKg).WithOperation(operation.ID).WithNote(req.Reference)

		if err := repos.LotRepo().SaveAll(ctx, mutable); err != nil {
			return err
		}
		if err := repos.OperationRepo().Save(ctx, operation); err != nil {
			return err
		}
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttribute(span, telemetry.SpanAttrCostPerKg, operation.CogsPerKg.String())
	s.logger.Info("sale recorded",
		zap.String("operation_id", operation.ID.String()),
		zap.String("product", req.Product),
		zap.String("quantity", req.Quantity.String()),
		zap.String("cogs_per_kg", operation.CogsPerKg.String()),
		zap.String("margin_per_kg", operation.MarginPerKg.String()))

	response := ToOperationResponse(operation)
	return &response, nil
}

// RecordTransfer moves stock between two warehouses. The source side is
// consumed under the configured valuation method; the target side receives a
// single new lot carrying the consumption cost, dated at the transfer.
func (s *LedgerService) RecordTransfer(ctx context.Context, req RecordTransferRequest) (*MovementResponse, error) {
	if req.SourceWarehouseID == req.TargetWarehouseID {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transfer source and target warehouses must differ")
	}
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "record_transfer",
		telemetry.WithAttribute(telemetry.SpanAttrProduct, req.Product),
		telemetry.WithAttribute(telemetry.SpanAttrQuantity, req.Quantity.String()))
	defer span.End()

	if err := s.requireActiveWarehouse(ctx, req.SourceWarehouseID); err != nil {
		return nil, err
	}
	if err := s.requireActiveWarehouse(ctx, req.TargetWarehouseID); err != nil {
		return nil, err
	}

	release, err := s.guard.AcquirePair(ctx, req.Product, req.SourceWarehouseID, req.TargetWarehouseID)
	if err != nil {
		return nil, err
	}
	defer release()

	var movement *ledger.Movement
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		settings, err := repos.SettingsRepo().Get(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ledger.ErrSettingsUnavailable, err)
		}

		lots, err := repos.LotRepo().FindForUpdate(ctx, req.Product, req.SourceWarehouseID)
		if err != nil {
			return err
		}

		plan, err := s.valuation.PlanConsumption(settings.ValuationMethod, req.Product, req.SourceWarehouseID, lots, req.Quantity)
		if err != nil {
			return err
		}

		mutable := lotPointers(lots)
		if err := ledger.ApplyPlan(mutable, plan); err != nil {
			return err
		}

		incoming, err := ledger.NewLot(req.Product, req.TargetWarehouseID, req.Date, req.Quantity, plan.CostPerKg)
		if err != nil {
			return err
		}
		incoming.WithProvenance("", "", req.Note)

		movement, err = ledger.NewMovement(
			ledger.MovementTypeTransfer, req.Date, req.Product,
			&req.SourceWarehouseID, &req.TargetWarehouseID, req.Quantity,
		)
		if err != nil {
			return err
		}
		movement.WithUnitCost(plan.CostPerKg).WithNote(req.Note)

		if err := repos.LotRepo().SaveAll(ctx, mutable); err != nil {
			return err
		}
		if err := repos.LotRepo().Save(ctx, incoming); err != nil {
			return err
		}
		return repos.MovementRepo().Save(ctx, movement)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("transfer recorded",
		zap.String("movement_id", movement.ID.String()),
		zap.String("product", req.Product),
		zap.String("quantity", req.Quantity.String()))

	response := ToMovementResponse(movement)
	return &response, nil
}

// RecordAdjustment corrects stock by a signed quantity. A positive quantity
// creates a new lot at the given unit cost; a negative one consumes stock
// under the configured valuation method, recording a loss.
func (s *LedgerService) RecordAdjustment(ctx context.Context, req RecordAdjustmentRequest) (*MovementResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "ledger", "record_adjustment",
		telemetry.WithAttribute(telemetry.SpanAttrProduct, req.Product),
		telemetry.WithAttribute(telemetry.SpanAttrWarehouseID, req.WarehouseID.String()))
	defer span.End()

	if err := s.requireActiveWarehouse(ctx, req.WarehouseID); err != nil {
		return nil, err
	}
	if req.Quantity.IsZero() {
		return nil, ledger.ErrInvalidQuantity
	}

	release, err := s.guard.Acquire(ctx, req.Product, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	defer release()

	var movement *ledger.Movement
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if req.Quantity.IsPositive() {
			return s.adjustUp(ctx, repos, req, &movement)
		}
		return s.adjustDown(ctx, repos, req, &movement)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("adjustment recorded",
		zap.String("movement_id", movement.ID.String()),
		zap.String("product", req.Product),
		zap.String("quantity", req.Quantity.String()),
		zap.String("reason", req.Reason))

	response := ToMovementResponse(movement)
	return &response, nil
}

func (s *LedgerService) adjustUp(ctx context.Context, repos TransactionalRepositories, req RecordAdjustmentRequest, out **ledger.Movement) error {
	unitCost := req.UnitCost
	if unitCost.IsZero() {
		// Found stock with no declared cost inherits the current average
		// so the position's value stays consistent.
		lots, err := repos.LotRepo().FindForUpdate(ctx, req.Product, req.WarehouseID)
		if err != nil {
			return err
		}
		position := s.valuation.StockPosition(lots)
		if position.Quantity.IsPositive() {
			unitCost = position.Value.Div(position.Quantity).Round(ledger.CostScale)
		}
	}

	lot, err := ledger.NewLot(req.Product, req.WarehouseID, req.Date, req.Quantity, unitCost)
	if err != nil {
		return err
	}
	lot.WithProvenance("", "", req.Reason)

	movement, err := ledger.NewMovement(ledger.MovementTypeAdjustment, req.Date, req.Product, nil, &req.WarehouseID, req.Quantity)
	if err != nil {
		return err
	}
	movement.WithUnitCost(unitCost).WithNote(req.Reason)

	if err := repos.LotRepo().Save(ctx, lot); err != nil {
		return err
	}
	if err := repos.MovementRepo().Save(ctx, movement); err != nil {
		return err
	}
	*out = movement
	return nil
}

func (s *LedgerService) adjustDown(ctx context.Context, repos TransactionalRepositories, req RecordAdjustmentRequest, out **ledger.Movement) error {
	settings, err := repos.SettingsRepo().Get(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ledger.ErrSettingsUnavailable, err)
	}

	lots, err := repos.LotRepo().FindForUpdate(ctx, req.Product, req.WarehouseID)
	if err != nil {
		return err
	}

	loss := req.Quantity.Neg()
	plan, err := s.valuation.PlanConsumption(settings.ValuationMethod, req.Product, req.WarehouseID, lots, loss)
	if err != nil {
		return err
	}

	mutable := lotPointers(lots)
	if err := ledger.ApplyPlan(mutable, plan); err != nil {
		return err
	}

	movement, err := ledger.NewMovement(ledger.MovementTypeAdjustment, req.Date, req.Product, &req.WarehouseID, nil, req.Quantity)
	if err != nil {
		return err
	}
	movement.WithUnitCost(plan.CostPerKg).WithNote(req.Reason)

	if err := repos.LotRepo().SaveAll(ctx, mutable); err != nil {
		return err
	}
	if err := repos.MovementRepo().Save(ctx, movement); err != nil {
		return err
	}
	*out = movement
	return nil
}

// GetOperation retrieves an operation by ID
func (s *LedgerService) GetOperation(ctx context.Context, id uuid.UUID) (*OperationResponse, error) {
	var response *OperationResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		operation, err := repos.OperationRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		r := ToOperationResponse(operation)
		response = &r
		return nil
	})
	return response, err
}

// ListOperations retrieves operations with filtering and pagination
func (s *LedgerService) ListOperations(ctx context.Context, filter OperationListFilter) ([]OperationResponse, int64, error) {
	var responses []OperationResponse
	var total int64
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		domainFilter := filter.toDomain()
		operations, err := repos.OperationRepo().FindAll(ctx, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.OperationRepo().Count(ctx, domainFilter)
		if err != nil {
			return err
		}
		responses = make([]OperationResponse, 0, len(operations))
		for i := range operations {
			responses = append(responses, ToOperationResponse(&operations[i]))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// ListMovements retrieves audit-trail movements with filtering and pagination
func (s *LedgerService) ListMovements(ctx context.Context, filter MovementListFilter) ([]MovementResponse, error) {
	var responses []MovementResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		movements, err := repos.MovementRepo().FindAll(ctx, filter.toDomain())
		if err != nil {
			return err
		}
		responses = make([]MovementResponse, 0, len(movements))
		for i := range movements {
			responses = append(responses, ToMovementResponse(&movements[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return responses, nil
}

// DeleteOperation removes an operation record. This is an administrative
// correction: the lots consumed or created by the operation are left as they
// are, so the stock position does not change.
func (s *LedgerService) DeleteOperation(ctx context.Context, id uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.OperationRepo().FindByID(ctx, id); err != nil {
			return err
		}
		return repos.OperationRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Warn("operation deleted without stock restoration",
		zap.String("operation_id", id.String()))
	return nil
}

func (s *LedgerService) requireActiveWarehouse(ctx context.Context, id uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !warehouse.Active {
		return shared.NewDomainErrorf("INVALID_STATE", "Warehouse %s is inactive", warehouse.Code)
	}
	return nil
}

func lotPointers(lots []ledger.Lot) []*ledger.Lot {
	out := make([]*ledger.Lot, len(lots))
	for i := range lots {
		out[i] = &lots[i]
	}
	return out
}
