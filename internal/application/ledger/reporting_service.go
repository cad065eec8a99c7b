package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/negoce/backend/internal/domain/ledger"
)

// DashboardResponse carries the headline figures for a reporting period.
type DashboardResponse struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	PurchasedQuantity decimal.Decimal `json:"purchased_quantity"`
	PurchasedValue    decimal.Decimal `json:"purchased_value"`
	SoldQuantity      decimal.Decimal `json:"sold_quantity"`
	Revenue           decimal.Decimal `json:"revenue"`
	TotalMargin       decimal.Decimal `json:"total_margin"`

	StockQuantity decimal.Decimal `json:"stock_quantity"`
	StockValue    decimal.Decimal `json:"stock_value"`

	// EstimatedStorageCost is present when a storage cost rate is configured.
	EstimatedStorageCost *decimal.Decimal `json:"estimated_storage_cost,omitempty"`

	DisplayCurrency string `json:"display_currency"`
}

// InventoryReportLine is one (product, warehouse) row of the inventory report.
type InventoryReportLine struct {
	Product     string          `json:"product"`
	WarehouseID uuid.UUID       `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
	AverageCost decimal.Decimal `json:"average_cost"`
	OldestEntry *time.Time      `json:"oldest_entry,omitempty"`
	LotCount    int             `json:"lot_count"`
}

// ReportingService produces read-only aggregates for dashboards and the
// inventory report. All figures are derived from lots and operations; nothing
// is cached, so the report always reflects the committed state.
type ReportingService struct {
	scope TransactionScope
}

// NewReportingService creates a new ReportingService
func NewReportingService(scope TransactionScope) *ReportingService {
	return &ReportingService{scope: scope}
}

// Dashboard aggregates the period's operations and the current stock value.
func (s *ReportingService) Dashboard(ctx context.Context, from, to time.Time) (*DashboardResponse, error) {
	var response *DashboardResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		settings, err := repos.SettingsRepo().Get(ctx)
		if err != nil {
			return err
		}

		operations, err := repos.OperationRepo().FindAll(ctx, ledger.OperationFilter{From: &from, To: &to})
		if err != nil {
			return err
		}

		resp := &DashboardResponse{
			From:              from,
			To:                to,
			PurchasedQuantity: decimal.Zero,
			PurchasedValue:    decimal.Zero,
			SoldQuantity:      decimal.Zero,
			Revenue:           decimal.Zero,
			TotalMargin:       decimal.Zero,
			DisplayCurrency:   settings.DisplayCurrency,
		}
		for i := range operations {
			op := &operations[i]
			switch {
			case op.IsPurchase():
				resp.PurchasedQuantity = resp.PurchasedQuantity.Add(op.Quantity)
				resp.PurchasedValue = resp.PurchasedValue.Add(op.TotalUnitCost.Mul(op.Quantity))
			case op.IsSale():
				resp.SoldQuantity = resp.SoldQuantity.Add(op.Quantity)
				resp.Revenue = resp.Revenue.Add(op.Revenue)
				resp.TotalMargin = resp.TotalMargin.Add(op.TotalMargin)
			}
		}

		lots, err := repos.LotRepo().FindAll(ctx, ledger.LotFilter{})
		if err != nil {
			return err
		}
		stockQuantity := decimal.Zero
		stockValue := decimal.Zero
		for i := range lots {
			if lots[i].HasStock() {
				stockQuantity = stockQuantity.Add(lots[i].RemainingQuantity)
				stockValue = stockValue.Add(lots[i].Value())
			}
		}
		resp.StockQuantity = stockQuantity
		resp.StockValue = stockValue

		if settings.StorageCostPerKgDay.Valid {
			cost := estimateStorageCost(lots, settings.StorageCostPerKgDay.Decimal, to)
			resp.EstimatedStorageCost = &cost
		}

		response = resp
		return nil
	})
	return response, err
}

// InventoryReport returns one line per (product, warehouse) pair holding stock.
func (s *ReportingService) InventoryReport(ctx context.Context) ([]InventoryReportLine, error) {
	var lines []InventoryReportLine
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		lots, err := repos.LotRepo().FindAll(ctx, ledger.LotFilter{})
		if err != nil {
			return err
		}

		type key struct {
			product     string
			warehouseID uuid.UUID
		}
		grouped := make(map[key]*InventoryReportLine)
		order := make([]key, 0)

		for i := range lots {
			lot := &lots[i]
			if !lot.HasStock() {
				continue
			}
			k := key{lot.Product, lot.WarehouseID}
			line, ok := grouped[k]
			if !ok {
				line = &InventoryReportLine{
					Product:     lot.Product,
					WarehouseID: lot.WarehouseID,
					Quantity:    decimal.Zero,
					Value:       decimal.Zero,
				}
				grouped[k] = line
				order = append(order, k)
			}
			line.Quantity = line.Quantity.Add(lot.RemainingQuantity)
			line.Value = line.Value.Add(lot.Value())
			line.LotCount++
			entry := lot.EntryDate
			if line.OldestEntry == nil || entry.Before(*line.OldestEntry) {
				line.OldestEntry = &entry
			}
		}

		lines = make([]InventoryReportLine, 0, len(order))
		for _, k := range order {
			line := grouped[k]
			if line.Quantity.IsPositive() {
				line.AverageCost = line.Value.Div(line.Quantity).Round(ledger.CostScale)
			}
			lines = append(lines, *line)
		}
		return nil
	})
	return lines, err
}

// estimateStorageCost prices each live lot's remaining stock for the days it
// has been in the warehouse up to the reference date.
func estimateStorageCost(lots []ledger.Lot, ratePerKgDay decimal.Decimal, asOf time.Time) decimal.Decimal {
	total := decimal.Zero
	for i := range lots {
		lot := &lots[i]
		if !lot.HasStock() || asOf.Before(lot.EntryDate) {
			continue
		}
		days := decimal.NewFromInt(int64(asOf.Sub(lot.EntryDate).Hours() / 24))
		total = total.Add(lot.RemainingQuantity.Mul(ratePerKgDay).Mul(days))
	}
	return total.Round(ledger.CostScale)
}
