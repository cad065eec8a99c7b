package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/negoce/backend/internal/domain/shared"
)

// ValuationMethod selects how consumption is costed
type ValuationMethod string

const (
	ValuationMethodFIFO            ValuationMethod = "FIFO"
	ValuationMethodWeightedAverage ValuationMethod = "WEIGHTED_AVERAGE"
)

// IsValid checks if the valuation method is valid
func (m ValuationMethod) IsValid() bool {
	return m == ValuationMethodFIFO || m == ValuationMethodWeightedAverage
}

// String returns the string representation
func (m ValuationMethod) String() string {
	return string(m)
}

// Settings holds the process-wide valuation configuration. It is read on
// every operation and written rarely via an explicit administrative action.
// A method switch applies to operations computed after the switch; committed
// operations keep their frozen figures.
type Settings struct {
	shared.BaseEntity
	ValuationMethod     ValuationMethod
	DisplayCurrency     string
	StorageCostPerKgDay decimal.NullDecimal
}

// DefaultSettings returns the settings used on first run.
func DefaultSettings() *Settings {
	return &Settings{
		BaseEntity:      shared.NewBaseEntity(),
		ValuationMethod: ValuationMethodFIFO,
		DisplayCurrency: "FCFA",
	}
}

// SetValuationMethod switches the active valuation method.
func (s *Settings) SetValuationMethod(method ValuationMethod) error {
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown valuation method")
	}
	s.ValuationMethod = method
	s.Touch()
	return nil
}

// SetDisplayCurrency updates the display currency label.
func (s *Settings) SetDisplayCurrency(currency string) error {
	if currency == "" {
		return shared.NewDomainError("INVALID_INPUT", "Display currency is required")
	}
	s.DisplayCurrency = currency
	s.Touch()
	return nil
}

// SetStorageCostPerKgDay sets the optional per-kg-per-day storage cost.
func (s *Settings) SetStorageCostPerKgDay(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Storage cost cannot be negative")
	}
	s.StorageCostPerKgDay = decimal.NullDecimal{Decimal: cost, Valid: true}
	s.Touch()
	return nil
}

// ClearStorageCost removes the storage cost setting.
func (s *Settings) ClearStorageCost() {
	s.StorageCostPerKgDay = decimal.NullDecimal{}
	s.Touch()
}
