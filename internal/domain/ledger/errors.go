package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/negoce/backend/internal/domain/shared"
)

// Errors shared across the ledger domain
var (
	// ErrInvalidQuantity rejects zero or negative requested quantities.
	// A zero-quantity request is treated as a caller bug, not a no-op.
	ErrInvalidQuantity = shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")

	// ErrSettingsUnavailable indicates the valuation settings could not be
	// loaded. The operation fails; the valuation mode is never defaulted.
	ErrSettingsUnavailable = shared.NewDomainError("SETTINGS_UNAVAILABLE", "Valuation settings could not be loaded")

	// ErrLockTimeout indicates the per-(product, warehouse) mutation guard
	// could not be acquired within the configured wait. Retryable.
	ErrLockTimeout = shared.NewDomainError("LOCK_TIMEOUT", "Timed out waiting for the stock mutation lock")
)

// InsufficientStockError reports the exact shortfall for a consumption
// request that cannot be satisfied. No partial plan accompanies it.
type InsufficientStockError struct {
	Product     string
	WarehouseID uuid.UUID
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %s kg, available %s kg (short %s kg)",
		e.Product, e.Requested, e.Available, e.Shortfall())
}

// Shortfall returns the missing quantity
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

// Unwrap lets errors.As resolve the generic domain error code
func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}

// PersistenceError wraps a repository-layer failure. The enclosing
// transaction is rolled back and the error is retryable by the caller.
type PersistenceError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying repository error
func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps err with the failed operation name
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}
