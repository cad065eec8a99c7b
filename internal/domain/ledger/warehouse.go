package ledger

import (
	"github.com/negoce/backend/internal/domain/shared"
)

// Warehouse is a physical storage depot. Stock is always tracked per
// (product, warehouse) pair.
type Warehouse struct {
	shared.BaseEntity
	Code     string
	Name     string
	Location string
	Active   bool
}

// NewWarehouse creates an active warehouse
func NewWarehouse(code, name, location string) (*Warehouse, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Warehouse code is required")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Warehouse name is required")
	}
	return &Warehouse{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Location:   location,
		Active:     true,
	}, nil
}

// Rename updates the warehouse display name
func (w *Warehouse) Rename(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Warehouse name is required")
	}
	w.Name = name
	w.Touch()
	return nil
}

// Relocate updates the warehouse location
func (w *Warehouse) Relocate(location string) {
	w.Location = location
	w.Touch()
}

// Deactivate marks the warehouse as inactive. Existing lots stay readable;
// new operations against an inactive warehouse are rejected upstream.
func (w *Warehouse) Deactivate() {
	w.Active = false
	w.Touch()
}

// Activate marks the warehouse as active
func (w *Warehouse) Activate() {
	w.Active = true
	w.Touch()
}
