package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/negoce/backend/internal/domain/ledger"
	"github.com/negoce/backend/internal/domain/shared"
)

// WarehouseResponse represents a warehouse in API responses
type WarehouseResponse struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Location string    `json:"location,omitempty"`
	Active   bool      `json:"active"`
}

// CreateWarehouseRequest represents a request to create a warehouse
type CreateWarehouseRequest struct {
	Code     string `json:"code" binding:"required,min=1,max=32"`
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Location string `json:"location"`
}

// UpdateWarehouseRequest represents a request to update a warehouse
type UpdateWarehouseRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
	Location *string `json:"location"`
	Active   *bool   `json:"active"`
}

// WarehouseService manages the warehouse registry.
type WarehouseService struct {
	warehouseRepo ledger.WarehouseRepository
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(warehouseRepo ledger.WarehouseRepository) *WarehouseService {
	return &WarehouseService{warehouseRepo: warehouseRepo}
}

// Create registers a new warehouse. Codes are unique.
func (s *WarehouseService) Create(ctx context.Context, req CreateWarehouseRequest) (*WarehouseResponse, error) {
	existing, err := s.warehouseRepo.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainErrorf("ALREADY_EXISTS", "Warehouse code %s already exists", req.Code)
	}

	warehouse, err := ledger.NewWarehouse(req.Code, req.Name, req.Location)
	if err != nil {
		return nil, err
	}
	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// Update applies partial changes to a warehouse.
func (s *WarehouseService) Update(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := warehouse.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Location != nil {
		warehouse.Relocate(*req.Location)
	}
	if req.Active != nil {
		if *req.Active {
			warehouse.Activate()
		} else {
			warehouse.Deactivate()
		}
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// GetByID retrieves a warehouse by ID
func (s *WarehouseService) GetByID(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toWarehouseResponse(warehouse), nil
}

// List retrieves all warehouses
func (s *WarehouseService) List(ctx context.Context) ([]WarehouseResponse, error) {
	warehouses, err := s.warehouseRepo.FindAll(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	responses := make([]WarehouseResponse, 0, len(warehouses))
	for i := range warehouses {
		responses = append(responses, *toWarehouseResponse(&warehouses[i]))
	}
	return responses, nil
}

func toWarehouseResponse(w *ledger.Warehouse) *WarehouseResponse {
	return &WarehouseResponse{
		ID:       w.ID,
		Code:     w.Code,
		Name:     w.Name,
		Location: w.Location,
		Active:   w.Active,
	}
}
