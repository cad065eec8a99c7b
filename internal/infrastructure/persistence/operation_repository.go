package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/negoce/backend/internal/domain/ledger"
	"github.com/negoce/backend/internal/domain/shared"
	"github.com/negoce/backend/internal/infrastructure/persistence/models"
)

// GormOperationRepository implements OperationRepository using GORM
type GormOperationRepository struct {
	db *gorm.DB
}

// NewGormOperationRepository creates a new GormOperationRepository
func NewGormOperationRepository(db *gorm.DB) *GormOperationRepository {
	return &GormOperationRepository{db: db}
}

// FindByID finds an operation by its ID
func (r *GormOperationRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Operation, error) {
	var model models.OperationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds operations matching the filter, newest first
func (r *GormOperationRepository) FindAll(ctx context.Context, filter ledger.OperationFilter) ([]ledger.Operation, error) {
	var rows []models.OperationModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OperationModel{}), filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("date DESC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	operations := make([]ledger.Operation, 0, len(rows))
	for i := range rows {
		operations = append(operations, *rows[i].ToDomain())
	}
	return operations, nil
}

// Count counts operations matching the filter, ignoring pagination
func (r *GormOperationRepository) Count(ctx context.Context, filter ledger.OperationFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.OperationModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an operation
func (r *GormOperationRepository) Save(ctx context.Context, operation *ledger.Operation) error {
	return r.db.WithContext(ctx).Save(models.OperationModelFromDomain(operation)).Error
}

// Delete removes an operation. Consumed stock is not restored.
func (r *GormOperationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OperationModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormOperationRepository) applyFilter(query *gorm.DB, filter ledger.OperationFilter) *gorm.DB {
	if filter.From != nil {
		query = query.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("date <= ?", *filter.To)
	}
	if filter.Product != "" {
		query = query.Where("product = ?", filter.Product)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type.String())
	}
	return query
}

// Ensure GormOperationRepository implements OperationRepository
var _ ledger.OperationRepository = (*GormOperationRepository)(nil)
