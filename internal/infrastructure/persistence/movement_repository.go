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

// GormMovementRepository implements MovementRepository using GORM.
// The movements table is append-only.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// FindByID finds a movement by its ID
func (r *GormMovementRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Movement, error) {
	var model models.MovementModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds movements matching the filter, newest first
func (r *GormMovementRepository) FindAll(ctx context.Context, filter ledger.MovementFilter) ([]ledger.Movement, error) {
	var rows []models.MovementModel
	query := r.db.WithContext(ctx).Model(&models.MovementModel{})
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
		query = query.Where("source_warehouse_id = ? OR target_warehouse_id = ?", *filter.WarehouseID, *filter.WarehouseID)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type.String())
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Order("date DESC, created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	movements := make([]ledger.Movement, 0, len(rows))
	for i := range rows {
		movements = append(movements, *rows[i].ToDomain())
	}
	return movements, nil
}

// Save inserts a movement. Existing rows are never overwritten.
func (r *GormMovementRepository) Save(ctx context.Context, movement *ledger.Movement) error {
	return r.db.WithContext(ctx).Create(models.MovementModelFromDomain(movement)).Error
}

// Ensure GormMovementRepository implements MovementRepository
var _ ledger.MovementRepository = (*GormMovementRepository)(nil)
