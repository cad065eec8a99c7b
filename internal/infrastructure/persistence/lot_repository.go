package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/negoce/backend/internal/domain/ledger"
	"github.com/negoce/backend/internal/domain/shared"
	"github.com/negoce/backend/internal/infrastructure/persistence/models"
)

// GormLotRepository implements LotRepository using GORM
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

// FindByID finds a lot by its ID
func (r *GormLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Lot, error) {
	var model models.LotModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds lots matching the filter, oldest entry first
func (r *GormLotRepository) FindAll(ctx context.Context, filter ledger.LotFilter) ([]ledger.Lot, error) {
	var rows []models.LotModel
	query := r.db.WithContext(ctx).Model(&models.LotModel{})
	if filter.Product != "" {
		query = query.Where("product = ?", filter.Product)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if err := query.Order("entry_date ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainLots(rows), nil
}

// FindForUpdate reads the lots of a (product, warehouse) pair with row locks.
// The lock only takes effect inside a transaction; outside one this is a
// plain read.
func (r *GormLotRepository) FindForUpdate(ctx context.Context, product string, warehouseID uuid.UUID) ([]ledger.Lot, error) {
	var rows []models.LotModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product = ? AND warehouse_id = ?", product, warehouseID).
		Order("entry_date ASC, id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainLots(rows), nil
}

// Save creates or updates a lot
func (r *GormLotRepository) Save(ctx context.Context, lot *ledger.Lot) error {
	return r.db.WithContext(ctx).Save(models.LotModelFromDomain(lot)).Error
}

// SaveAll creates or updates multiple lots
func (r *GormLotRepository) SaveAll(ctx context.Context, lots []*ledger.Lot) error {
	if len(lots) == 0 {
		return nil
	}
	rows := make([]*models.LotModel, 0, len(lots))
	for _, lot := range lots {
		rows = append(rows, models.LotModelFromDomain(lot))
	}
	return r.db.WithContext(ctx).Save(&rows).Error
}

func toDomainLots(rows []models.LotModel) []ledger.Lot {
	lots := make([]ledger.Lot, 0, len(rows))
	for i := range rows {
		lots = append(lots, *rows[i].ToDomain())
	}
	return lots
}

// Ensure GormLotRepository implements LotRepository
var _ ledger.LotRepository = (*GormLotRepository)(nil)
