package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/negoce/backend/internal/domain/ledger"
	"github.com/negoce/backend/internal/infrastructure/persistence/models"
)

// GormSettingsRepository implements SettingsRepository using GORM.
// Settings are a singleton row created lazily on first read.
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the settings, creating the default row on first use
func (r *GormSettingsRepository) Get(ctx context.Context) (*ledger.Settings, error) {
	var model models.SettingsModel
	err := r.db.WithContext(ctx).Order("created_at ASC").First(&model).Error
	if err == nil {
		return model.ToDomain(), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	defaults := ledger.DefaultSettings()
	if err := r.db.WithContext(ctx).Create(models.SettingsModelFromDomain(defaults)).Error; err != nil {
		return nil, err
	}
	return defaults, nil
}

// Save updates the settings row
func (r *GormSettingsRepository) Save(ctx context.Context, settings *ledger.Settings) error {
	return r.db.WithContext(ctx).Save(models.SettingsModelFromDomain(settings)).Error
}

// Ensure GormSettingsRepository implements SettingsRepository
var _ ledger.SettingsRepository = (*GormSettingsRepository)(nil)
