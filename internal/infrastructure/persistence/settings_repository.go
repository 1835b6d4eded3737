package persistence

import (
	"context"
	"time"

	"github.com/logiport/backend/internal/domain/trade"
	"github.com/logiport/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository implements trade.SettingsRepository over app_settings
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the value for key, shared.ErrNotFound if absent
func (r *GormSettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var model models.AppSettingModel
	if err := r.db.WithContext(ctx).
		Where(&models.AppSettingModel{Key: key}).
		First(&model).Error; err != nil {
		return "", translateError(err)
	}
	return model.Value, nil
}

// Set inserts or updates the value for key
func (r *GormSettingsRepository) Set(ctx context.Context, key, value string) error {
	model := models.AppSettingModel{Key: key, Value: value, UpdatedAt: time.Now()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error
}

// Ensure GormSettingsRepository implements trade.SettingsRepository
var _ trade.SettingsRepository = (*GormSettingsRepository)(nil)
