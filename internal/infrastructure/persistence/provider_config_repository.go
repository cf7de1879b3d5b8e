package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
)

// GormProviderConfigRepository implements ProviderConfigRepository using GORM
type GormProviderConfigRepository struct {
	db *gorm.DB
}

// NewGormProviderConfigRepository creates a new GormProviderConfigRepository
func NewGormProviderConfigRepository(db *gorm.DB) *GormProviderConfigRepository {
	return &GormProviderConfigRepository{db: db}
}

// FindByKey finds a provider config by type and name
func (r *GormProviderConfigRepository) FindByKey(ctx context.Context, providerType integration.ProviderType, providerName string) (*integration.ProviderConfig, error) {
	var model models.ProviderConfigModel
	if err := r.db.WithContext(ctx).
		Where("provider_type = ? AND provider_name = ?", string(providerType), providerName).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrProviderConfigNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByType returns every config of a provider type, most recently updated first
func (r *GormProviderConfigRepository) FindByType(ctx context.Context, providerType integration.ProviderType) ([]integration.ProviderConfig, error) {
	var rows []models.ProviderConfigModel
	if err := r.db.WithContext(ctx).
		Where("provider_type = ?", string(providerType)).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	configs := make([]integration.ProviderConfig, len(rows))
	for i := range rows {
		configs[i] = *rows[i].ToDomain()
	}
	return configs, nil
}

// Save inserts the config or, when its (type, name) key already exists, updates it in place.
// cfg.ID, CreatedAt and UpdatedAt are refreshed from the stored row.
func (r *GormProviderConfigRepository) Save(ctx context.Context, cfg *integration.ProviderConfig) error {
	model := models.ProviderConfigModelFromDomain(cfg)
	db := r.db.WithContext(ctx)

	if model.ID != 0 {
		if err := db.Save(model).Error; err != nil {
			return err
		}
	} else {
		if err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "provider_type"}, {Name: "provider_name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"is_enabled", "is_active", "config_data", "credentials",
				"feature_flags", "last_synced_at", "error_message", "updated_at",
			}),
		}).Create(model).Error; err != nil {
			return err
		}
	}

	cfg.ID = model.ID
	cfg.CreatedAt = model.CreatedAt
	cfg.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete removes a provider config. Deleting a missing config returns ErrProviderConfigNotFound.
func (r *GormProviderConfigRepository) Delete(ctx context.Context, providerType integration.ProviderType, providerName string) error {
	result := r.db.WithContext(ctx).
		Where("provider_type = ? AND provider_name = ?", string(providerType), providerName).
		Delete(&models.ProviderConfigModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return integration.ErrProviderConfigNotFound
	}
	return nil
}

var _ integration.ProviderConfigRepository = (*GormProviderConfigRepository)(nil)
