package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
)

// GormProductIntegrationRepository implements ProductIntegrationRepository using GORM
type GormProductIntegrationRepository struct {
	db *gorm.DB
}

// NewGormProductIntegrationRepository creates a new GormProductIntegrationRepository
func NewGormProductIntegrationRepository(db *gorm.DB) *GormProductIntegrationRepository {
	return &GormProductIntegrationRepository{db: db}
}

// FindByID finds an integration with its product, category and supplier
func (r *GormProductIntegrationRepository) FindByID(ctx context.Context, id int64) (*integration.ProductIntegration, error) {
	var model models.ProductIntegrationModel
	if err := r.withProductDetails(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrProductIntegrationNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByKey finds an integration by its natural key
func (r *GormProductIntegrationRepository) FindByKey(ctx context.Context, key integration.ProductIntegrationKey) (*integration.ProductIntegration, error) {
	var model models.ProductIntegrationModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND integration_type = ? AND integration_id = ?",
			key.ProductID, string(key.IntegrationType), key.IntegrationID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, integration.ErrProductIntegrationNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists integrations matching the filter, most recently updated first
func (r *GormProductIntegrationRepository) FindAll(ctx context.Context, filter integration.ListFilter) ([]integration.ProductIntegration, error) {
	query := r.withProduct(ctx)

	if filter.Type != "" {
		query = query.Where("integration_type = ?", string(filter.Type))
	}
	switch filter.Status {
	case integration.StatusFilterEnabled:
		query = query.Where("is_enabled = ?", true)
	case integration.StatusFilterDisabled:
		query = query.Where("is_enabled = ?", false)
	case integration.StatusFilterError:
		query = query.Where("error_message IS NOT NULL AND error_message <> ''")
	}

	var rows []models.ProductIntegrationModel
	if err := query.Order("updated_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainIntegrations(rows), nil
}

// FindDue returns enabled, active integrations whose next sync time has passed.
// Realtime integrations that never synced are due even without a next sync time.
func (r *GormProductIntegrationRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]integration.ProductIntegration, error) {
	query := r.withProductDetails(ctx).
		Where("is_enabled = ? AND is_active = ?", true, true).
		Where("next_sync_at <= ? OR (sync_schedule = ? AND last_synced_at IS NULL)",
			now.UTC(), string(integration.SyncScheduleRealtime)).
		Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.ProductIntegrationModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainIntegrations(rows), nil
}

// Save inserts or updates an integration. The Product association is never written.
func (r *GormProductIntegrationRepository) Save(ctx context.Context, pi *integration.ProductIntegration) error {
	model := models.ProductIntegrationModelFromDomain(pi)
	db := r.db.WithContext(ctx).Omit(clause.Associations)

	var err error
	if model.ID != 0 {
		err = db.Save(model).Error
	} else {
		err = db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "product_id"}, {Name: "integration_type"}, {Name: "integration_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"integration_name", "is_enabled", "is_active",
				"price_override", "margin_percentage", "min_price", "max_price",
				"quantity_override", "min_quantity", "max_quantity", "reserve_quantity", "lead_time_days",
				"sync_schedule", "auto_sync", "sync_on_price_change", "sync_on_stock_change", "custom_config",
				"error_message", "next_sync_at", "updated_at",
			}),
		}).Create(model).Error
	}
	if err != nil {
		return err
	}

	pi.ID = model.ID
	pi.CreatedAt = model.CreatedAt
	pi.UpdatedAt = model.UpdatedAt
	return nil
}

// RecordSyncSuccess stamps the sync time, sets the next due time and clears any error
func (r *GormProductIntegrationRepository) RecordSyncSuccess(ctx context.Context, id int64, syncedAt time.Time, nextSyncAt *time.Time) error {
	return r.updateOne(ctx, id, map[string]any{
		"last_synced_at": syncedAt.UTC(),
		"next_sync_at":   models.UTCTime(nextSyncAt),
		"error_message":  nil,
	})
}

// RecordSyncFailure stores the error message. Sync timestamps are left untouched.
func (r *GormProductIntegrationRepository) RecordSyncFailure(ctx context.Context, id int64, message string) error {
	return r.updateOne(ctx, id, map[string]any{
		"error_message": message,
	})
}

// BulkEnable enables every integration in ids
func (r *GormProductIntegrationRepository) BulkEnable(ctx context.Context, ids []int64) (int64, error) {
	return r.updateMany(ctx, ids, nil, map[string]any{
		"is_enabled": true,
	})
}

// BulkDisable disables and deactivates every integration in ids
func (r *GormProductIntegrationRepository) BulkDisable(ctx context.Context, ids []int64) (int64, error) {
	return r.updateMany(ctx, ids, nil, map[string]any{
		"is_enabled": false,
		"is_active":  false,
	})
}

// BulkScheduleSync makes the enabled integrations in ids due at now
func (r *GormProductIntegrationRepository) BulkScheduleSync(ctx context.Context, ids []int64, now time.Time) (int64, error) {
	return r.updateMany(ctx, ids, func(db *gorm.DB) *gorm.DB {
		return db.Where("is_enabled = ?", true)
	}, map[string]any{
		"next_sync_at":  now.UTC(),
		"error_message": nil,
	})
}

// MarkDueForProductChange makes a product's auto-sync integrations due when they
// subscribe to the change.
func (r *GormProductIntegrationRepository) MarkDueForProductChange(ctx context.Context, productID int64, change integration.ProductChange, now time.Time) (int64, error) {
	if !change.Price && !change.Stock {
		return 0, nil
	}

	query := r.db.WithContext(ctx).
		Model(&models.ProductIntegrationModel{}).
		Where("product_id = ? AND is_enabled = ? AND auto_sync = ?", productID, true, true)
	switch {
	case change.Price && change.Stock:
		query = query.Where("sync_on_price_change = ? OR sync_on_stock_change = ?", true, true)
	case change.Price:
		query = query.Where("sync_on_price_change = ?", true)
	default:
		query = query.Where("sync_on_stock_change = ?", true)
	}

	result := query.Updates(map[string]any{"next_sync_at": now.UTC()})
	return result.RowsAffected, result.Error
}

func (r *GormProductIntegrationRepository) withProduct(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Product")
}

func (r *GormProductIntegrationRepository) withProductDetails(ctx context.Context) *gorm.DB {
	return r.withProduct(ctx).
		Preload("Product.Category").
		Preload("Product.Supplier")
}

func (r *GormProductIntegrationRepository) updateOne(ctx context.Context, id int64, values map[string]any) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductIntegrationModel{}).
		Where("id = ?", id).
		Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return integration.ErrProductIntegrationNotFound
	}
	return nil
}

func (r *GormProductIntegrationRepository) updateMany(ctx context.Context, ids []int64, scope func(*gorm.DB) *gorm.DB, values map[string]any) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := r.db.WithContext(ctx).
		Model(&models.ProductIntegrationModel{}).
		Where("id IN ?", ids)
	if scope != nil {
		query = scope(query)
	}
	result := query.Updates(values)
	return result.RowsAffected, result.Error
}

func toDomainIntegrations(rows []models.ProductIntegrationModel) []integration.ProductIntegration {
	out := make([]integration.ProductIntegration, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

var _ integration.ProductIntegrationRepository = (*GormProductIntegrationRepository)(nil)
