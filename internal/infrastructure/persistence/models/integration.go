package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/integration"
)

// ProviderConfigModel is the persistence model for provider configurations
type ProviderConfigModel struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	ProviderType string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_provider_configs_type_name,priority:1"`
	ProviderName string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_provider_configs_type_name,priority:2"`
	IsEnabled    bool      `gorm:"not null;default:false"`
	IsActive     bool      `gorm:"not null;default:false"`
	ConfigData   JSONMap   `gorm:"type:jsonb;not null;default:'{}'"`
	Credentials  JSONMap   `gorm:"type:jsonb;not null;default:'{}'"`
	FeatureFlags JSONFlags `gorm:"type:jsonb;not null;default:'{}'"`
	LastSyncedAt *time.Time
	ErrorMessage *string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (ProviderConfigModel) TableName() string {
	return "provider_configs"
}

// ToDomain converts the model to a domain ProviderConfig
func (m *ProviderConfigModel) ToDomain() *integration.ProviderConfig {
	return &integration.ProviderConfig{
		ID:           m.ID,
		ProviderType: integration.ProviderType(m.ProviderType),
		ProviderName: m.ProviderName,
		IsEnabled:    m.IsEnabled,
		IsActive:     m.IsActive,
		ConfigData:   nonNilSettings(m.ConfigData),
		Credentials:  nonNilSettings(m.Credentials),
		FeatureFlags: nonNilFlags(m.FeatureFlags),
		LastSyncedAt: m.LastSyncedAt,
		ErrorMessage: m.ErrorMessage,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ProviderConfigModelFromDomain converts a domain ProviderConfig to its model
func ProviderConfigModelFromDomain(c *integration.ProviderConfig) *ProviderConfigModel {
	return &ProviderConfigModel{
		ID:           c.ID,
		ProviderType: string(c.ProviderType),
		ProviderName: c.ProviderName,
		IsEnabled:    c.IsEnabled,
		IsActive:     c.IsActive,
		ConfigData:   JSONMap(c.ConfigData),
		Credentials:  JSONMap(c.Credentials),
		FeatureFlags: JSONFlags(c.FeatureFlags),
		LastSyncedAt: c.LastSyncedAt,
		ErrorMessage: c.ErrorMessage,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ProductIntegrationModel is the persistence model for product integrations
type ProductIntegrationModel struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	ProductID       int64  `gorm:"not null;uniqueIndex:idx_product_integrations_key,priority:1"`
	IntegrationType string `gorm:"type:varchar(20);not null;uniqueIndex:idx_product_integrations_key,priority:2;index"`
	IntegrationID   string `gorm:"type:varchar(100);not null;uniqueIndex:idx_product_integrations_key,priority:3"`
	IntegrationName string `gorm:"type:varchar(100);not null"`

	IsEnabled bool `gorm:"not null;default:false"`
	IsActive  bool `gorm:"not null;default:false"`

	PriceOverride    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MarginPercentage *decimal.Decimal `gorm:"type:decimal(7,2)"`
	MinPrice         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	MaxPrice         *decimal.Decimal `gorm:"type:decimal(12,2)"`

	QuantityOverride *int
	MinQuantity      *int
	MaxQuantity      *int
	ReserveQuantity  int `gorm:"not null;default:0"`
	LeadTimeDays     *int

	SyncSchedule      string  `gorm:"type:varchar(20)"`
	AutoSync          bool    `gorm:"not null;default:false"`
	SyncOnPriceChange bool    `gorm:"not null;default:false"`
	SyncOnStockChange bool    `gorm:"not null;default:false"`
	CustomConfig      JSONMap `gorm:"type:jsonb;not null;default:'{}'"`

	ErrorMessage *string `gorm:"type:text"`
	LastSyncedAt *time.Time
	NextSyncAt   *time.Time `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Product *ProductModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (ProductIntegrationModel) TableName() string {
	return "product_integrations"
}

// ToDomain converts the model to a domain ProductIntegration
func (m *ProductIntegrationModel) ToDomain() *integration.ProductIntegration {
	pi := &integration.ProductIntegration{
		ID:                m.ID,
		ProductID:         m.ProductID,
		IntegrationType:   integration.IntegrationType(m.IntegrationType),
		IntegrationID:     m.IntegrationID,
		IntegrationName:   m.IntegrationName,
		IsEnabled:         m.IsEnabled,
		IsActive:          m.IsActive,
		PriceOverride:     m.PriceOverride,
		MarginPercentage:  m.MarginPercentage,
		MinPrice:          m.MinPrice,
		MaxPrice:          m.MaxPrice,
		QuantityOverride:  m.QuantityOverride,
		MinQuantity:       m.MinQuantity,
		MaxQuantity:       m.MaxQuantity,
		ReserveQuantity:   m.ReserveQuantity,
		LeadTimeDays:      m.LeadTimeDays,
		SyncSchedule:      integration.SyncSchedule(m.SyncSchedule),
		AutoSync:          m.AutoSync,
		SyncOnPriceChange: m.SyncOnPriceChange,
		SyncOnStockChange: m.SyncOnStockChange,
		CustomConfig:      nonNilSettings(m.CustomConfig),
		ErrorMessage:      m.ErrorMessage,
		LastSyncedAt:      m.LastSyncedAt,
		NextSyncAt:        m.NextSyncAt,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
	if m.Product != nil {
		pi.Product = m.Product.ToDomain()
	}
	return pi
}

// ProductIntegrationModelFromDomain converts a domain ProductIntegration to its model.
// The Product association is not copied.
func ProductIntegrationModelFromDomain(pi *integration.ProductIntegration) *ProductIntegrationModel {
	return &ProductIntegrationModel{
		ID:                pi.ID,
		ProductID:         pi.ProductID,
		IntegrationType:   string(pi.IntegrationType),
		IntegrationID:     pi.IntegrationID,
		IntegrationName:   pi.IntegrationName,
		IsEnabled:         pi.IsEnabled,
		IsActive:          pi.IsActive,
		PriceOverride:     pi.PriceOverride,
		MarginPercentage:  pi.MarginPercentage,
		MinPrice:          pi.MinPrice,
		MaxPrice:          pi.MaxPrice,
		QuantityOverride:  pi.QuantityOverride,
		MinQuantity:       pi.MinQuantity,
		MaxQuantity:       pi.MaxQuantity,
		ReserveQuantity:   pi.ReserveQuantity,
		LeadTimeDays:      pi.LeadTimeDays,
		SyncSchedule:      string(pi.SyncSchedule),
		AutoSync:          pi.AutoSync,
		SyncOnPriceChange: pi.SyncOnPriceChange,
		SyncOnStockChange: pi.SyncOnStockChange,
		CustomConfig:      JSONMap(pi.CustomConfig),
		ErrorMessage:      pi.ErrorMessage,
		LastSyncedAt:      UTCTime(pi.LastSyncedAt),
		NextSyncAt:        UTCTime(pi.NextSyncAt),
		CreatedAt:         pi.CreatedAt,
		UpdatedAt:         pi.UpdatedAt,
	}
}

func nonNilSettings(m JSONMap) integration.Settings {
	if m == nil {
		return integration.Settings{}
	}
	return integration.Settings(m)
}

func nonNilFlags(f JSONFlags) map[string]bool {
	if f == nil {
		return map[string]bool{}
	}
	return map[string]bool(f)
}

// UTCTime returns a UTC copy of t, or nil.
func UTCTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
