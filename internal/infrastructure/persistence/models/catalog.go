package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/catalog"
)

// CategoryModel is the persistence model for product categories
type CategoryModel struct {
	ID        int64  `gorm:"primaryKey;autoIncrement"`
	Name      string `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{ID: m.ID, Name: m.Name}
}

// SupplierModel is the persistence model for suppliers
type SupplierModel struct {
	ID             int64   `gorm:"primaryKey;autoIncrement"`
	Name           string  `gorm:"type:varchar(200);not null"`
	ProviderType   string  `gorm:"type:varchar(50);not null;default:'mock'"`
	ProviderConfig JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	IsActive       bool    `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the model to a domain Supplier
func (m *SupplierModel) ToDomain() *catalog.Supplier {
	return &catalog.Supplier{
		ID:             m.ID,
		Name:           m.Name,
		ProviderType:   m.ProviderType,
		ProviderConfig: map[string]any(m.ProviderConfig),
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// ProductModel is the persistence model for products
type ProductModel struct {
	ID            int64            `gorm:"primaryKey;autoIncrement"`
	SKU           string           `gorm:"column:sku;type:varchar(100);not null;uniqueIndex"`
	Name          string           `gorm:"type:varchar(300);not null"`
	Description   string           `gorm:"type:text"`
	Price         decimal.Decimal  `gorm:"type:decimal(12,2);not null;default:0"`
	StockStatus   string           `gorm:"type:varchar(20);not null;default:'IN_STOCK'"`
	Images        JSONStrings      `gorm:"type:jsonb;not null;default:'[]'"`
	CategoryID    *int64           `gorm:"index"`
	Category      *CategoryModel   `gorm:"foreignKey:CategoryID"`
	SupplierID    *int64           `gorm:"index"`
	Supplier      *SupplierModel   `gorm:"foreignKey:SupplierID"`
	SupplierSKU   string           `gorm:"column:supplier_sku;type:varchar(100)"`
	SupplierPrice *decimal.Decimal `gorm:"type:decimal(12,2)"`
	LastSyncedAt  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the model to a domain Product, including loaded associations
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		ID:            m.ID,
		SKU:           m.SKU,
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		StockStatus:   catalog.StockStatus(m.StockStatus),
		Images:        []string(m.Images),
		CategoryID:    m.CategoryID,
		SupplierID:    m.SupplierID,
		SupplierSKU:   m.SupplierSKU,
		SupplierPrice: m.SupplierPrice,
		LastSyncedAt:  m.LastSyncedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Category != nil {
		p.Category = m.Category.ToDomain()
	}
	if m.Supplier != nil {
		p.Supplier = m.Supplier.ToDomain()
	}
	return p
}
