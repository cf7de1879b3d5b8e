package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopsync/backend/internal/infrastructure/persistence/models"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.CategoryModel{},
		&models.SupplierModel{},
		&models.ProductModel{},
		&models.ProviderConfigModel{},
		&models.ProductIntegrationModel{},
	)
	require.NoError(t, err)
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, sku string, price string) *models.ProductModel {
	t.Helper()
	category := &models.CategoryModel{Name: "Tools"}
	require.NoError(t, db.Create(category).Error)
	supplier := &models.SupplierModel{
		Name:           "Acme",
		ProviderType:   "mock",
		ProviderConfig: models.JSONMap{"baseUrl": "http://acme.test"},
		IsActive:       true,
	}
	require.NoError(t, db.Create(supplier).Error)

	product := &models.ProductModel{
		SKU:         sku,
		Name:        "Hammer " + sku,
		Price:       decimal.RequireFromString(price),
		StockStatus: "IN_STOCK",
		Images:      models.JSONStrings{"https://img.test/" + sku + ".png"},
		CategoryID:  &category.ID,
		SupplierID:  &supplier.ID,
		SupplierSKU: "SUP-" + sku,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func ptrTime(t time.Time) *time.Time { return &t }

func ctxBG() context.Context { return context.Background() }
