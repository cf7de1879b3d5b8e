// Package catalog holds the read-mostly shop catalog views the integration
// sync needs: products with their category, and suppliers.
package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockStatus is the coarse availability flag kept on a product
type StockStatus string

const (
	StockStatusInStock    StockStatus = "IN_STOCK"
	StockStatusLowStock   StockStatus = "LOW_STOCK"
	StockStatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

// IsValid returns true if the status is one of the known values
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusInStock, StockStatusLowStock, StockStatusOutOfStock:
		return true
	default:
		return false
	}
}

// Category is a product category
type Category struct {
	ID   int64
	Name string
}

// Product is a sellable catalog item
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	StockStatus StockStatus
	Images      []string

	CategoryID *int64
	Category   *Category
	SupplierID *int64
	Supplier   *Supplier

	// SupplierSKU is the supplier's identifier for this product, when it differs from SKU.
	SupplierSKU   string
	SupplierPrice *decimal.Decimal
	LastSyncedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryName returns the category name or empty string
func (p *Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}

// SupplierLookupSKU returns the SKU a supplier knows this product by
func (p *Product) SupplierLookupSKU() string {
	if p.SupplierSKU != "" {
		return p.SupplierSKU
	}
	return p.SKU
}

// ProductRepository is the catalog access the sync service needs
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*Product, error)
	// UpdateSupplierPricing writes back the supplier-side price observed during a sync.
	UpdateSupplierPricing(ctx context.Context, id int64, supplierPrice decimal.Decimal, syncedAt time.Time) error
}
