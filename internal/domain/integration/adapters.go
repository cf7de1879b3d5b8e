package integration

import (
	"context"

	"github.com/shopspring/decimal"
)

// Listing is what the sync loop sends to a marketplace for one product
type Listing struct {
	ExternalID  string
	SKU         string
	Title       string
	Description string
	Price       decimal.Decimal
	Currency    string
	Quantity    int
	Category    string
	Images      []string
	Condition   string
}

// ListingResult is the marketplace's acknowledgement of a listing upsert
type ListingResult struct {
	MarketplaceID string
	Created       bool
}

// MarketplaceAdapter publishes listings to one marketplace
type MarketplaceAdapter interface {
	// Name returns the provider name the adapter is registered under
	Name() string
	// IsConfigured reports whether the adapter has the settings it needs
	IsConfigured() bool
	CreateOrUpdateListing(ctx context.Context, listing Listing) (*ListingResult, error)
}

// SupplierProduct is a supplier's view of one product
type SupplierProduct struct {
	SKU           string
	Name          string
	Price         decimal.Decimal
	StockQuantity *int
}

// SupplierAdapter reads a supplier's product feed
type SupplierAdapter interface {
	Name() string
	IsConfigured() bool
	// GetProduct returns nil and no error when the supplier does not carry sku.
	GetProduct(ctx context.Context, sku string) (*SupplierProduct, error)
}

// AdapterConfig is what an adapter is built from
type AdapterConfig struct {
	ConfigData  Settings
	Credentials Settings
}

// Lookup returns key from credentials first, then config data
func (c AdapterConfig) Lookup(key string) string {
	if c.Credentials.Has(key) {
		return c.Credentials.String(key)
	}
	return c.ConfigData.String(key)
}

// AdapterRegistry builds adapters by provider name. Unknown names yield
// ErrAdapterNotRegistered.
type AdapterRegistry interface {
	Marketplace(name string, cfg AdapterConfig) (MarketplaceAdapter, error)
	Supplier(providerType string, cfg AdapterConfig) (SupplierAdapter, error)
}
