package providers

import (
	"context"
	"strings"
	"sync"

	"github.com/shopsync/backend/internal/domain/integration"
)

// MockMarketplace is an in-memory marketplace. It is always configured and
// keeps the last listing sent for each external id.
type MockMarketplace struct {
	mu       sync.Mutex
	listings map[string]integration.Listing
	failWith map[string]error
}

// NewMockMarketplace creates an empty mock marketplace
func NewMockMarketplace() *MockMarketplace {
	return &MockMarketplace{
		listings: make(map[string]integration.Listing),
		failWith: make(map[string]error),
	}
}

// Name implements MarketplaceAdapter
func (m *MockMarketplace) Name() string { return integration.MockProviderName }

// IsConfigured implements MarketplaceAdapter
func (m *MockMarketplace) IsConfigured() bool { return true }

// CreateOrUpdateListing stores the listing. Listings for SKUs registered with
// FailSKU return that error instead.
func (m *MockMarketplace) CreateOrUpdateListing(ctx context.Context, listing integration.Listing) (*integration.ListingResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failWith[listing.SKU]; ok {
		return nil, err
	}
	_, exists := m.listings[listing.ExternalID]
	m.listings[listing.ExternalID] = listing
	return &integration.ListingResult{
		MarketplaceID: "mock-" + listing.ExternalID,
		Created:       !exists,
	}, nil
}

// FailSKU makes future listings for sku fail with err
func (m *MockMarketplace) FailSKU(sku string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith[sku] = err
}

// Listing returns the stored listing for an external id
func (m *MockMarketplace) Listing(externalID string) (integration.Listing, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.listings[externalID]
	return l, ok
}

// Count returns the number of stored listings
func (m *MockMarketplace) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listings)
}

// MockSupplier is an in-memory supplier catalogue keyed by SKU
type MockSupplier struct {
	mu       sync.RWMutex
	products map[string]integration.SupplierProduct
}

// NewMockSupplier creates an empty mock supplier
func NewMockSupplier() *MockSupplier {
	return &MockSupplier{products: make(map[string]integration.SupplierProduct)}
}

// Name implements SupplierAdapter
func (s *MockSupplier) Name() string { return integration.MockProviderName }

// IsConfigured implements SupplierAdapter
func (s *MockSupplier) IsConfigured() bool { return true }

// Put adds or replaces a product in the catalogue
func (s *MockSupplier) Put(p integration.SupplierProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[strings.ToUpper(p.SKU)] = p
}

// GetProduct returns the catalogue entry for sku, or nil when absent
func (s *MockSupplier) GetProduct(ctx context.Context, sku string) (*integration.SupplierProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[strings.ToUpper(sku)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

var (
	_ integration.MarketplaceAdapter = (*MockMarketplace)(nil)
	_ integration.SupplierAdapter    = (*MockSupplier)(nil)
)
