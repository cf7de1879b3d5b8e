package integration

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/shopsync/backend/internal/domain/catalog"
	"github.com/shopsync/backend/internal/domain/integration"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// =============================================================================
// Mock Repositories
// =============================================================================

// MockProductIntegrationRepository is a mock implementation of ProductIntegrationRepository
type MockProductIntegrationRepository struct {
	mock.Mock
}

func (m *MockProductIntegrationRepository) FindByID(ctx context.Context, id int64) (*integration.ProductIntegration, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProductIntegration), args.Error(1)
}

func (m *MockProductIntegrationRepository) FindByKey(ctx context.Context, key integration.ProductIntegrationKey) (*integration.ProductIntegration, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProductIntegration), args.Error(1)
}

func (m *MockProductIntegrationRepository) FindAll(ctx context.Context, filter integration.ListFilter) ([]integration.ProductIntegration, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.ProductIntegration), args.Error(1)
}

func (m *MockProductIntegrationRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]integration.ProductIntegration, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.ProductIntegration), args.Error(1)
}

func (m *MockProductIntegrationRepository) Save(ctx context.Context, pi *integration.ProductIntegration) error {
	args := m.Called(ctx, pi)
	return args.Error(0)
}

func (m *MockProductIntegrationRepository) RecordSyncSuccess(ctx context.Context, id int64, syncedAt time.Time, nextSyncAt *time.Time) error {
	args := m.Called(ctx, id, syncedAt, nextSyncAt)
	return args.Error(0)
}

func (m *MockProductIntegrationRepository) RecordSyncFailure(ctx context.Context, id int64, message string) error {
	args := m.Called(ctx, id, message)
	return args.Error(0)
}

func (m *MockProductIntegrationRepository) BulkEnable(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductIntegrationRepository) BulkDisable(ctx context.Context, ids []int64) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductIntegrationRepository) BulkScheduleSync(ctx context.Context, ids []int64, now time.Time) (int64, error) {
	args := m.Called(ctx, ids, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductIntegrationRepository) MarkDueForProductChange(ctx context.Context, productID int64, change integration.ProductChange, now time.Time) (int64, error) {
	args := m.Called(ctx, productID, change, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockProviderConfigRepository is a mock implementation of ProviderConfigRepository
type MockProviderConfigRepository struct {
	mock.Mock
}

func (m *MockProviderConfigRepository) FindByKey(ctx context.Context, providerType integration.ProviderType, providerName string) (*integration.ProviderConfig, error) {
	args := m.Called(ctx, providerType, providerName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProviderConfig), args.Error(1)
}

func (m *MockProviderConfigRepository) FindByType(ctx context.Context, providerType integration.ProviderType) ([]integration.ProviderConfig, error) {
	args := m.Called(ctx, providerType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.ProviderConfig), args.Error(1)
}

func (m *MockProviderConfigRepository) Save(ctx context.Context, cfg *integration.ProviderConfig) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockProviderConfigRepository) Delete(ctx context.Context, providerType integration.ProviderType, providerName string) error {
	args := m.Called(ctx, providerType, providerName)
	return args.Error(0)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateSupplierPricing(ctx context.Context, id int64, supplierPrice decimal.Decimal, syncedAt time.Time) error {
	args := m.Called(ctx, id, supplierPrice, syncedAt)
	return args.Error(0)
}

// MockSupplierRepository is a mock implementation of catalog.SupplierRepository
type MockSupplierRepository struct {
	mock.Mock
}

func (m *MockSupplierRepository) FindByID(ctx context.Context, id int64) (*catalog.Supplier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Supplier), args.Error(1)
}

// =============================================================================
// Mock Adapters
// =============================================================================

// MockAdapterRegistry is a mock implementation of AdapterRegistry
type MockAdapterRegistry struct {
	mock.Mock
}

func (m *MockAdapterRegistry) Marketplace(name string, cfg integration.AdapterConfig) (integration.MarketplaceAdapter, error) {
	args := m.Called(name, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(integration.MarketplaceAdapter), args.Error(1)
}

func (m *MockAdapterRegistry) Supplier(providerType string, cfg integration.AdapterConfig) (integration.SupplierAdapter, error) {
	args := m.Called(providerType, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(integration.SupplierAdapter), args.Error(1)
}

// MockMarketplaceAdapter is a mock implementation of MarketplaceAdapter
type MockMarketplaceAdapter struct {
	mock.Mock
}

func (m *MockMarketplaceAdapter) Name() string { return "mock" }

func (m *MockMarketplaceAdapter) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockMarketplaceAdapter) CreateOrUpdateListing(ctx context.Context, listing integration.Listing) (*integration.ListingResult, error) {
	args := m.Called(ctx, listing)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ListingResult), args.Error(1)
}

// MockSupplierAdapter is a mock implementation of SupplierAdapter
type MockSupplierAdapter struct {
	mock.Mock
}

func (m *MockSupplierAdapter) Name() string { return "rest" }

func (m *MockSupplierAdapter) IsConfigured() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockSupplierAdapter) GetProduct(ctx context.Context, sku string) (*integration.SupplierProduct, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.SupplierProduct), args.Error(1)
}

// MockRunLocker is a mock implementation of RunLocker
type MockRunLocker struct {
	mock.Mock
	released int
}

func (m *MockRunLocker) Acquire(ctx context.Context) (func(context.Context) error, error) {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}

// recordingMetrics captures sync outcomes
type recordingMetrics struct {
	outcomes map[string][2]int
	runs     int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{outcomes: map[string][2]int{}}
}

func (r *recordingMetrics) RecordOutcome(_ context.Context, integrationType string, success bool) {
	c := r.outcomes[integrationType]
	if success {
		c[0]++
	} else {
		c[1]++
	}
	r.outcomes[integrationType] = c
}

func (r *recordingMetrics) RecordRun(context.Context, time.Duration) {
	r.runs++
}

// =============================================================================
// Fixtures
// =============================================================================

func testProduct() *catalog.Product {
	supplierID := int64(7)
	return &catalog.Product{
		ID:          42,
		SKU:         "SHOP-42",
		Name:        "Cordless Drill",
		Description: "18V drill",
		Price:       decimal.RequireFromString("100.00"),
		StockStatus: catalog.StockStatusInStock,
		Images:      []string{"https://img.example/42.jpg"},
		Category:    &catalog.Category{ID: 1, Name: "Tools"},
		SupplierID:  &supplierID,
		SupplierSKU: "ACME-42",
	}
}

func marketplaceIntegration(id int64) integration.ProductIntegration {
	return integration.ProductIntegration{
		ID:              id,
		ProductID:       42,
		IntegrationType: integration.IntegrationTypeMarketplace,
		IntegrationID:   "takealot-main",
		IntegrationName: "takealot",
		IsEnabled:       true,
		IsActive:        true,
		SyncSchedule:    integration.SyncScheduleDaily,
		Product:         testProduct(),
	}
}

func supplierIntegration(id int64) integration.ProductIntegration {
	return integration.ProductIntegration{
		ID:              id,
		ProductID:       42,
		IntegrationType: integration.IntegrationTypeSupplier,
		IntegrationID:   "7",
		IntegrationName: "Acme",
		IsEnabled:       true,
		IsActive:        true,
		SyncSchedule:    integration.SyncScheduleHourly,
		Product:         testProduct(),
	}
}

func ptrDecimal(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func ptrBool(b bool) *bool { return &b }
