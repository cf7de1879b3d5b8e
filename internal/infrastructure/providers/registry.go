// Package providers holds the concrete marketplace and supplier adapters and
// the static registry the sync loop resolves them from.
package providers

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/integration"
)

// MarketplaceFactory builds a marketplace adapter from stored settings
type MarketplaceFactory func(cfg integration.AdapterConfig) (integration.MarketplaceAdapter, error)

// SupplierFactory builds a supplier adapter from stored settings
type SupplierFactory func(cfg integration.AdapterConfig) (integration.SupplierAdapter, error)

// Registry maps adapter names to factories. It is filled at startup and read
// concurrently afterwards.
type Registry struct {
	mu           sync.RWMutex
	marketplaces map[string]MarketplaceFactory
	suppliers    map[string]SupplierFactory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		marketplaces: make(map[string]MarketplaceFactory),
		suppliers:    make(map[string]SupplierFactory),
	}
}

// RegisterMarketplace registers a marketplace factory under name
func (r *Registry) RegisterMarketplace(name string, f MarketplaceFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marketplaces[normalizeName(name)] = f
}

// RegisterSupplier registers a supplier factory under a supplier provider type
func (r *Registry) RegisterSupplier(providerType string, f SupplierFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[normalizeName(providerType)] = f
}

// Marketplace builds the marketplace adapter registered under name
func (r *Registry) Marketplace(name string, cfg integration.AdapterConfig) (integration.MarketplaceAdapter, error) {
	r.mu.RLock()
	f, ok := r.marketplaces[normalizeName(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: marketplace %q", integration.ErrAdapterNotRegistered, name)
	}
	return f(cfg)
}

// Supplier builds the supplier adapter registered under providerType
func (r *Registry) Supplier(providerType string, cfg integration.AdapterConfig) (integration.SupplierAdapter, error) {
	r.mu.RLock()
	f, ok := r.suppliers[normalizeName(providerType)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: supplier %q", integration.ErrAdapterNotRegistered, providerType)
	}
	return f(cfg)
}

// MarketplaceNames lists registered marketplace adapters
func (r *Registry) MarketplaceNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.marketplaces))
	for name := range r.marketplaces {
		names = append(names, name)
	}
	return names
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Options configures the default adapter set
type Options struct {
	HTTPTimeout     time.Duration
	TakealotBaseURL string
	// MockMarketplace and MockSupplier are shared by every mock adapter built
	// by the registry. New instances are created when nil.
	MockMarketplace *MockMarketplace
	MockSupplier    *MockSupplier
	Logger          *zap.Logger
}

// NewDefaultRegistry registers the built-in adapters
func NewDefaultRegistry(opts Options) *Registry {
	if opts.HTTPTimeout <= 0 {
		opts.HTTPTimeout = 30 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MockMarketplace == nil {
		opts.MockMarketplace = NewMockMarketplace()
	}
	if opts.MockSupplier == nil {
		opts.MockSupplier = NewMockSupplier()
	}

	client := &http.Client{Timeout: opts.HTTPTimeout}
	r := NewRegistry()

	r.RegisterMarketplace(integration.MockProviderName, func(integration.AdapterConfig) (integration.MarketplaceAdapter, error) {
		return opts.MockMarketplace, nil
	})
	r.RegisterMarketplace(TakealotName, func(cfg integration.AdapterConfig) (integration.MarketplaceAdapter, error) {
		return NewTakealotAdapter(TakealotConfigFrom(cfg, opts.TakealotBaseURL), client, opts.Logger), nil
	})

	r.RegisterSupplier(integration.MockProviderName, func(integration.AdapterConfig) (integration.SupplierAdapter, error) {
		return opts.MockSupplier, nil
	})
	r.RegisterSupplier(RESTSupplierName, func(cfg integration.AdapterConfig) (integration.SupplierAdapter, error) {
		return NewRESTSupplierAdapter(RESTSupplierConfigFrom(cfg), client, opts.Logger), nil
	})

	return r
}

var _ integration.AdapterRegistry = (*Registry)(nil)
