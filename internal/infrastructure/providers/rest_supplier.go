package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/integration"
)

// RESTSupplierName is the supplier provider type for JSON product feeds
const RESTSupplierName = "rest"

// RESTSupplierConfig holds the settings for a REST supplier feed
type RESTSupplierConfig struct {
	BaseURL string
	APIKey  string
	// APIKeyHeader defaults to X-API-Key.
	APIKeyHeader string
}

// RESTSupplierConfigFrom reads a RESTSupplierConfig from stored supplier settings
func RESTSupplierConfigFrom(cfg integration.AdapterConfig) RESTSupplierConfig {
	header := cfg.Lookup("apiKeyHeader")
	if header == "" {
		header = "X-API-Key"
	}
	return RESTSupplierConfig{
		BaseURL:      strings.TrimRight(cfg.Lookup("baseUrl"), "/"),
		APIKey:       cfg.Lookup("apiKey"),
		APIKeyHeader: header,
	}
}

// RESTSupplierAdapter reads products from GET {baseUrl}/products/{sku}
type RESTSupplierAdapter struct {
	config     RESTSupplierConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewRESTSupplierAdapter creates a REST supplier adapter
func NewRESTSupplierAdapter(config RESTSupplierConfig, client *http.Client, logger *zap.Logger) *RESTSupplierAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RESTSupplierAdapter{
		config:     config,
		httpClient: client,
		logger:     logger.Named("rest_supplier"),
	}
}

// Name implements SupplierAdapter
func (a *RESTSupplierAdapter) Name() string { return RESTSupplierName }

// IsConfigured reports whether a base URL is set
func (a *RESTSupplierAdapter) IsConfigured() bool {
	return a.config.BaseURL != ""
}

type restSupplierProduct struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity *int            `json:"stock_quantity"`
}

// GetProduct fetches one product. A 404 means the supplier does not carry it.
func (a *RESTSupplierAdapter) GetProduct(ctx context.Context, sku string) (*integration.SupplierProduct, error) {
	if !a.IsConfigured() {
		return nil, fmt.Errorf("rest supplier: %w", integration.ErrAdapterNotConfigured)
	}

	endpoint := a.config.BaseURL + "/products/" + url.PathEscape(sku)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("rest supplier: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if a.config.APIKey != "" {
		req.Header.Set(a.config.APIKeyHeader, a.config.APIKey)
	}

	res, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest supplier: request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		a.logger.Debug("Supplier product not found", zap.String("sku", sku))
		return nil, nil
	}
	data, err := io.ReadAll(io.LimitReader(res.Body, maxProviderResponseSize))
	if err != nil {
		return nil, fmt.Errorf("rest supplier: failed to read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("rest supplier: %d %s", res.StatusCode, strings.TrimSpace(string(data)))
	}

	var p restSupplierProduct
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("rest supplier: failed to parse response: %w", err)
	}
	if p.SKU == "" {
		p.SKU = sku
	}
	return &integration.SupplierProduct{
		SKU:           p.SKU,
		Name:          p.Name,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
	}, nil
}

var _ integration.SupplierAdapter = (*RESTSupplierAdapter)(nil)
