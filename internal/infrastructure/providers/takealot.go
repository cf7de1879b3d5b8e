package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/integration"
)

const (
	// TakealotName is the marketplace provider name for Takealot
	TakealotName = "takealot"
	// TakealotDefaultBaseURL is the production seller API
	TakealotDefaultBaseURL = "https://seller-api.takealot.com"

	// maxProviderResponseSize limits how much of a provider response is read
	maxProviderResponseSize = 1 << 20
)

// TakealotConfig holds the settings for the Takealot seller API
type TakealotConfig struct {
	APIKey   string
	SellerID string
	BaseURL  string
}

// TakealotConfigFrom reads a TakealotConfig from stored provider settings.
// A baseUrl setting overrides defaultBaseURL.
func TakealotConfigFrom(cfg integration.AdapterConfig, defaultBaseURL string) TakealotConfig {
	base := cfg.Lookup("baseUrl")
	if base == "" {
		base = defaultBaseURL
	}
	if base == "" {
		base = TakealotDefaultBaseURL
	}
	return TakealotConfig{
		APIKey:   cfg.Lookup("apiKey"),
		SellerID: cfg.Lookup("sellerId"),
		BaseURL:  strings.TrimRight(base, "/"),
	}
}

// TakealotAdapter upserts offers through the Takealot seller API
type TakealotAdapter struct {
	config     TakealotConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewTakealotAdapter creates a Takealot adapter
func NewTakealotAdapter(config TakealotConfig, client *http.Client, logger *zap.Logger) *TakealotAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TakealotAdapter{
		config:     config,
		httpClient: client,
		logger:     logger.Named("takealot"),
	}
}

// Name implements MarketplaceAdapter
func (a *TakealotAdapter) Name() string { return TakealotName }

// IsConfigured reports whether an API key and seller id are present
func (a *TakealotAdapter) IsConfigured() bool {
	return a.config.APIKey != "" && a.config.SellerID != ""
}

type takealotOfferRequest struct {
	SKU           string          `json:"sku"`
	Title         string          `json:"title,omitempty"`
	Description   string          `json:"description,omitempty"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Currency      string          `json:"currency"`
	Quantity      int             `json:"quantity"`
	Category      string          `json:"category,omitempty"`
	Images        []string        `json:"images,omitempty"`
	Condition     string          `json:"condition"`
	MerchantRefID string          `json:"merchant_reference"`
}

type takealotOfferResponse struct {
	OfferID json.RawMessage `json:"offer_id"`
	Message string          `json:"message"`
}

// offerID renders the offer id whether the API sent it as a number or a string
func (r *takealotOfferResponse) offerID() string {
	return strings.Trim(strings.TrimSpace(string(r.OfferID)), `"`)
}

// CreateOrUpdateListing updates the offer for the listing's SKU, creating it
// when the marketplace does not know the SKU yet.
func (a *TakealotAdapter) CreateOrUpdateListing(ctx context.Context, listing integration.Listing) (*integration.ListingResult, error) {
	if !a.IsConfigured() {
		return nil, fmt.Errorf("takealot: %w", integration.ErrAdapterNotConfigured)
	}

	body := takealotOfferRequest{
		SKU:           listing.SKU,
		Title:         listing.Title,
		Description:   listing.Description,
		SellingPrice:  listing.Price,
		Currency:      listing.Currency,
		Quantity:      listing.Quantity,
		Category:      listing.Category,
		Images:        listing.Images,
		Condition:     listing.Condition,
		MerchantRefID: listing.ExternalID,
	}

	updatePath := "/v2/offers/by_sku/" + url.PathEscape(listing.SKU)
	resp, status, err := a.do(ctx, http.MethodPatch, updatePath, body)
	if err != nil {
		return nil, err
	}
	created := false
	if status == http.StatusNotFound {
		a.logger.Debug("Offer not found, creating", zap.String("sku", listing.SKU))
		resp, status, err = a.do(ctx, http.MethodPost, "/v2/offers", body)
		if err != nil {
			return nil, err
		}
		created = true
	}
	if status < 200 || status >= 300 {
		msg := resp.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		return nil, fmt.Errorf("takealot: %d %s", status, msg)
	}

	return &integration.ListingResult{
		MarketplaceID: resp.offerID(),
		Created:       created,
	}, nil
}

func (a *TakealotAdapter) do(ctx context.Context, method, path string, payload any) (*takealotOfferResponse, int, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("takealot: failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, 0, fmt.Errorf("takealot: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Key "+a.config.APIKey)
	req.Header.Set("X-Seller-Id", a.config.SellerID)

	res, err := a.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("takealot: request failed: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxProviderResponseSize))
	if err != nil {
		return nil, res.StatusCode, fmt.Errorf("takealot: failed to read response: %w", err)
	}

	var out takealotOfferResponse
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &out); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) && (res.StatusCode < 200 || res.StatusCode >= 300) {
				out.Message = strings.TrimSpace(string(data))
				return &out, res.StatusCode, nil
			}
			return nil, res.StatusCode, fmt.Errorf("takealot: failed to parse response: %w", err)
		}
	}
	return &out, res.StatusCode, nil
}

var _ integration.MarketplaceAdapter = (*TakealotAdapter)(nil)
