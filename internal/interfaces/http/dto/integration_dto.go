package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	appintegration "github.com/shopsync/backend/internal/application/integration"
	"github.com/shopsync/backend/internal/domain/catalog"
	"github.com/shopsync/backend/internal/domain/integration"
)

// SyncTriggerResponse is the body of a completed sync run
type SyncTriggerResponse struct {
	Success   bool      `json:"success"`
	Processed int       `json:"processed"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Errors    []string  `json:"errors"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSyncTriggerResponse converts a run result
func NewSyncTriggerResponse(r *appintegration.SyncRunResult) SyncTriggerResponse {
	errs := r.Errors
	if errs == nil {
		errs = []string{}
	}
	return SyncTriggerResponse{
		Success:   true,
		Processed: r.Processed,
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
		Errors:    errs,
		Timestamp: r.Timestamp,
	}
}

// ProductSummary is the product embedded in integration responses
type ProductSummary struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	StockStatus string          `json:"stockStatus"`
	Category    string          `json:"category,omitempty"`
}

// IntegrationResponse is a product integration as exposed to the admin UI
type IntegrationResponse struct {
	ID              int64  `json:"id"`
	ProductID       int64  `json:"productId"`
	IntegrationType string `json:"integrationType"`
	IntegrationID   string `json:"integrationId"`
	IntegrationName string `json:"integrationName"`
	IsEnabled       bool   `json:"isEnabled"`
	IsActive        bool   `json:"isActive"`

	PriceOverride    *decimal.Decimal `json:"priceOverride"`
	MarginPercentage *decimal.Decimal `json:"marginPercentage"`
	MinPrice         *decimal.Decimal `json:"minPrice"`
	MaxPrice         *decimal.Decimal `json:"maxPrice"`
	QuantityOverride *int             `json:"quantityOverride"`
	MinQuantity      *int             `json:"minQuantity"`
	MaxQuantity      *int             `json:"maxQuantity"`
	ReserveQuantity  int              `json:"reserveQuantity"`
	LeadTimeDays     *int             `json:"leadTimeDays"`

	SyncSchedule      string         `json:"syncSchedule"`
	AutoSync          bool           `json:"autoSync"`
	SyncOnPriceChange bool           `json:"syncOnPriceChange"`
	SyncOnStockChange bool           `json:"syncOnStockChange"`
	CustomConfig      map[string]any `json:"customConfig"`

	ErrorMessage *string    `json:"errorMessage"`
	LastSyncedAt *time.Time `json:"lastSyncedAt"`
	NextSyncAt   *time.Time `json:"nextSyncAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	Product *ProductSummary `json:"product,omitempty"`
	Health  string          `json:"health,omitempty"`
}

// NewIntegrationResponse converts a domain integration
func NewIntegrationResponse(pi *integration.ProductIntegration) IntegrationResponse {
	resp := IntegrationResponse{
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
		CustomConfig:      map[string]any(pi.CustomConfig),
		ErrorMessage:      pi.ErrorMessage,
		LastSyncedAt:      pi.LastSyncedAt,
		NextSyncAt:        pi.NextSyncAt,
		CreatedAt:         pi.CreatedAt,
		UpdatedAt:         pi.UpdatedAt,
	}
	if resp.CustomConfig == nil {
		resp.CustomConfig = map[string]any{}
	}
	if pi.Product != nil {
		resp.Product = newProductSummary(pi.Product)
	}
	return resp
}

func newProductSummary(p *catalog.Product) *ProductSummary {
	return &ProductSummary{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Price:       p.Price,
		StockStatus: string(p.StockStatus),
		Category:    p.CategoryName(),
	}
}

// IntegrationListResponse is the body of GET /integrations
type IntegrationListResponse struct {
	Success      bool                  `json:"success"`
	Integrations []IntegrationResponse `json:"integrations"`
	Count        int                   `json:"count"`
}

// NewIntegrationListResponse converts a list of integrations
func NewIntegrationListResponse(rows []integration.ProductIntegration) IntegrationListResponse {
	out := make([]IntegrationResponse, len(rows))
	for i := range rows {
		out[i] = NewIntegrationResponse(&rows[i])
	}
	return IntegrationListResponse{Success: true, Integrations: out, Count: len(out)}
}

// IntegrationEnvelope wraps a single integration
type IntegrationEnvelope struct {
	Success     bool                `json:"success"`
	Integration IntegrationResponse `json:"integration"`
}

// ListIntegrationsQuery are the filters of GET /integrations
type ListIntegrationsQuery struct {
	Type   string `form:"type" binding:"omitempty,oneof=supplier marketplace"`
	Status string `form:"status" binding:"omitempty,oneof=enabled disabled error"`
}

// UpsertIntegrationRequest is the body of POST /integrations
type UpsertIntegrationRequest struct {
	ProductID       int64  `json:"productId" binding:"required,min=1"`
	IntegrationType string `json:"integrationType" binding:"required,oneof=supplier marketplace"`
	IntegrationID   string `json:"integrationId" binding:"required,max=100"`
	IntegrationName string `json:"integrationName" binding:"max=100"`
	IsEnabled       bool   `json:"isEnabled"`

	PriceOverride    *decimal.Decimal `json:"priceOverride"`
	MarginPercentage *decimal.Decimal `json:"marginPercentage"`
	MinPrice         *decimal.Decimal `json:"minPrice"`
	MaxPrice         *decimal.Decimal `json:"maxPrice"`
	QuantityOverride *int             `json:"quantityOverride" binding:"omitempty,min=0"`
	MinQuantity      *int             `json:"minQuantity" binding:"omitempty,min=0"`
	MaxQuantity      *int             `json:"maxQuantity" binding:"omitempty,min=0"`
	ReserveQuantity  int              `json:"reserveQuantity" binding:"min=0"`
	LeadTimeDays     *int             `json:"leadTimeDays" binding:"omitempty,min=0"`

	SyncSchedule      string         `json:"syncSchedule" binding:"omitempty,oneof=realtime hourly daily weekly manual"`
	AutoSync          bool           `json:"autoSync"`
	SyncOnPriceChange bool           `json:"syncOnPriceChange"`
	SyncOnStockChange bool           `json:"syncOnStockChange"`
	CustomConfig      map[string]any `json:"customConfig"`
}

// ToInput converts the request to a domain input
func (r *UpsertIntegrationRequest) ToInput() integration.ProductIntegrationInput {
	return integration.ProductIntegrationInput{
		ProductIntegrationKey: integration.ProductIntegrationKey{
			ProductID:       r.ProductID,
			IntegrationType: integration.IntegrationType(r.IntegrationType),
			IntegrationID:   strings.TrimSpace(r.IntegrationID),
		},
		IntegrationName:   strings.TrimSpace(r.IntegrationName),
		IsEnabled:         r.IsEnabled,
		PriceOverride:     r.PriceOverride,
		MarginPercentage:  r.MarginPercentage,
		MinPrice:          r.MinPrice,
		MaxPrice:          r.MaxPrice,
		QuantityOverride:  r.QuantityOverride,
		MinQuantity:       r.MinQuantity,
		MaxQuantity:       r.MaxQuantity,
		ReserveQuantity:   r.ReserveQuantity,
		LeadTimeDays:      r.LeadTimeDays,
		SyncSchedule:      integration.SyncSchedule(r.SyncSchedule),
		AutoSync:          r.AutoSync,
		SyncOnPriceChange: r.SyncOnPriceChange,
		SyncOnStockChange: r.SyncOnStockChange,
		CustomConfig:      integration.Settings(r.CustomConfig),
	}
}

// FlexibleID is an integration id given either as a JSON number or a numeric string
type FlexibleID int64

// UnmarshalJSON implements json.Unmarshaler
func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	raw := bytes.Trim(bytes.TrimSpace(b), `"`)
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid integration id %s", b)
	}
	*id = FlexibleID(n)
	return nil
}

// BulkActionRequest is the body of POST /integrations/bulk
type BulkActionRequest struct {
	Type           string       `json:"type"`
	IntegrationIDs []FlexibleID `json:"integrationIds"`
}

// IDs returns the requested ids as int64
func (r *BulkActionRequest) IDs() []int64 {
	out := make([]int64, len(r.IntegrationIDs))
	for i, id := range r.IntegrationIDs {
		out[i] = int64(id)
	}
	return out
}

// BulkActionResponse is the body of a completed bulk action
type BulkActionResponse struct {
	Success  bool   `json:"success"`
	Action   string `json:"action"`
	Affected int64  `json:"affected"`
}

// HealthResponse is the body of GET /integrations/health
type HealthResponse struct {
	Success      bool                    `json:"success"`
	Stats        integration.HealthStats `json:"stats"`
	Integrations []IntegrationResponse   `json:"integrations"`
}

// NewHealthResponse converts a health report
func NewHealthResponse(r *appintegration.HealthReport) HealthResponse {
	out := make([]IntegrationResponse, len(r.Integrations))
	for i := range r.Integrations {
		out[i] = NewIntegrationResponse(&r.Integrations[i].ProductIntegration)
		out[i].Health = string(r.Integrations[i].Health)
	}
	return HealthResponse{Success: true, Stats: r.Stats, Integrations: out}
}

// ProductChangeRequest is the body of POST /integrations/products/:productId/changes
type ProductChangeRequest struct {
	Price bool `json:"price"`
	Stock bool `json:"stock"`
}

// ProductChangeResponse reports how many integrations were queued
type ProductChangeResponse struct {
	Success bool  `json:"success"`
	Queued  int64 `json:"queued"`
}

var _ json.Unmarshaler = (*FlexibleID)(nil)
