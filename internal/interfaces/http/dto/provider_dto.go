package dto

import (
	"time"

	"github.com/shopsync/backend/internal/domain/integration"
)

// ProviderConfigResponse is a provider config with credentials stripped
type ProviderConfigResponse struct {
	ID             int64           `json:"id"`
	ProviderType   string          `json:"providerType"`
	ProviderName   string          `json:"providerName"`
	IsEnabled      bool            `json:"isEnabled"`
	IsActive       bool            `json:"isActive"`
	ConfigData     map[string]any  `json:"configData"`
	FeatureFlags   map[string]bool `json:"featureFlags"`
	HasCredentials bool            `json:"hasCredentials"`
	LastSyncedAt   *time.Time      `json:"lastSyncedAt"`
	ErrorMessage   *string         `json:"errorMessage"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewProviderConfigResponse converts a domain config. Credentials never leave
// this function; only their presence is reported.
func NewProviderConfigResponse(c *integration.ProviderConfig) ProviderConfigResponse {
	resp := ProviderConfigResponse{
		ID:             c.ID,
		ProviderType:   string(c.ProviderType),
		ProviderName:   c.ProviderName,
		IsEnabled:      c.IsEnabled,
		IsActive:       c.IsActive,
		ConfigData:     map[string]any(c.ConfigData),
		FeatureFlags:   c.FeatureFlags,
		HasCredentials: c.HasCredentials(),
		LastSyncedAt:   c.LastSyncedAt,
		ErrorMessage:   c.ErrorMessage,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
	if resp.ConfigData == nil {
		resp.ConfigData = map[string]any{}
	}
	if resp.FeatureFlags == nil {
		resp.FeatureFlags = map[string]bool{}
	}
	return resp
}

// ProviderEnvelope wraps a single provider config
type ProviderEnvelope struct {
	Success  bool                   `json:"success"`
	Provider ProviderConfigResponse `json:"provider"`
}

// ProviderListResponse is the body of GET /providers/:type
type ProviderListResponse struct {
	Success   bool                     `json:"success"`
	Providers []ProviderConfigResponse `json:"providers"`
	Count     int                      `json:"count"`
}

// NewProviderListResponse converts a list of configs
func NewProviderListResponse(configs []integration.ProviderConfig) ProviderListResponse {
	out := make([]ProviderConfigResponse, len(configs))
	for i := range configs {
		out[i] = NewProviderConfigResponse(&configs[i])
	}
	return ProviderListResponse{Success: true, Providers: out, Count: len(out)}
}

// UpdateProviderRequest is the partial body of PUT /providers/:type/:name
type UpdateProviderRequest struct {
	IsEnabled    *bool           `json:"isEnabled"`
	IsActive     *bool           `json:"isActive"`
	ConfigData   map[string]any  `json:"configData"`
	Credentials  map[string]any  `json:"credentials"`
	FeatureFlags map[string]bool `json:"featureFlags"`
}

// ToPatch converts the request to a domain patch
func (r *UpdateProviderRequest) ToPatch() integration.ProviderConfigPatch {
	return integration.ProviderConfigPatch{
		IsEnabled:    r.IsEnabled,
		IsActive:     r.IsActive,
		ConfigData:   integration.Settings(r.ConfigData),
		Credentials:  integration.Settings(r.Credentials),
		FeatureFlags: r.FeatureFlags,
	}
}

// SuccessResponse is a bare acknowledgement
type SuccessResponse struct {
	Success bool `json:"success"`
}
