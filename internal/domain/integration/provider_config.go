package integration

import (
	"context"
	"maps"
	"strings"
	"time"
)

// ProviderType groups providers by the capability they offer
type ProviderType string

const (
	ProviderTypeShipping    ProviderType = "shipping"
	ProviderTypePayment     ProviderType = "payment"
	ProviderTypeEmail       ProviderType = "email"
	ProviderTypeAccounting  ProviderType = "accounting"
	ProviderTypeMarketplace ProviderType = "marketplace"
)

// IsValid returns true if the provider type is known
func (t ProviderType) IsValid() bool {
	switch t {
	case ProviderTypeShipping, ProviderTypePayment, ProviderTypeEmail,
		ProviderTypeAccounting, ProviderTypeMarketplace:
		return true
	default:
		return false
	}
}

// String returns the string representation of ProviderType
func (t ProviderType) String() string {
	return string(t)
}

// ParseProviderType validates s as a ProviderType
func ParseProviderType(s string) (ProviderType, error) {
	t := ProviderType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", ErrInvalidProviderType
	}
	return t, nil
}

// MockProviderName is the provider name used for local testing and demo mode.
// It is exempt from required-field validation.
const MockProviderName = "mock"

// ProviderConfig is the stored configuration of one external provider.
type ProviderConfig struct {
	ID           int64
	ProviderType ProviderType
	ProviderName string
	IsEnabled    bool
	IsActive     bool
	ConfigData   Settings
	// Credentials are secret and never leave the service.
	Credentials  Settings `json:"-"`
	FeatureFlags map[string]bool
	LastSyncedAt *time.Time
	ErrorMessage *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewProviderConfig returns a disabled, inactive config with empty settings
func NewProviderConfig(providerType ProviderType, providerName string) (*ProviderConfig, error) {
	if !providerType.IsValid() {
		return nil, ErrInvalidProviderType
	}
	if strings.TrimSpace(providerName) == "" {
		return nil, ErrInvalidProviderName
	}
	return &ProviderConfig{
		ProviderType: providerType,
		ProviderName: providerName,
		ConfigData:   Settings{},
		Credentials:  Settings{},
		FeatureFlags: map[string]bool{},
	}, nil
}

// HasCredentials reports whether any credential value is stored
func (c *ProviderConfig) HasCredentials() bool {
	return len(c.Credentials) > 0
}

// IsMock reports whether this is the demo provider
func (c *ProviderConfig) IsMock() bool {
	return c.ProviderName == MockProviderName
}

// ProviderConfigPatch is a partial update. Nil fields are left untouched.
type ProviderConfigPatch struct {
	IsEnabled    *bool
	IsActive     *bool
	ConfigData   Settings
	Credentials  Settings
	FeatureFlags map[string]bool
}

// TurnsOn reports whether the patch requests the provider be enabled
func (p ProviderConfigPatch) TurnsOn() bool {
	return p.IsEnabled != nil && *p.IsEnabled
}

// Apply merges the patch into c. ConfigData and Credentials are deep-merged,
// FeatureFlags are merged key by key. Any stored error message is cleared and
// IsActive is forced off when the provider ends up disabled.
func (c *ProviderConfig) Apply(p ProviderConfigPatch) {
	if p.ConfigData != nil {
		c.ConfigData = c.ConfigData.Merge(p.ConfigData)
	}
	if p.Credentials != nil {
		c.Credentials = c.Credentials.Merge(p.Credentials)
	}
	if p.FeatureFlags != nil {
		if c.FeatureFlags == nil {
			c.FeatureFlags = make(map[string]bool, len(p.FeatureFlags))
		}
		maps.Copy(c.FeatureFlags, p.FeatureFlags)
	}
	if p.IsEnabled != nil {
		c.IsEnabled = *p.IsEnabled
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	c.ErrorMessage = nil
	c.Normalize()
}

// Normalize enforces IsActive implies IsEnabled
func (c *ProviderConfig) Normalize() {
	if !c.IsEnabled {
		c.IsActive = false
	}
	if c.ConfigData == nil {
		c.ConfigData = Settings{}
	}
}

// ProviderConfigRepository persists provider configurations
type ProviderConfigRepository interface {
	FindByKey(ctx context.Context, providerType ProviderType, providerName string) (*ProviderConfig, error)
	// FindByType returns configs of one type, most recently updated first.
	FindByType(ctx context.Context, providerType ProviderType) ([]ProviderConfig, error)
	// Save inserts or updates the config identified by (ProviderType, ProviderName).
	Save(ctx context.Context, cfg *ProviderConfig) error
	Delete(ctx context.Context, providerType ProviderType, providerName string) error
}
