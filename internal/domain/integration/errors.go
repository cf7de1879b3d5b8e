package integration

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopsync/backend/internal/domain/shared"
)

var (
	ErrProviderConfigNotFound     = shared.NewDomainError("NOT_FOUND", "integration: provider config not found")
	ErrProductIntegrationNotFound = shared.NewDomainError("NOT_FOUND", "integration: product integration not found")

	ErrInvalidProviderType    = shared.NewDomainError("INVALID_INPUT", "integration: invalid provider type")
	ErrInvalidProviderName    = shared.NewDomainError("INVALID_INPUT", "integration: provider name is required")
	ErrInvalidIntegrationType = shared.NewDomainError("INVALID_INPUT", "integration: invalid integration type")
	ErrInvalidSyncSchedule    = shared.NewDomainError("INVALID_INPUT", "integration: invalid sync schedule")
	ErrInvalidIntegrationID   = shared.NewDomainError("INVALID_INPUT", "integration: integration id is required")
	ErrInvalidProductID       = shared.NewDomainError("INVALID_INPUT", "integration: invalid product id")
	ErrInvalidBulkAction      = shared.NewDomainError("INVALID_INPUT", "integration: bulk action type must be one of enable, disable, sync")
	ErrEmptyBulkSelection     = shared.NewDomainError("INVALID_INPUT", "integration: integrationIds must be a non-empty list")
	ErrInvalidHealthFilter    = shared.NewDomainError("INVALID_INPUT", "integration: health must be one of healthy, warning, error")
	ErrInvalidStatusFilter    = shared.NewDomainError("INVALID_INPUT", "integration: status must be one of enabled, disabled, error")

	ErrSyncAlreadyRunning   = shared.NewDomainError("CONFLICT", "integration: a sync run is already in progress")
	ErrIntegrationNotActive = shared.NewDomainError("CONFLICT", "integration: integration is not enabled and active")

	// ErrAdapterNotRegistered is returned by adapter registries for unknown names.
	ErrAdapterNotRegistered = errors.New("integration: no adapter registered")
	// ErrAdapterNotConfigured is returned when an adapter lacks the settings it needs.
	ErrAdapterNotConfigured = errors.New("integration: adapter not configured")
)

// MissingFieldsError is returned when a provider is enabled without all of its
// required configuration fields.
type MissingFieldsError struct {
	ProviderType ProviderType
	ProviderName string
	Missing      []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("integration: %s provider %q is missing required fields: %s",
		e.ProviderType, e.ProviderName, strings.Join(e.Missing, ", "))
}

// Is lets callers match a MissingFieldsError against shared.ErrInvalidInput.
func (e *MissingFieldsError) Is(target error) bool {
	return errors.Is(shared.ErrInvalidInput, target)
}
