package integration

import (
	"errors"
	"time"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/domain/shared"
)

// SyncRunResult summarizes one sync run
type SyncRunResult struct {
	Processed int       `json:"processed"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Errors    []string  `json:"errors"`
	Timestamp time.Time `json:"timestamp"`
}

// IntegrationHealth is an integration together with its derived health
type IntegrationHealth struct {
	integration.ProductIntegration
	Health integration.Health
}

// HealthReport is the health overview of all integrations
type HealthReport struct {
	Stats        integration.HealthStats
	Integrations []IntegrationHealth
}

// BulkActionResult reports how many rows a bulk action touched
type BulkActionResult struct {
	Action   integration.BulkActionType `json:"action"`
	Affected int64                      `json:"affected"`
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
