package integration

import (
	"context"
	"time"

	"github.com/shopsync/backend/internal/domain/integration"
)

// HealthService reports the health of all integrations
type HealthService struct {
	integrations integration.ProductIntegrationRepository
	now          func() time.Time
}

// NewHealthService creates a new HealthService. now defaults to time.Now.
func NewHealthService(integrations integration.ProductIntegrationRepository, now func() time.Time) *HealthService {
	if now == nil {
		now = time.Now
	}
	return &HealthService{integrations: integrations, now: now}
}

// Report classifies every integration and aggregates the totals. Stats always
// cover every integration; healthFilter, when set, only narrows the returned
// list.
func (s *HealthService) Report(ctx context.Context, healthFilter string) (*HealthReport, error) {
	filter := integration.Health(healthFilter)
	if filter != "" && !filter.IsValid() {
		return nil, integration.ErrInvalidHealthFilter
	}

	rows, err := s.integrations.FindAll(ctx, integration.ListFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	report := &HealthReport{
		Stats:        integration.NewHealthStats(),
		Integrations: make([]IntegrationHealth, 0, len(rows)),
	}
	for i := range rows {
		h := integration.ClassifyHealth(&rows[i], now)
		report.Stats.Add(&rows[i], h, now)
		if filter == "" || filter == h {
			report.Integrations = append(report.Integrations, IntegrationHealth{
				ProductIntegration: rows[i],
				Health:             h,
			})
		}
	}
	return report, nil
}
