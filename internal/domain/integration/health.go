package integration

import "time"

// Health is a read-time classification of an integration
type Health string

const (
	HealthHealthy Health = "healthy"
	HealthWarning Health = "warning"
	HealthError   Health = "error"
)

// IsValid returns true if the health value is known
func (h Health) IsValid() bool {
	return h == HealthHealthy || h == HealthWarning || h == HealthError
}

// staleWithoutSchedule is the staleness limit when no schedule interval applies.
const staleWithoutSchedule = 48 * time.Hour

// ClassifyHealth derives the health of pi at now. A stored error always wins.
// Otherwise a disabled, inactive, never-synced or stale integration is a
// warning. Stale means more than twice the schedule interval since the last
// sync, or more than 48 hours when the schedule has no interval.
func ClassifyHealth(pi *ProductIntegration, now time.Time) Health {
	if pi.HasError() {
		return HealthError
	}
	if !pi.IsEnabled || !pi.IsActive || pi.LastSyncedAt == nil {
		return HealthWarning
	}

	since := now.Sub(*pi.LastSyncedAt)
	limit := staleWithoutSchedule
	if interval, ok := pi.SyncSchedule.Interval(); ok {
		limit = 2 * interval
	}
	if since > limit {
		return HealthWarning
	}
	return HealthHealthy
}

// HealthStats aggregates integration health
type HealthStats struct {
	Total               int            `json:"total"`
	Enabled             int            `json:"enabled"`
	Active              int            `json:"active"`
	WithErrors          int            `json:"withErrors"`
	SyncedWithinLast24h int            `json:"syncedLast24h"`
	NeverSynced         int            `json:"neverSynced"`
	ByType              map[string]int `json:"byType"`
	ByHealth            map[string]int `json:"byHealth"`
}

// NewHealthStats returns zeroed stats with every health bucket present
func NewHealthStats() HealthStats {
	return HealthStats{
		ByType: map[string]int{},
		ByHealth: map[string]int{
			string(HealthHealthy): 0,
			string(HealthWarning): 0,
			string(HealthError):   0,
		},
	}
}

// Add counts pi, already classified as h, at now
func (s *HealthStats) Add(pi *ProductIntegration, h Health, now time.Time) {
	s.Total++
	if pi.IsEnabled {
		s.Enabled++
		if pi.IsActive {
			s.Active++
		}
	}
	if pi.HasError() {
		s.WithErrors++
	}
	if pi.LastSyncedAt == nil {
		s.NeverSynced++
	} else if now.Sub(*pi.LastSyncedAt) <= 24*time.Hour {
		s.SyncedWithinLast24h++
	}
	s.ByType[string(pi.IntegrationType)]++
	s.ByHealth[string(h)]++
}
