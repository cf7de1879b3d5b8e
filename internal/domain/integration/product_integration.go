package integration

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopsync/backend/internal/domain/catalog"
)

// IntegrationType says which direction an integration syncs
type IntegrationType string

const (
	// IntegrationTypeSupplier pulls pricing from an upstream supplier
	IntegrationTypeSupplier IntegrationType = "supplier"
	// IntegrationTypeMarketplace pushes listings to a marketplace
	IntegrationTypeMarketplace IntegrationType = "marketplace"
)

// IsValid returns true if the integration type is known
func (t IntegrationType) IsValid() bool {
	return t == IntegrationTypeSupplier || t == IntegrationTypeMarketplace
}

// String returns the string representation of IntegrationType
func (t IntegrationType) String() string {
	return string(t)
}

// SyncSchedule is the cadence at which an integration becomes due
type SyncSchedule string

const (
	SyncScheduleRealtime SyncSchedule = "realtime"
	SyncScheduleHourly   SyncSchedule = "hourly"
	SyncScheduleDaily    SyncSchedule = "daily"
	SyncScheduleWeekly   SyncSchedule = "weekly"
	SyncScheduleManual   SyncSchedule = "manual"
	// SyncScheduleNone means no schedule was set.
	SyncScheduleNone SyncSchedule = ""
)

// IsValid returns true if the schedule is known, including the empty schedule
func (s SyncSchedule) IsValid() bool {
	switch s {
	case SyncScheduleRealtime, SyncScheduleHourly, SyncScheduleDaily,
		SyncScheduleWeekly, SyncScheduleManual, SyncScheduleNone:
		return true
	default:
		return false
	}
}

// IsAutomatic reports whether the loop picks the integration up on its own
func (s SyncSchedule) IsAutomatic() bool {
	return s != SyncScheduleManual && s != SyncScheduleNone
}

// Interval is the nominal time between syncs. ok is false for manual and unset schedules.
func (s SyncSchedule) Interval() (d time.Duration, ok bool) {
	switch s {
	case SyncScheduleRealtime, SyncScheduleHourly:
		return time.Hour, true
	case SyncScheduleDaily:
		return 24 * time.Hour, true
	case SyncScheduleWeekly:
		return 7 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

// NextSyncAt returns when an integration synced at now is next due.
// Realtime is due immediately; manual and unset schedules are never due.
func (s SyncSchedule) NextSyncAt(now time.Time) *time.Time {
	var next time.Time
	switch s {
	case SyncScheduleRealtime:
		next = now
	case SyncScheduleHourly:
		next = now.Add(time.Hour)
	case SyncScheduleDaily:
		next = now.Add(24 * time.Hour)
	case SyncScheduleWeekly:
		next = now.Add(7 * 24 * time.Hour)
	default:
		return nil
	}
	return &next
}

// ProductIntegration links one product to one supplier or marketplace.
// (ProductID, IntegrationType, IntegrationID) is unique.
type ProductIntegration struct {
	ID              int64
	ProductID       int64
	IntegrationType IntegrationType
	// IntegrationID is the supplier id for supplier integrations and the
	// marketplace account reference for marketplace integrations.
	IntegrationID   string
	IntegrationName string

	IsEnabled bool
	IsActive  bool

	PriceOverride    *decimal.Decimal
	MarginPercentage *decimal.Decimal
	MinPrice         *decimal.Decimal
	MaxPrice         *decimal.Decimal

	QuantityOverride *int
	MinQuantity      *int
	MaxQuantity      *int
	ReserveQuantity  int
	LeadTimeDays     *int

	SyncSchedule      SyncSchedule
	AutoSync          bool
	SyncOnPriceChange bool
	SyncOnStockChange bool
	CustomConfig      Settings

	ErrorMessage *string
	LastSyncedAt *time.Time
	NextSyncAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Product is populated when the integration is loaded with its product.
	Product *catalog.Product
}

// HasError reports whether the last sync attempt failed
func (pi *ProductIntegration) HasError() bool {
	return pi.ErrorMessage != nil && *pi.ErrorMessage != ""
}

// MarkSynced records a successful sync at now
func (pi *ProductIntegration) MarkSynced(now time.Time) {
	pi.LastSyncedAt = &now
	pi.NextSyncAt = pi.SyncSchedule.NextSyncAt(now)
	pi.ErrorMessage = nil
}

// MarkFailed records a failed sync. LastSyncedAt and NextSyncAt are kept so the
// integration stays due and is retried on the next run.
func (pi *ProductIntegration) MarkFailed(message string) {
	pi.ErrorMessage = &message
}

// ProductIntegrationKey identifies an integration by its natural key
type ProductIntegrationKey struct {
	ProductID       int64
	IntegrationType IntegrationType
	IntegrationID   string
}

// ProductIntegrationInput is the admin-editable state of an integration
type ProductIntegrationInput struct {
	ProductIntegrationKey
	IntegrationName string
	IsEnabled       bool

	PriceOverride    *decimal.Decimal
	MarginPercentage *decimal.Decimal
	MinPrice         *decimal.Decimal
	MaxPrice         *decimal.Decimal
	QuantityOverride *int
	MinQuantity      *int
	MaxQuantity      *int
	ReserveQuantity  int
	LeadTimeDays     *int

	SyncSchedule      SyncSchedule
	AutoSync          bool
	SyncOnPriceChange bool
	SyncOnStockChange bool
	CustomConfig      Settings
}

// Validate checks the identity and enum fields of the input
func (in *ProductIntegrationInput) Validate() error {
	if in.ProductID <= 0 {
		return ErrInvalidProductID
	}
	if !in.IntegrationType.IsValid() {
		return ErrInvalidIntegrationType
	}
	if strings.TrimSpace(in.IntegrationID) == "" {
		return ErrInvalidIntegrationID
	}
	if !in.SyncSchedule.IsValid() {
		return ErrInvalidSyncSchedule
	}
	return nil
}

// ApplyInput copies the editable fields from in onto pi. providerIsMock reports
// whether the backing provider is the demo provider; such integrations are never
// active. The stored error is cleared. When the schedule is automatic and no
// next sync is pending, the integration becomes due at now; a manual or unset
// schedule clears NextSyncAt.
func (pi *ProductIntegration) ApplyInput(in ProductIntegrationInput, providerIsMock bool, now time.Time) {
	pi.ProductID = in.ProductID
	pi.IntegrationType = in.IntegrationType
	pi.IntegrationID = in.IntegrationID
	pi.IntegrationName = in.IntegrationName
	pi.IsEnabled = in.IsEnabled
	pi.IsActive = in.IsEnabled && !providerIsMock

	pi.PriceOverride = in.PriceOverride
	pi.MarginPercentage = in.MarginPercentage
	pi.MinPrice = in.MinPrice
	pi.MaxPrice = in.MaxPrice
	pi.QuantityOverride = in.QuantityOverride
	pi.MinQuantity = in.MinQuantity
	pi.MaxQuantity = in.MaxQuantity
	pi.ReserveQuantity = in.ReserveQuantity
	pi.LeadTimeDays = in.LeadTimeDays

	pi.SyncSchedule = in.SyncSchedule
	pi.AutoSync = in.AutoSync
	pi.SyncOnPriceChange = in.SyncOnPriceChange
	pi.SyncOnStockChange = in.SyncOnStockChange
	pi.CustomConfig = in.CustomConfig.Clone()
	if pi.CustomConfig == nil {
		pi.CustomConfig = Settings{}
	}

	pi.ErrorMessage = nil
	switch {
	case !in.SyncSchedule.IsAutomatic():
		pi.NextSyncAt = nil
	case pi.NextSyncAt == nil:
		due := now
		pi.NextSyncAt = &due
	}
}

// StatusFilter narrows integration listings
type StatusFilter string

const (
	StatusFilterAll      StatusFilter = ""
	StatusFilterEnabled  StatusFilter = "enabled"
	StatusFilterDisabled StatusFilter = "disabled"
	StatusFilterError    StatusFilter = "error"
)

// IsValid returns true for a known filter, including no filter
func (f StatusFilter) IsValid() bool {
	switch f {
	case StatusFilterAll, StatusFilterEnabled, StatusFilterDisabled, StatusFilterError:
		return true
	default:
		return false
	}
}

// ListFilter selects integrations for the admin listing
type ListFilter struct {
	Type   IntegrationType
	Status StatusFilter
}

// ProductChange describes what changed on a product
type ProductChange struct {
	Price bool
	Stock bool
}

// ProductIntegrationRepository persists product integrations
type ProductIntegrationRepository interface {
	FindByID(ctx context.Context, id int64) (*ProductIntegration, error)
	FindByKey(ctx context.Context, key ProductIntegrationKey) (*ProductIntegration, error)
	// FindAll returns integrations with their products, newest first.
	FindAll(ctx context.Context, filter ListFilter) ([]ProductIntegration, error)
	// FindDue returns up to limit enabled and active integrations due at now,
	// with product, category and supplier loaded, in id order.
	FindDue(ctx context.Context, now time.Time, limit int) ([]ProductIntegration, error)
	Save(ctx context.Context, pi *ProductIntegration) error

	RecordSyncSuccess(ctx context.Context, id int64, syncedAt time.Time, nextSyncAt *time.Time) error
	RecordSyncFailure(ctx context.Context, id int64, message string) error

	// BulkEnable returns the number of rows matching ids.
	BulkEnable(ctx context.Context, ids []int64) (int64, error)
	// BulkDisable also deactivates, and counts every row matching ids regardless of prior state.
	BulkDisable(ctx context.Context, ids []int64) (int64, error)
	// BulkScheduleSync makes enabled rows among ids due at now and clears their errors.
	BulkScheduleSync(ctx context.Context, ids []int64, now time.Time) (int64, error)

	// MarkDueForProductChange makes auto-sync integrations of a product due at now
	// when they subscribe to the given change.
	MarkDueForProductChange(ctx context.Context, productID int64, change ProductChange, now time.Time) (int64, error)
}
