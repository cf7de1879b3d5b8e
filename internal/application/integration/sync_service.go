package integration

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/catalog"
	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/logger"
)

// DefaultSyncBatchSize is the number of due integrations one run processes
const DefaultSyncBatchSize = 50

// RunLocker keeps sync runs from overlapping. Acquire returns
// integration.ErrSyncAlreadyRunning when another run holds the lock.
type RunLocker interface {
	Acquire(ctx context.Context) (func(context.Context) error, error)
}

// SyncRecorder records sync outcomes
type SyncRecorder interface {
	RecordOutcome(ctx context.Context, integrationType string, success bool)
	RecordRun(ctx context.Context, d time.Duration)
}

// SyncService runs due integrations against their providers
type SyncService struct {
	integrations integration.ProductIntegrationRepository
	providers    integration.ProviderConfigRepository
	products     catalog.ProductRepository
	suppliers    catalog.SupplierRepository
	adapters     integration.AdapterRegistry

	locker    RunLocker
	metrics   SyncRecorder
	logger    *zap.Logger
	now       func() time.Time
	batchSize int
}

// SyncOption configures a SyncService
type SyncOption func(*SyncService)

// WithRunLocker guards runs with locker
func WithRunLocker(locker RunLocker) SyncOption {
	return func(s *SyncService) {
		if locker != nil {
			s.locker = locker
		}
	}
}

// WithSyncMetrics records run outcomes on recorder
func WithSyncMetrics(recorder SyncRecorder) SyncOption {
	return func(s *SyncService) {
		s.metrics = recorder
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) SyncOption {
	return func(s *SyncService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithBatchSize overrides how many due integrations a run picks up
func WithBatchSize(n int) SyncOption {
	return func(s *SyncService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// NewSyncService creates a new SyncService
func NewSyncService(
	integrations integration.ProductIntegrationRepository,
	providers integration.ProviderConfigRepository,
	products catalog.ProductRepository,
	suppliers catalog.SupplierRepository,
	adapters integration.AdapterRegistry,
	log *zap.Logger,
	opts ...SyncOption,
) *SyncService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &SyncService{
		integrations: integrations,
		providers:    providers,
		products:     products,
		suppliers:    suppliers,
		adapters:     adapters,
		locker:       noopLocker{},
		logger:       log.Named("integration_sync"),
		now:          time.Now,
		batchSize:    DefaultSyncBatchSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type noopLocker struct{}

func (noopLocker) Acquire(context.Context) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

// Run syncs every integration that is due, up to the batch size. A failing
// integration does not stop the run; its error is recorded on the row and
// reported in the result.
func (s *SyncService) Run(ctx context.Context) (*SyncRunResult, error) {
	ctx, log := logger.WithSyncRunID(ctx, logger.Ctx(ctx, s.logger), uuid.NewString())

	release, err := s.locker.Acquire(ctx)
	if err != nil {
		if errors.Is(err, integration.ErrSyncAlreadyRunning) {
			log.Info("Sync run skipped, another run holds the lock")
		}
		return nil, err
	}
	defer func() {
		if err := release(context.WithoutCancel(ctx)); err != nil {
			log.Warn("Failed to release sync run lock", zap.Error(err))
		}
	}()

	started := time.Now()
	now := s.now()

	due, err := s.integrations.FindDue(ctx, now, s.batchSize)
	if err != nil {
		return nil, fmt.Errorf("select due integrations: %w", err)
	}

	log.Info("Sync run started", zap.Int("due", len(due)))

	result := &SyncRunResult{Errors: []string{}}
	for i := range due {
		s.syncInto(ctx, &due[i], now, result)
	}
	result.Timestamp = s.now()

	if s.metrics != nil {
		s.metrics.RecordRun(ctx, time.Since(started))
	}

	log.Info("Sync run finished",
		zap.Int("processed", result.Processed),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// SyncOne syncs a single integration immediately, regardless of its schedule.
// The integration must be enabled and active.
func (s *SyncService) SyncOne(ctx context.Context, id int64) (*SyncRunResult, error) {
	pi, err := s.integrations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pi.IsEnabled || !pi.IsActive {
		return nil, integration.ErrIntegrationNotActive
	}

	result := &SyncRunResult{Errors: []string{}}
	s.syncInto(ctx, pi, s.now(), result)
	result.Timestamp = s.now()
	return result, nil
}

// syncInto processes one integration and folds its outcome into result
func (s *SyncService) syncInto(ctx context.Context, pi *integration.ProductIntegration, now time.Time, result *SyncRunResult) {
	log := logger.Ctx(ctx, s.logger).With(
		zap.Int64("integration_id", pi.ID),
		zap.String("integration_type", pi.IntegrationType.String()),
		zap.String("integration_name", pi.IntegrationName),
	)

	result.Processed++
	err := s.syncSafely(ctx, pi, now)
	if err == nil {
		err = s.integrations.RecordSyncSuccess(ctx, pi.ID, now, pi.SyncSchedule.NextSyncAt(now))
		if err != nil {
			err = fmt.Errorf("record sync success: %w", err)
		}
	} else if recErr := s.integrations.RecordSyncFailure(ctx, pi.ID, err.Error()); recErr != nil {
		log.Error("Failed to record sync failure", zap.Error(recErr))
	}

	success := err == nil
	if success {
		result.Succeeded++
		log.Debug("Integration synced")
	} else {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", pi.IntegrationName, err.Error()))
		log.Warn("Integration sync failed", zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.RecordOutcome(ctx, pi.IntegrationType.String(), success)
	}
}

func (s *SyncService) syncSafely(ctx context.Context, pi *integration.ProductIntegration, now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sync panicked: %v", r)
		}
	}()

	if pi.Product == nil {
		return fmt.Errorf("product %d not found", pi.ProductID)
	}

	switch pi.IntegrationType {
	case integration.IntegrationTypeMarketplace:
		return s.syncMarketplace(ctx, pi)
	case integration.IntegrationTypeSupplier:
		return s.syncSupplier(ctx, pi, now)
	default:
		return fmt.Errorf("unknown integration type %q", pi.IntegrationType)
	}
}

func (s *SyncService) syncMarketplace(ctx context.Context, pi *integration.ProductIntegration) error {
	notConfigured := fmt.Errorf("marketplace provider %s is not configured", pi.IntegrationName)

	cfg, err := s.providers.FindByKey(ctx, integration.ProviderTypeMarketplace, pi.IntegrationName)
	if err != nil {
		if isNotFound(err) {
			return notConfigured
		}
		return fmt.Errorf("load marketplace provider: %w", err)
	}
	if !cfg.IsEnabled {
		return notConfigured
	}

	adapter, err := s.adapters.Marketplace(pi.IntegrationName, integration.AdapterConfig{
		ConfigData:  cfg.ConfigData,
		Credentials: cfg.Credentials,
	})
	if err != nil {
		if errors.Is(err, integration.ErrAdapterNotRegistered) {
			return notConfigured
		}
		return err
	}
	if !adapter.IsConfigured() {
		return notConfigured
	}

	product := pi.Product
	listing := integration.Listing{
		ExternalID:  strconv.FormatInt(product.ID, 10),
		SKU:         product.SKU,
		Title:       product.Name,
		Description: product.Description,
		Price:       pi.EffectivePrice(product),
		Currency:    integration.ListingCurrency,
		Quantity:    pi.EffectiveQuantity(product),
		Category:    product.CategoryName(),
		Images:      product.Images,
		Condition:   integration.ListingConditionNew,
	}

	res, err := adapter.CreateOrUpdateListing(ctx, listing)
	if err != nil {
		return err
	}
	logger.Ctx(ctx, s.logger).Debug("Listing published",
		zap.String("sku", listing.SKU),
		zap.String("marketplace_id", res.MarketplaceID),
		zap.Bool("created", res.Created),
	)
	return nil
}

func (s *SyncService) syncSupplier(ctx context.Context, pi *integration.ProductIntegration, now time.Time) error {
	supplierID, err := strconv.ParseInt(pi.IntegrationID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid supplier id %q", pi.IntegrationID)
	}

	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("supplier %d not found", supplierID)
		}
		return fmt.Errorf("load supplier: %w", err)
	}

	adapter, err := s.adapters.Supplier(supplier.ProviderType, integration.AdapterConfig{
		ConfigData:  integration.Settings(supplier.ProviderConfig),
		Credentials: integration.Settings{},
	})
	if err != nil {
		return fmt.Errorf("supplier provider %s: %w", supplier.ProviderType, err)
	}
	if !adapter.IsConfigured() {
		return fmt.Errorf("supplier provider %s is not configured", supplier.ProviderType)
	}

	sku := pi.Product.SupplierLookupSKU()
	sp, err := adapter.GetProduct(ctx, sku)
	if err != nil {
		return err
	}
	if sp == nil {
		logger.Ctx(ctx, s.logger).Debug("Supplier does not carry product", zap.String("sku", sku))
		return nil
	}

	if err := s.products.UpdateSupplierPricing(ctx, pi.ProductID, sp.Price, now); err != nil {
		return fmt.Errorf("update supplier pricing: %w", err)
	}
	return nil
}
