package integration

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/catalog"
	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/logger"
)

// IntegrationService handles admin edits of product integrations
type IntegrationService struct {
	integrations integration.ProductIntegrationRepository
	products     catalog.ProductRepository
	suppliers    catalog.SupplierRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewIntegrationService creates a new IntegrationService. now defaults to time.Now.
func NewIntegrationService(
	integrations integration.ProductIntegrationRepository,
	products catalog.ProductRepository,
	suppliers catalog.SupplierRepository,
	log *zap.Logger,
	now func() time.Time,
) *IntegrationService {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &IntegrationService{
		integrations: integrations,
		products:     products,
		suppliers:    suppliers,
		logger:       log.Named("integration"),
		now:          now,
	}
}

// List returns integrations matching filter, newest first
func (s *IntegrationService) List(ctx context.Context, filter integration.ListFilter) ([]integration.ProductIntegration, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, integration.ErrInvalidIntegrationType
	}
	if !filter.Status.IsValid() {
		return nil, integration.ErrInvalidStatusFilter
	}
	return s.integrations.FindAll(ctx, filter)
}

// Get returns one integration with its product
func (s *IntegrationService) Get(ctx context.Context, id int64) (*integration.ProductIntegration, error) {
	return s.integrations.FindByID(ctx, id)
}

// Upsert creates or updates the integration identified by the input's key.
// Integrations backed by the demo provider are stored enabled but never active.
func (s *IntegrationService) Upsert(ctx context.Context, in integration.ProductIntegrationInput) (*integration.ProductIntegration, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.products.FindByID(ctx, in.ProductID); err != nil {
		return nil, err
	}
	if in.IntegrationName == "" {
		in.IntegrationName = in.IntegrationID
	}

	isMock, err := s.providerIsMock(ctx, in)
	if err != nil {
		return nil, err
	}

	pi, err := s.integrations.FindByKey(ctx, in.ProductIntegrationKey)
	created := false
	switch {
	case err == nil:
	case isNotFound(err):
		pi = &integration.ProductIntegration{}
		created = true
	default:
		return nil, err
	}

	pi.ApplyInput(in, isMock, s.now())
	if err := s.integrations.Save(ctx, pi); err != nil {
		return nil, err
	}

	logger.Ctx(ctx, s.logger).Info("Product integration saved",
		zap.Int64("integration_id", pi.ID),
		zap.Int64("product_id", pi.ProductID),
		zap.String("integration_type", pi.IntegrationType.String()),
		zap.Bool("created", created),
		zap.Bool("is_active", pi.IsActive),
	)
	return pi, nil
}

// providerIsMock reports whether the provider behind in is the demo provider
func (s *IntegrationService) providerIsMock(ctx context.Context, in integration.ProductIntegrationInput) (bool, error) {
	if in.IntegrationType == integration.IntegrationTypeMarketplace {
		return in.IntegrationName == integration.MockProviderName, nil
	}
	supplierID, err := strconv.ParseInt(in.IntegrationID, 10, 64)
	if err != nil {
		return false, integration.ErrInvalidIntegrationID
	}
	supplier, err := s.suppliers.FindByID(ctx, supplierID)
	if err != nil {
		return false, err
	}
	return supplier.ProviderType == integration.MockProviderName, nil
}

// NotifyProductChanged makes subscribed auto-sync integrations of a product due now
func (s *IntegrationService) NotifyProductChanged(ctx context.Context, productID int64, change integration.ProductChange) (int64, error) {
	if productID <= 0 {
		return 0, integration.ErrInvalidProductID
	}
	n, err := s.integrations.MarkDueForProductChange(ctx, productID, change, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.Ctx(ctx, s.logger).Info("Integrations queued after product change",
			zap.Int64("product_id", productID),
			zap.Bool("price", change.Price),
			zap.Bool("stock", change.Stock),
			zap.Int64("queued", n),
		)
	}
	return n, nil
}
