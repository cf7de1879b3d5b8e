package integration

import (
	"context"

	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/logger"
)

// ProviderConfigService manages provider configurations
type ProviderConfigService struct {
	repo   integration.ProviderConfigRepository
	logger *zap.Logger
}

// NewProviderConfigService creates a new ProviderConfigService
func NewProviderConfigService(repo integration.ProviderConfigRepository, log *zap.Logger) *ProviderConfigService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProviderConfigService{repo: repo, logger: log.Named("provider_config")}
}

// Get returns one provider config
func (s *ProviderConfigService) Get(ctx context.Context, providerType integration.ProviderType, providerName string) (*integration.ProviderConfig, error) {
	if !providerType.IsValid() {
		return nil, integration.ErrInvalidProviderType
	}
	return s.repo.FindByKey(ctx, providerType, providerName)
}

// ListByType returns all configs of a provider type, most recently updated first
func (s *ProviderConfigService) ListByType(ctx context.Context, providerType integration.ProviderType) ([]integration.ProviderConfig, error) {
	if !providerType.IsValid() {
		return nil, integration.ErrInvalidProviderType
	}
	return s.repo.FindByType(ctx, providerType)
}

// Upsert merges patch into the stored config, creating it with defaults when
// absent. When the patch turns the provider on, required fields are checked
// against the merged settings and a *MissingFieldsError is returned without
// writing anything.
func (s *ProviderConfigService) Upsert(ctx context.Context, providerType integration.ProviderType, providerName string, patch integration.ProviderConfigPatch) (*integration.ProviderConfig, error) {
	if !providerType.IsValid() {
		return nil, integration.ErrInvalidProviderType
	}
	cfg, err := s.repo.FindByKey(ctx, providerType, providerName)
	switch {
	case err == nil:
	case isNotFound(err):
		cfg, err = integration.NewProviderConfig(providerType, providerName)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	cfg.Apply(patch)
	if patch.TurnsOn() {
		if err := cfg.ValidateForEnable(); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(ctx, cfg); err != nil {
		return nil, err
	}

	logger.Ctx(ctx, s.logger).Info("Provider config saved",
		zap.String("provider_type", string(providerType)),
		zap.String("provider_name", providerName),
		zap.Bool("is_enabled", cfg.IsEnabled),
		zap.Bool("is_active", cfg.IsActive),
	)
	return cfg, nil
}

// Delete removes a provider config
func (s *ProviderConfigService) Delete(ctx context.Context, providerType integration.ProviderType, providerName string) error {
	if !providerType.IsValid() {
		return integration.ErrInvalidProviderType
	}
	if err := s.repo.Delete(ctx, providerType, providerName); err != nil {
		return err
	}
	logger.Ctx(ctx, s.logger).Info("Provider config deleted",
		zap.String("provider_type", string(providerType)),
		zap.String("provider_name", providerName),
	)
	return nil
}
