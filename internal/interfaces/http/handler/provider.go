package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/interfaces/http/dto"
)

// ProviderConfigManager reads and writes provider configs
type ProviderConfigManager interface {
	Get(ctx context.Context, providerType integration.ProviderType, providerName string) (*integration.ProviderConfig, error)
	ListByType(ctx context.Context, providerType integration.ProviderType) ([]integration.ProviderConfig, error)
	Upsert(ctx context.Context, providerType integration.ProviderType, providerName string, patch integration.ProviderConfigPatch) (*integration.ProviderConfig, error)
	Delete(ctx context.Context, providerType integration.ProviderType, providerName string) error
}

// ProviderHandler handles provider config endpoints. Responses never carry
// credentials.
type ProviderHandler struct {
	BaseHandler
	providers ProviderConfigManager
}

// NewProviderHandler creates a new ProviderHandler
func NewProviderHandler(providers ProviderConfigManager) *ProviderHandler {
	return &ProviderHandler{providers: providers}
}

// List returns all configs of one provider type
func (h *ProviderHandler) List(c *gin.Context) {
	configs, err := h.providers.ListByType(c.Request.Context(), integration.ProviderType(c.Param("type")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProviderListResponse(configs))
}

// Get returns one provider config
func (h *ProviderHandler) Get(c *gin.Context) {
	cfg, err := h.providers.Get(c.Request.Context(), integration.ProviderType(c.Param("type")), c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProviderEnvelope{Success: true, Provider: dto.NewProviderConfigResponse(cfg)})
}

// Update merges a partial update into the provider config, creating it if needed
func (h *ProviderHandler) Update(c *gin.Context) {
	var req dto.UpdateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c, err)
		return
	}

	cfg, err := h.providers.Upsert(c.Request.Context(),
		integration.ProviderType(c.Param("type")), c.Param("name"), req.ToPatch())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProviderEnvelope{Success: true, Provider: dto.NewProviderConfigResponse(cfg)})
}

// Delete removes a provider config
func (h *ProviderHandler) Delete(c *gin.Context) {
	if err := h.providers.Delete(c.Request.Context(), integration.ProviderType(c.Param("type")), c.Param("name")); err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}
