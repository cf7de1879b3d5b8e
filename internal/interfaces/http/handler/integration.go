package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	appintegration "github.com/shopsync/backend/internal/application/integration"
	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/interfaces/http/dto"
)

// IntegrationManager is the admin side of product integrations
type IntegrationManager interface {
	List(ctx context.Context, filter integration.ListFilter) ([]integration.ProductIntegration, error)
	Get(ctx context.Context, id int64) (*integration.ProductIntegration, error)
	Upsert(ctx context.Context, in integration.ProductIntegrationInput) (*integration.ProductIntegration, error)
	NotifyProductChanged(ctx context.Context, productID int64, change integration.ProductChange) (int64, error)
}

// BulkActionPerformer applies bulk actions
type BulkActionPerformer interface {
	PerformBulkAction(ctx context.Context, action integration.BulkActionType, ids []int64) (*appintegration.BulkActionResult, error)
}

// HealthReporter builds the integration health dashboard
type HealthReporter interface {
	Report(ctx context.Context, healthFilter string) (*appintegration.HealthReport, error)
}

// IntegrationHandler handles product integration admin endpoints
type IntegrationHandler struct {
	BaseHandler
	integrations IntegrationManager
	bulk         BulkActionPerformer
	health       HealthReporter
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(integrations IntegrationManager, bulk BulkActionPerformer, health HealthReporter) *IntegrationHandler {
	return &IntegrationHandler{
		integrations: integrations,
		bulk:         bulk,
		health:       health,
	}
}

// List returns integrations filtered by type and status
func (h *IntegrationHandler) List(c *gin.Context) {
	var q dto.ListIntegrationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	rows, err := h.integrations.List(c.Request.Context(), integration.ListFilter{
		Type:   integration.IntegrationType(q.Type),
		Status: integration.StatusFilter(q.Status),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewIntegrationListResponse(rows))
}

// Get returns one integration
func (h *IntegrationHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	pi, err := h.integrations.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.IntegrationEnvelope{Success: true, Integration: dto.NewIntegrationResponse(pi)})
}

// Upsert creates or updates an integration on its composite key
func (h *IntegrationHandler) Upsert(c *gin.Context) {
	var req dto.UpsertIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	pi, err := h.integrations.Upsert(c.Request.Context(), req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.IntegrationEnvelope{Success: true, Integration: dto.NewIntegrationResponse(pi)})
}

// Bulk applies enable, disable or sync to a set of integrations
func (h *IntegrationHandler) Bulk(c *gin.Context) {
	var req dto.BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c, err)
		return
	}

	result, err := h.bulk.PerformBulkAction(c.Request.Context(), integration.BulkActionType(req.Type), req.IDs())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BulkActionResponse{
		Success:  true,
		Action:   string(result.Action),
		Affected: result.Affected,
	})
}

// Health returns per-integration health and bucket counts
func (h *IntegrationHandler) Health(c *gin.Context) {
	report, err := h.health.Report(c.Request.Context(), c.Query("health"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewHealthResponse(report))
}

// ProductChanged queues integrations of a product whose price or stock changed
func (h *IntegrationHandler) ProductChanged(c *gin.Context) {
	productID, ok := h.parseID(c, "productId")
	if !ok {
		return
	}
	var req dto.ProductChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.InvalidJSON(c, err)
		return
	}

	queued, err := h.integrations.NotifyProductChanged(c.Request.Context(), productID, integration.ProductChange{
		Price: req.Price,
		Stock: req.Stock,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProductChangeResponse{Success: true, Queued: queued})
}
