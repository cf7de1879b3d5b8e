package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appintegration "github.com/shopsync/backend/internal/application/integration"
	"github.com/shopsync/backend/internal/domain/shared"
	"github.com/shopsync/backend/internal/infrastructure/logger"
	"github.com/shopsync/backend/internal/interfaces/http/dto"
)

// SyncRunner runs the sync loop
type SyncRunner interface {
	Run(ctx context.Context) (*appintegration.SyncRunResult, error)
	SyncOne(ctx context.Context, id int64) (*appintegration.SyncRunResult, error)
}

// SyncHandler serves the scheduler-facing sync trigger
type SyncHandler struct {
	BaseHandler
	sync SyncRunner
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(sync SyncRunner) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// Trigger runs one batch of due integrations. Per-item failures are part of
// a 200 response; only a failure to select the batch is a 500, and its message
// is returned so the scheduler log shows the cause.
func (h *SyncHandler) Trigger(c *gin.Context) {
	result, err := h.sync.Run(c.Request.Context())
	if err != nil {
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			h.HandleError(c, err)
			return
		}
		logger.GetGinLogger(c).Error("Sync run failed", zap.Error(err))
		h.InternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, dto.NewSyncTriggerResponse(result))
}

// SyncOne syncs a single integration immediately
func (h *SyncHandler) SyncOne(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	result, err := h.sync.SyncOne(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSyncTriggerResponse(result))
}
