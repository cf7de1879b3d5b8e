package integration

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shopsync/backend/internal/domain/integration"
	"github.com/shopsync/backend/internal/infrastructure/logger"
)

// BulkService applies admin actions to many integrations at once
type BulkService struct {
	integrations integration.ProductIntegrationRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewBulkService creates a new BulkService. now defaults to time.Now.
func NewBulkService(integrations integration.ProductIntegrationRepository, log *zap.Logger, now func() time.Time) *BulkService {
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &BulkService{integrations: integrations, logger: log.Named("integration_bulk"), now: now}
}

// PerformBulkAction applies action to ids. Unknown ids are ignored; duplicate
// ids count once. Sync only touches enabled integrations and leaves the actual
// work to the next run.
func (s *BulkService) PerformBulkAction(ctx context.Context, action integration.BulkActionType, ids []int64) (*BulkActionResult, error) {
	action, err := integration.ParseBulkActionType(string(action))
	if err != nil {
		return nil, err
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, integration.ErrEmptyBulkSelection
	}

	var affected int64
	switch action {
	case integration.BulkActionEnable:
		affected, err = s.integrations.BulkEnable(ctx, ids)
	case integration.BulkActionDisable:
		affected, err = s.integrations.BulkDisable(ctx, ids)
	case integration.BulkActionSync:
		affected, err = s.integrations.BulkScheduleSync(ctx, ids, s.now())
	}
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx, s.logger).Info("Bulk action applied",
		zap.String("action", string(action)),
		zap.Int("requested", len(ids)),
		zap.Int64("affected", affected),
	)
	return &BulkActionResult{Action: action, Affected: affected}, nil
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
