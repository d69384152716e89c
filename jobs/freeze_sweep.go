package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/meridian-hr/meridian-access/internal/jobs"
	"github.com/meridian-hr/meridian-access/internal/tenantstate"
)

// Sweeper reconciles tenant frozen flags with billing status.
type Sweeper interface {
	Sweep(ctx context.Context) (tenantstate.SweepResult, error)
}

// NewFreezeSweepHandler returns the Asynq handler for TaskBillingFreezeSweep.
func NewFreezeSweepHandler(sweeper Sweeper, logger *slog.Logger, metrics *jobmetrics.Metrics) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload FreezeSweepPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		tracker := metrics.Track("billing_freeze_sweep")
		result, err := sweeper.Sweep(ctx)
		if err != nil {
			if logger != nil {
				logger.Error("freeze sweep failed", slog.Any("error", err))
			}
			return tracker.End(err)
		}
		metrics.AddFreezeTransitions(result.Frozen, result.Unfrozen)
		if logger != nil {
			logger.Info("freeze sweep complete",
				slog.Int64("frozen", result.Frozen),
				slog.Int64("unfrozen", result.Unfrozen),
				slog.String("requested_by", payload.RequestedBy))
		}
		return tracker.End(nil)
	}
}
