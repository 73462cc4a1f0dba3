package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/yoldosh/admin-api/internal/promocodes"
)

// NewPromocodeSweepHandler returns the handler for scheduled expiry
// sweeps.
func NewPromocodeSweepHandler(logger *slog.Logger, svc *promocodes.Service) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		n, err := svc.SweepExpired(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("expired promocodes deactivated", slog.Int("count", n))
		}
		return nil
	}
}
