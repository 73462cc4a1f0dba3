package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/yoldosh/admin-api/internal/auth"
)

// NewSessionSweepHandler returns the handler that prunes stale token
// index entries left behind after Redis expires the tokens themselves.
func NewSessionSweepHandler(logger *slog.Logger, store *auth.TokenStore) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		n, err := store.PruneIndexes(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("stale session index entries pruned", slog.Int("count", n))
		}
		return nil
	}
}
