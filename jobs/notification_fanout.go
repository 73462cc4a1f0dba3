package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/yoldosh/admin-api/internal/notifications"
)

// Pusher delivers a message to a batch of device tokens. The production
// implementation talks to the mobile push gateway; tests use a stub.
type Pusher interface {
	Push(ctx context.Context, tokens []string, title, body string) error
}

// LogPusher logs deliveries instead of sending them. Used in development
// where no push gateway is configured.
type LogPusher struct {
	Logger *slog.Logger
}

func (p LogPusher) Push(_ context.Context, tokens []string, _, body string) error {
	p.Logger.Info("push delivery skipped, no gateway configured",
		slog.Int("devices", len(tokens)), slog.String("body", body))
	return nil
}

const pushBatchSize = 500

// NewNotificationFanoutHandler returns the handler for fan-out tasks.
// Delivery is batched; a failed batch fails the task so asynq retries it.
func NewNotificationFanoutHandler(logger *slog.Logger, repo notifications.RepositoryPort, pusher Pusher) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload NotificationFanoutPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		n, err := repo.GetByID(ctx, payload.NotificationID)
		if err != nil {
			return err
		}
		if n.Status == notifications.StatusDispatched {
			return nil
		}

		tokens, err := repo.ActiveDeviceTokens(ctx)
		if err != nil {
			return err
		}
		for start := 0; start < len(tokens); start += pushBatchSize {
			end := start + pushBatchSize
			if end > len(tokens) {
				end = len(tokens)
			}
			if err := pusher.Push(ctx, tokens[start:end], string(n.Type), n.Content); err != nil {
				return err
			}
		}

		if err := repo.MarkDispatched(ctx, n.ID, len(tokens)); err != nil {
			return err
		}
		logger.Info("notification dispatched",
			slog.String("id", n.ID), slog.Int("recipients", len(tokens)))
		return nil
	}
}
