package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskNotificationFanout delivers a stored global notification to
	// every active user device.
	TaskNotificationFanout = "notification:fanout"
	// TaskPromocodeSweep deactivates promocodes past their expiry.
	TaskPromocodeSweep = "promocode:sweep"
	// TaskSessionSweep prunes per-admin token index sets whose tokens
	// have expired out of Redis.
	TaskSessionSweep = "session:sweep"
)

// NotificationFanoutPayload identifies the notification to deliver.
type NotificationFanoutPayload struct {
	NotificationID string `json:"notificationId"`
}

// NewNotificationFanoutTask constructs the fan-out task.
func NewNotificationFanoutTask(payload NotificationFanoutPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskNotificationFanout, data, asynq.MaxRetry(5)), nil
}

// NewPromocodeSweepTask constructs the expiry sweep task. It carries no
// payload; the sweep always covers the full table.
func NewPromocodeSweepTask() *asynq.Task {
	return asynq.NewTask(TaskPromocodeSweep, nil)
}

// NewSessionSweepTask constructs the token index sweep task.
func NewSessionSweepTask() *asynq.Task {
	return asynq.NewTask(TaskSessionSweep, nil)
}
