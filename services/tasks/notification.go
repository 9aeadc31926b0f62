package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

const TypeNotificationDeliver = "notification:deliver"

// NotificationPayload is the task payload: just the document id. The
// worker re-reads the notification at fire time so edits and deletes
// between arming and firing win.
type NotificationPayload struct {
	NotificationID string `json:"notificationId"`
}

// NewDeliveryTask builds a delivery task for one notification. The
// task id binds the notification to its fire time, so re-arming the
// same occurrence is a no-op while a rescheduled occurrence enqueues
// fresh.
func NewDeliveryTask(notificationID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(NotificationPayload{NotificationID: notificationID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeNotificationDeliver, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(fmt.Sprintf("%s@%d", notificationID, fireAt.UnixMilli())),
	}
	return task, opts, nil
}
