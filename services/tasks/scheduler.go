package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// AsynqScheduler arms notification delivery through the asynq queue.
type AsynqScheduler struct {
	Client *asynq.Client
}

func NewAsynqScheduler(opt asynq.RedisClientOpt) *AsynqScheduler {
	return &AsynqScheduler{Client: asynq.NewClient(opt)}
}

// Schedule enqueues a delivery task at the notification's fire time.
// An already-armed occurrence is success, not an error.
func (s *AsynqScheduler) Schedule(ctx context.Context, notificationID string, fireAt time.Time) error {
	task, opts, err := NewDeliveryTask(notificationID, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build delivery task for %s: %w", notificationID, err)
	}
	if _, err := s.Client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("failed to enqueue delivery task for %s: %w", notificationID, err)
	}
	return nil
}

func (s *AsynqScheduler) Close() error {
	return s.Client.Close()
}
