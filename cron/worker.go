package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"hearth/config"
	"hearth/database/repository/docstore"
	"hearth/services/binding"
	"hearth/services/push"
	"hearth/services/reminder"
	"hearth/services/tasks"
	"hearth/utils"
)

const notificationsCollection = "notifications"

// rescheduleSkew is how far in the future a notification's stored
// fire time may sit before a firing task is treated as stale (the
// notification was rescheduled and a fresh task is armed for it).
const rescheduleSkew = time.Minute

// InitNotificationWorker runs the asynq delivery worker in the
// background.
func InitNotificationWorker(store docstore.Client, sender push.Sender, sched reminder.DeliveryScheduler) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(redisOpts, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeNotificationDeliver, handleDeliveryTask(store, sender, sched))

	go func() {
		logger := utils.GetLogger()
		logger.Info("starting notification delivery worker")
		if err := srv.Run(mux); err != nil {
			logger.Fatal("notification delivery worker failed", zap.Error(err))
		}
	}()
}

func handleDeliveryTask(store docstore.Client, sender push.Sender, sched reminder.DeliveryScheduler) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p tasks.NotificationPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid delivery task payload", zap.Error(err))
			return err
		}

		doc, err := store.GetDocument(ctx, notificationsCollection, p.NotificationID)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				// Torn down between arming and firing; nothing to do.
				return nil
			}
			return fmt.Errorf("failed to load notification %s: %w", p.NotificationID, err)
		}

		n := binding.NotificationFromDoc(p.NotificationID, doc)
		fireAt, ok := utils.AsTime(doc["scheduledFor"])
		if !ok {
			logger.Warn("notification has no usable fire time", zap.String("notificationId", n.ID))
			return nil
		}
		if fireAt.After(time.Now().Add(rescheduleSkew)) {
			// Rescheduled after this task was armed.
			return nil
		}
		if sentAt, ok := utils.AsTime(doc["sentAt"]); ok && !sentAt.Before(fireAt) {
			// This occurrence already went out. The sweep re-arms
			// anything in its lookback window and task-id uniqueness
			// lapses once a task completes, so duplicates land here.
			return nil
		}

		if err := sender.SendPush(ctx, n); err != nil {
			logger.Error("push delivery failed",
				zap.String("notificationId", n.ID), zap.Error(err))
			return err
		}

		updates := []docstore.FieldUpdate{
			{Path: []string{"sentAt"}, Value: time.Now().UTC()},
		}
		next, hasNext := time.Time{}, false
		if n.IsRecurring {
			next, hasNext = nextOccurrence(n.RecurringConfig, fireAt)
		}
		if hasNext {
			updates = append(updates, docstore.FieldUpdate{Path: []string{"scheduledFor"}, Value: next})
		}
		if err := store.UpdateFields(ctx, notificationsCollection, n.ID, updates); err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("failed to stamp notification %s: %w", n.ID, err)
		}
		if hasNext {
			if err := sched.Schedule(ctx, n.ID, next); err != nil {
				logger.Warn("failed to re-arm recurring notification",
					zap.String("notificationId", n.ID), zap.Error(err))
			}
		}
		return nil
	}
}

// nextOccurrence computes the occurrence following after, using the
// optional rrule carried in the recurrence config.
func nextOccurrence(cfg map[string]any, after time.Time) (time.Time, bool) {
	raw, _ := cfg["rrule"].(string)
	if raw == "" {
		return time.Time{}, false
	}
	rule, err := rrule.StrToRRule(raw)
	if err != nil {
		return time.Time{}, false
	}
	rule.DTStart(after)
	next := rule.After(after, false)
	if next.IsZero() {
		return time.Time{}, false
	}
	return next.UTC(), true
}

// StartDeliverySweep periodically arms every notification due within
// the horizon. Arming is idempotent, so the sweep and the inline
// arming done at write time can overlap freely; the sweep exists to
// pick up notifications whose inline arming failed.
func StartDeliverySweep(ctx context.Context, store docstore.Client, sched reminder.DeliveryScheduler, interval, horizon time.Duration) {
	logger := utils.GetLogger()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("delivery sweep shutdown signal received")
			return
		case <-ticker.C:
			now := time.Now().UTC()
			docs, err := store.Query(ctx, notificationsCollection, []docstore.Filter{
				{Field: "scheduledFor", Op: ">=", Value: now.Add(-time.Hour)},
				{Field: "scheduledFor", Op: "<=", Value: now.Add(horizon)},
			})
			if err != nil {
				logger.Error("delivery sweep query failed", zap.Error(err))
				continue
			}
			for _, d := range docs {
				fireAt, ok := utils.AsTime(d.Data["scheduledFor"])
				if !ok {
					continue
				}
				if err := sched.Schedule(ctx, d.ID, fireAt); err != nil {
					logger.Warn("delivery sweep failed to arm notification",
						zap.String("notificationId", d.ID), zap.Error(err))
				}
			}
		}
	}
}
