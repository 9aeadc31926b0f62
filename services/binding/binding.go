package binding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"hearth/database/repository/docstore"
	"hearth/models"
	"hearth/services/reminder"
	"hearth/utils"
)

const notificationsCollection = "notifications"

// DefaultBindingService is the production binding manager.
type DefaultBindingService struct {
	Store docstore.Client
	Sched reminder.DeliveryScheduler
}

func (s *DefaultBindingService) Fetch(ctx context.Context, activityID string, activityType models.ActivityType, userID string) (*models.Notification, error) {
	filters := map[string]any{
		"data." + activityType.LinkField(): activityID,
		"userId":                           userID,
	}
	docs, err := s.Store.QueryEquals(ctx, notificationsCollection, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to query binding for %s %s: %w", activityType, activityID, err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	// The binding invariant allows at most one live match; taking the
	// first tolerates dirt left by interrupted writers.
	n := NotificationFromDoc(docs[0].ID, docs[0].Data)
	return &n, nil
}

func (s *DefaultBindingService) Update(ctx context.Context, in UpdateInput) (*models.Notification, error) {
	if in.Data == nil {
		var boundID string
		if in.Current != nil {
			boundID = in.Current.ID
		}
		if err := s.Delete(ctx, boundID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	doc := s.notificationDoc(in)

	if in.Current != nil && in.Current.ID != "" {
		err := s.Store.UpdateFields(ctx, notificationsCollection, in.Current.ID, fieldUpdates(doc, in.Data.IsRecurring))
		if err == nil {
			n := NotificationFromDoc(in.Current.ID, doc)
			s.arm(ctx, in.Current.ID, in.Data.ScheduledFor)
			return &n, nil
		}
		if !errors.Is(err, docstore.ErrNotFound) {
			return nil, fmt.Errorf("failed to update notification %s: %w", in.Current.ID, err)
		}
		// Bound document deleted out-of-band; fall through to a
		// create and rebind.
	}

	id, err := s.Store.CreateDocument(ctx, notificationsCollection, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification for %s %s: %w", in.ActivityType, in.ActivityID, err)
	}
	n := NotificationFromDoc(id, doc)
	s.arm(ctx, id, in.Data.ScheduledFor)
	return &n, nil
}

func (s *DefaultBindingService) Delete(ctx context.Context, notificationID string) error {
	if notificationID == "" {
		return nil
	}
	if err := s.Store.DeleteDocument(ctx, notificationsCollection, notificationID); err != nil {
		return fmt.Errorf("failed to delete notification %s: %w", notificationID, err)
	}
	return nil
}

func (s *DefaultBindingService) arm(ctx context.Context, notificationID string, fireAt time.Time) {
	if s.Sched == nil {
		return
	}
	if err := s.Sched.Schedule(ctx, notificationID, fireAt); err != nil {
		utils.GetLogger().Warn("failed to arm notification delivery",
			zap.String("notificationId", notificationID), zap.Error(err))
	}
}

// notificationDoc builds the full bound notification document.
func (s *DefaultBindingService) notificationDoc(in UpdateInput) map[string]any {
	displayKey := in.ActivityID
	if in.EventID != "" {
		displayKey = fmt.Sprintf("%s-%s-%s", in.EventID, in.ActivityType, in.ActivityID)
	}
	doc := map[string]any{
		"userId":         in.UserID,
		"title":          fmt.Sprintf("Time for %s", in.ActivityName),
		"message":        fmt.Sprintf("Your %s is coming up.", in.ActivityType),
		"scheduledFor":   in.Data.ScheduledFor.UTC(),
		"isRecurring":    in.Data.IsRecurring,
		"notificationId": displayKey,
		"data": map[string]any{
			in.ActivityType.LinkField(): in.ActivityID,
		},
		"updatedAt": time.Now().UTC(),
	}
	if in.Data.IsRecurring && len(in.Data.RecurringConfig) > 0 {
		doc["recurringConfig"] = map[string]any(in.Data.RecurringConfig)
	}
	return doc
}

// fieldUpdates turns the document into a partial update. Partial
// updates do not drop fields by omission, so a non-recurring schedule
// clears recurringConfig with an explicit delete.
func fieldUpdates(doc map[string]any, isRecurring bool) []docstore.FieldUpdate {
	updates := make([]docstore.FieldUpdate, 0, len(doc)+1)
	for field, value := range doc {
		updates = append(updates, docstore.FieldUpdate{Path: []string{field}, Value: value})
	}
	if !isRecurring {
		updates = append(updates, docstore.FieldUpdate{
			Path:  []string{"recurringConfig"},
			Value: docstore.DeleteField,
		})
	}
	return updates
}

// NotificationFromDoc normalizes a stored notification document,
// whatever timestamp types the store materialized, into the model.
func NotificationFromDoc(id string, data map[string]any) models.Notification {
	n := models.Notification{ID: id}
	n.UserID, _ = data["userId"].(string)
	n.Title, _ = data["title"].(string)
	n.Body, _ = data["message"].(string)
	n.NotificationID, _ = data["notificationId"].(string)
	n.LinkID, _ = data["standAloneReminderId"].(string)
	n.ScheduledFor = utils.NormalizeTimestamp(data["scheduledFor"])
	n.IsRecurring, _ = data["isRecurring"].(bool)
	if cfg, ok := data["recurringConfig"].(map[string]any); ok {
		n.RecurringConfig = models.RecurringConfig(cfg)
	}
	if d, ok := data["data"].(map[string]any); ok {
		n.Data = d
	}
	return n
}
