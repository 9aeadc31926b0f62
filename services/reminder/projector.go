package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"hearth/database/repository/docstore"
	"hearth/models"
	"hearth/utils"
)

const (
	// remindersCollection holds one document per owner; each reminder
	// is one top-level field keyed by its id.
	remindersCollection = "standAloneReminders"

	notificationsCollection = "notifications"

	// linkField is the back-reference a projected notification
	// carries to its standalone reminder.
	linkField = "standAloneReminderId"
)

// DefaultProjectorService is the production projector.
type DefaultProjectorService struct {
	Store docstore.Client
	Sched DeliveryScheduler
}

func (s *DefaultProjectorService) Save(ctx context.Context, ownerID string, rem models.Reminder) error {
	if rem.ID == "" {
		return fmt.Errorf("reminder id is required")
	}
	if err := s.deleteProjection(ctx, rem.ID); err != nil {
		return err
	}
	if err := s.writeEntry(ctx, ownerID, rem); err != nil {
		return err
	}
	if !rem.IsActive {
		return nil
	}
	return s.createProjection(ctx, rem)
}

func (s *DefaultProjectorService) Delete(ctx context.Context, ownerID, reminderID string) error {
	// Notifications go first so a concurrent reader never sees
	// notifications outliving their reminder; a reminder briefly
	// visible with zero notifications is acceptable.
	if err := s.deleteProjection(ctx, reminderID); err != nil {
		return err
	}
	updates := []docstore.FieldUpdate{
		{Path: []string{reminderID}, Value: docstore.DeleteField},
	}
	if err := s.Store.UpdateFields(ctx, remindersCollection, ownerID, updates); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("delete reminder %s: %w", reminderID, ErrReminderNotFound)
		}
		return fmt.Errorf("failed to remove reminder %s: %w", reminderID, err)
	}
	return nil
}

func (s *DefaultProjectorService) ToggleActive(ctx context.Context, ownerID, reminderID string, active bool) error {
	doc, err := s.Store.GetDocument(ctx, remindersCollection, ownerID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return fmt.Errorf("toggle reminder %s: %w", reminderID, ErrReminderNotFound)
		}
		return fmt.Errorf("failed to load reminders for %s: %w", ownerID, err)
	}
	entry, ok := doc[reminderID].(map[string]any)
	if !ok {
		return fmt.Errorf("toggle reminder %s: %w", reminderID, ErrReminderNotFound)
	}
	rem, err := reminderFromEntry(reminderID, entry)
	if err != nil {
		return fmt.Errorf("reminder %s is malformed: %w", reminderID, err)
	}

	entry["isActive"] = active
	entry["updatedAt"] = time.Now().UTC()
	updates := []docstore.FieldUpdate{{Path: []string{reminderID}, Value: entry}}
	if err := s.Store.UpdateFields(ctx, remindersCollection, ownerID, updates); err != nil {
		return fmt.Errorf("failed to update reminder %s: %w", reminderID, err)
	}

	if err := s.deleteProjection(ctx, reminderID); err != nil {
		return err
	}
	if !active {
		return nil
	}
	rem.IsActive = true
	return s.createProjection(ctx, rem)
}

// writeEntry overwrites the reminder's field in the owner's map
// document. First-time authors have no map document yet, so a missing
// document falls back to a merged create instead of surfacing.
func (s *DefaultProjectorService) writeEntry(ctx context.Context, ownerID string, rem models.Reminder) error {
	entry := reminderEntry(rem)
	updates := []docstore.FieldUpdate{{Path: []string{rem.ID}, Value: entry}}
	err := s.Store.UpdateFields(ctx, remindersCollection, ownerID, updates)
	if errors.Is(err, docstore.ErrNotFound) {
		err = s.Store.SetDocument(ctx, remindersCollection, ownerID, map[string]any{rem.ID: entry}, true)
	}
	if err != nil {
		return fmt.Errorf("failed to write reminder %s: %w", rem.ID, err)
	}
	return nil
}

// deleteProjection removes every notification linked to the reminder.
func (s *DefaultProjectorService) deleteProjection(ctx context.Context, reminderID string) error {
	docs, err := s.Store.QueryEquals(ctx, notificationsCollection, map[string]any{linkField: reminderID})
	if err != nil {
		return fmt.Errorf("failed to query notifications for %s: %w", reminderID, err)
	}
	if len(docs) == 0 {
		return nil
	}
	refs := make([]docstore.Ref, 0, len(docs))
	for _, d := range docs {
		refs = append(refs, docstore.Ref{Path: notificationsCollection, ID: d.ID})
	}
	if err := s.Store.BatchDelete(ctx, refs); err != nil {
		return fmt.Errorf("failed to delete notifications for %s: %w", reminderID, err)
	}
	return nil
}

// createProjection fans out one notification per distinct recipient.
// Creates run concurrently; a failed recipient does not cancel the
// others, and whatever was created stays in place for the caller's
// retry to rebuild.
func (s *DefaultProjectorService) createProjection(ctx context.Context, rem models.Reminder) error {
	recipients := dedupe(rem.Recipients)
	now := time.Now().UTC()

	type outcome struct {
		id  string
		err error
	}
	outcomes := make([]outcome, len(recipients))
	var wg sync.WaitGroup
	for i, uid := range recipients {
		wg.Add(1)
		go func(i int, uid string) {
			defer wg.Done()
			id, err := s.Store.CreateDocument(ctx, notificationsCollection, notificationDoc(rem, uid, now))
			outcomes[i] = outcome{id: id, err: err}
		}(i, uid)
	}
	wg.Wait()

	logger := utils.GetLogger()
	var errs error
	created := 0
	for i, o := range outcomes {
		if o.err != nil {
			errs = multierr.Append(errs, fmt.Errorf("recipient %s: %w", recipients[i], o.err))
			continue
		}
		created++
		if s.Sched != nil {
			if err := s.Sched.Schedule(ctx, o.id, rem.Schedule.ScheduledFor); err != nil {
				logger.Warn("failed to arm notification delivery",
					zap.String("notificationId", o.id), zap.Error(err))
			}
		}
	}
	if errs != nil {
		return &PartialWriteError{Created: created, Failed: len(recipients) - created, Err: errs}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
