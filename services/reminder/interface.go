package reminder

import (
	"context"
	"time"

	"hearth/models"
)

// ProjectorService keeps the Notification set of a standalone
// reminder consistent with its schedule, recipient list and active
// flag. All operations are idempotent under retry: the projection is
// rebuilt with delete-then-recreate, never merged.
type ProjectorService interface {
	// Save writes the reminder into the owner's reminder map and, if
	// the reminder is active, projects one notification per
	// recipient. Any previous projection for the same reminder id is
	// torn down first.
	Save(ctx context.Context, ownerID string, rem models.Reminder) error

	// Delete tears down the reminder's projection and then removes
	// the reminder entry itself.
	Delete(ctx context.Context, ownerID, reminderID string) error

	// ToggleActive flips the active flag and rebuilds or removes the
	// projection accordingly.
	ToggleActive(ctx context.Context, ownerID, reminderID string, active bool) error
}

// DeliveryScheduler arms delivery of a created notification. Failures
// to arm are logged, not surfaced: the sweep picks stragglers up.
type DeliveryScheduler interface {
	Schedule(ctx context.Context, notificationID string, fireAt time.Time) error
}
