package binding

import (
	"context"

	"hearth/models"
)

// Service maintains the at-most-one notification bound to an
// activity/user pair. Unlike the multi-recipient projector, a binding
// is fetched once and updated imperatively; the caller carries the
// bound notification between calls instead of re-fetching.
type Service interface {
	// Fetch re-derives the binding from the store. Returns nil (and
	// no error) when the activity has no bound notification.
	Fetch(ctx context.Context, activityID string, activityType models.ActivityType, userID string) (*models.Notification, error)

	// Update writes the binding's notification: a field update when a
	// bound id is known, a create (and rebind) when it is not or when
	// the bound document vanished out-of-band. A nil Data removes the
	// binding. The returned notification is the caller's new
	// in-memory view.
	Update(ctx context.Context, in UpdateInput) (*models.Notification, error)

	// Delete removes the bound notification. No-op when the id is
	// empty.
	Delete(ctx context.Context, notificationID string) error
}

// UpdateInput carries one binding update.
type UpdateInput struct {
	// Current is the caller's bound notification, nil when none is
	// known.
	Current *models.Notification

	// Data is the new schedule; nil means delete the binding.
	Data *models.ReminderData

	ActivityID   string
	ActivityType models.ActivityType
	UserID       string

	// ActivityName feeds the notification title template.
	ActivityName string

	// EventID is set when the activity hangs off a calendar event; it
	// prefixes the notification's display key.
	EventID string
}
