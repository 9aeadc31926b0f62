package calendar

import (
	"context"
	"errors"

	"hearth/models"
)

// ErrCalendarNotResolvable means neither the current nor the legacy
// descriptor schema yielded a provider calendar id.
var ErrCalendarNotResolvable = errors.New("calendar not resolvable")

// ErrProviderRejected wraps failures reported by the external
// calendar provider. They are surfaced verbatim, never retried here.
var ErrProviderRejected = errors.New("calendar provider rejected request")

// MirrorService pushes internally authored events to the external
// calendar provider and keeps the month-shard mirror aligned with
// provider state.
type MirrorService interface {
	// Save creates the event with the provider and merges a mirror
	// copy into the calendar's month shard. Returns the composite
	// mirror event id. A mirror write failing after the provider
	// accepted the event leaves the two stores divergent; the error
	// says so and still carries the composite id.
	Save(ctx context.Context, ev models.EventInput, calendarRef string, activities []string) (string, error)

	// Delete removes the event from the provider and from its month
	// shard, both addressed from the composite event id alone.
	Delete(ctx context.Context, eventID, calendarRef string) error
}

// Provider is the external calendar API surface this engine consumes.
type Provider interface {
	CreateEvent(ctx context.Context, calendarID string, ev models.EventInput) (string, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}
