package calendar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hearth/database/repository/docstore"
)

func resolverFixture(t *testing.T, descriptor map[string]any) *DefaultMirrorService {
	t.Helper()
	store := docstore.NewMemoryClient()
	if descriptor != nil {
		require.NoError(t, store.SetDocument(context.Background(), "calendars", "cal1", descriptor, false))
	}
	return &DefaultMirrorService{Store: store}
}

func TestResolveCurrentSchema(t *testing.T) {
	svc := resolverFixture(t, map[string]any{
		"source": map[string]any{"calendarId": "family@group.calendar.google.com"},
	})
	id, err := svc.resolveCalendarID(context.Background(), "cal1")
	require.NoError(t, err)
	assert.Equal(t, "family@group.calendar.google.com", id)
}

func TestResolveLegacySchema(t *testing.T) {
	svc := resolverFixture(t, map[string]any{
		"calendarAddress": "https://calendar.google.com/calendar/ical/parents%40gmail.com/private-abc123/basic.ics",
	})
	id, err := svc.resolveCalendarID(context.Background(), "cal1")
	require.NoError(t, err)
	assert.Equal(t, "parents@gmail.com", id)
}

func TestResolvePrefersCurrentSchema(t *testing.T) {
	svc := resolverFixture(t, map[string]any{
		"source":          map[string]any{"calendarId": "current-id"},
		"calendarAddress": "https://calendar.google.com/calendar/ical/legacy%40gmail.com/basic.ics",
	})
	id, err := svc.resolveCalendarID(context.Background(), "cal1")
	require.NoError(t, err)
	assert.Equal(t, "current-id", id)
}

func TestResolveNeitherSchema(t *testing.T) {
	svc := resolverFixture(t, map[string]any{"name": "Family"})
	_, err := svc.resolveCalendarID(context.Background(), "cal1")
	assert.ErrorIs(t, err, ErrCalendarNotResolvable)
}

func TestResolveMissingDescriptor(t *testing.T) {
	svc := resolverFixture(t, nil)
	_, err := svc.resolveCalendarID(context.Background(), "cal1")
	assert.ErrorIs(t, err, ErrCalendarNotResolvable)
}
