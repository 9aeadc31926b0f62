package binding

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hearth/database/repository/docstore"
	"hearth/models"
)

var bindAt = time.Date(2025, 7, 10, 18, 30, 0, 0, time.UTC)

func newService() (*DefaultBindingService, *docstore.MemoryClient) {
	store := docstore.NewMemoryClient()
	return &DefaultBindingService{Store: store}, store
}

func updateInput(current *models.Notification, data *models.ReminderData) UpdateInput {
	return UpdateInput{
		Current:      current,
		Data:         data,
		ActivityID:   "c1",
		ActivityType: models.ActivityChecklist,
		UserID:       "u1",
		ActivityName: "Morning routine",
	}
}

func TestFetchNoBinding(t *testing.T) {
	svc, _ := newService()
	n, err := svc.Fetch(context.Background(), "c1", models.ActivityChecklist, "u1")
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestUpdateCreatesWhenUnbound(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	n, err := svc.Update(ctx, updateInput(nil, &models.ReminderData{ScheduledFor: bindAt}))
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "c1", n.NotificationID)

	doc, err := store.GetDocument(ctx, "notifications", n.ID)
	require.NoError(t, err)
	data := doc["data"].(map[string]any)
	assert.Equal(t, "c1", data["checklistId"])
	assert.Equal(t, "u1", doc["userId"])
}

func TestFetchFindsBoundNotification(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	created, err := svc.Update(ctx, updateInput(nil, &models.ReminderData{ScheduledFor: bindAt}))
	require.NoError(t, err)

	n, err := svc.Fetch(ctx, "c1", models.ActivityChecklist, "u1")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, created.ID, n.ID)
	assert.Equal(t, "2025-07-10T18:30:00Z", n.ScheduledFor)
}

func TestUpdateClearsRecurrenceExplicitly(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	recurring := &models.ReminderData{
		ScheduledFor:    bindAt,
		IsRecurring:     true,
		RecurringConfig: models.RecurringConfig{"rrule": "FREQ=DAILY"},
	}
	n, err := svc.Update(ctx, updateInput(nil, recurring))
	require.NoError(t, err)

	doc, err := store.GetDocument(ctx, "notifications", n.ID)
	require.NoError(t, err)
	require.Contains(t, doc, "recurringConfig")

	// Recurring to one-shot: the stale config must not survive the
	// partial update.
	_, err = svc.Update(ctx, updateInput(n, &models.ReminderData{ScheduledFor: bindAt.Add(time.Hour)}))
	require.NoError(t, err)

	doc, err = store.GetDocument(ctx, "notifications", n.ID)
	require.NoError(t, err)
	assert.NotContains(t, doc, "recurringConfig")
	assert.Equal(t, false, doc["isRecurring"])
}

func TestUpdateRebindsWhenDocumentVanished(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	n, err := svc.Update(ctx, updateInput(nil, &models.ReminderData{ScheduledFor: bindAt}))
	require.NoError(t, err)

	// Deleted out-of-band.
	require.NoError(t, store.DeleteDocument(ctx, "notifications", n.ID))

	rebound, err := svc.Update(ctx, updateInput(n, &models.ReminderData{ScheduledFor: bindAt}))
	require.NoError(t, err)
	require.NotNil(t, rebound)
	assert.NotEqual(t, n.ID, rebound.ID)

	_, err = store.GetDocument(ctx, "notifications", rebound.ID)
	assert.NoError(t, err)
}

func TestUpdateWithNilDataDeletes(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()

	n, err := svc.Update(ctx, updateInput(nil, &models.ReminderData{ScheduledFor: bindAt}))
	require.NoError(t, err)

	gone, err := svc.Update(ctx, updateInput(n, nil))
	require.NoError(t, err)
	assert.Nil(t, gone)

	_, err = store.GetDocument(ctx, "notifications", n.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestDeleteNoopWithoutBoundID(t *testing.T) {
	svc, _ := newService()
	assert.NoError(t, svc.Delete(context.Background(), ""))
}

func TestEventScopedDisplayKey(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()

	in := updateInput(nil, &models.ReminderData{ScheduledFor: bindAt})
	in.EventID = "ev9"
	n, err := svc.Update(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "ev9-checklist-c1", n.NotificationID)
}
