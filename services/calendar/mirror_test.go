package calendar

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hearth/database/repository/docstore"
	"hearth/models"
	"hearth/services/event"
)

var eventStart = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

type fakeProvider struct {
	nextID     string
	createErr  error
	deleteErr  error
	created    []models.EventInput
	deletedIDs []string
}

func (p *fakeProvider) CreateEvent(ctx context.Context, calendarID string, ev models.EventInput) (string, error) {
	if p.createErr != nil {
		return "", p.createErr
	}
	p.created = append(p.created, ev)
	return p.nextID, nil
}

func (p *fakeProvider) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if p.deleteErr != nil {
		return p.deleteErr
	}
	p.deletedIDs = append(p.deletedIDs, eventID)
	return nil
}

// brokenShardStore fails every shard write.
type brokenShardStore struct {
	event.ShardStore
}

func (brokenShardStore) MergeMirrorEvent(ctx context.Context, ownerEntityID, eventID string, doc map[string]any, startTime time.Time) error {
	return errors.New("shard write failed")
}

func mirrorFixture(t *testing.T, provider Provider) (*DefaultMirrorService, *docstore.MemoryClient) {
	t.Helper()
	store := docstore.NewMemoryClient()
	require.NoError(t, store.SetDocument(context.Background(), "calendars", "cal1", map[string]any{
		"source": map[string]any{"calendarId": "prov-cal"},
	}, false))
	svc := &DefaultMirrorService{
		Store:    store,
		Shards:   event.NewDefaultShardStore(store),
		Provider: provider,
	}
	return svc, store
}

func TestSaveMirrorsEvent(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{nextID: "gev1"}
	svc, store := mirrorFixture(t, provider)

	id, err := svc.Save(ctx, models.EventInput{
		Title:     "Dentist",
		StartTime: eventStart,
		EndTime:   eventStart.Add(time.Hour),
	}, "cal1", []string{"a1"})
	require.NoError(t, err)

	wantID := fmt.Sprintf("gev1@google.com-%d", eventStart.UnixMilli())
	assert.Equal(t, wantID, id)
	require.Len(t, provider.created, 1)

	shard, err := store.GetDocument(ctx, "monthEvents", "cal1_2025-06")
	require.NoError(t, err)
	items := shard["items"].(map[string]any)
	mirrored := items[wantID].(map[string]any)
	assert.Equal(t, "Dentist", mirrored["title"])
	assert.Equal(t, "gev1", mirrored["providerEventId"])
	assert.Equal(t, []string{"a1"}, mirrored["activities"])
}

func TestSaveProviderFailureLeavesMirrorUntouched(t *testing.T) {
	provider := &fakeProvider{createErr: errors.New("quota exceeded")}
	svc, store := mirrorFixture(t, provider)

	id, err := svc.Save(context.Background(), models.EventInput{StartTime: eventStart}, "cal1", nil)
	assert.ErrorIs(t, err, ErrProviderRejected)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Empty(t, id)

	_, err = store.GetDocument(context.Background(), "monthEvents", "cal1_2025-06")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestSaveShardFailureSurfacesDivergence(t *testing.T) {
	provider := &fakeProvider{nextID: "gev1"}
	svc, _ := mirrorFixture(t, provider)
	svc.Shards = brokenShardStore{}

	id, err := svc.Save(context.Background(), models.EventInput{StartTime: eventStart}, "cal1", nil)
	require.Error(t, err)
	// The provider write succeeded; the composite id comes back so
	// the caller can reconcile.
	assert.NotEmpty(t, id)
	assert.Len(t, provider.created, 1)
}

func TestDeleteRemovesProviderAndMirror(t *testing.T) {
	ctx := context.Background()
	provider := &fakeProvider{nextID: "gev1"}
	svc, store := mirrorFixture(t, provider)

	id, err := svc.Save(ctx, models.EventInput{Title: "Dentist", StartTime: eventStart, EndTime: eventStart.Add(time.Hour)}, "cal1", nil)
	require.NoError(t, err)

	// A sibling event in the same month must survive the delete.
	other := fmt.Sprintf("gev2@google.com-%d", eventStart.Add(2*time.Hour).UnixMilli())
	require.NoError(t, svc.Shards.MergeMirrorEvent(ctx, "cal1", other, map[string]any{"title": "Soccer"}, eventStart.Add(2*time.Hour)))

	require.NoError(t, svc.Delete(ctx, id, "cal1"))

	assert.Equal(t, []string{"gev1"}, provider.deletedIDs)
	shard, err := store.GetDocument(ctx, "monthEvents", "cal1_2025-06")
	require.NoError(t, err)
	items := shard["items"].(map[string]any)
	assert.NotContains(t, items, id)
	assert.Contains(t, items, other)
}

func TestDeleteMalformedCompositeID(t *testing.T) {
	svc, _ := mirrorFixture(t, &fakeProvider{})
	err := svc.Delete(context.Background(), "not-a-composite", "cal1")
	assert.Error(t, err)
}

func TestSplitMirrorEventID(t *testing.T) {
	providerID, start, err := splitMirrorEventID("abc123@google.com-1749981600000")
	require.NoError(t, err)
	assert.Equal(t, "abc123", providerID)
	assert.Equal(t, time.UnixMilli(1749981600000).UTC(), start)
}
