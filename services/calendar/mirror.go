package calendar

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	"hearth/database/repository/docstore"
	"hearth/models"
	"hearth/services/event"
)

// mirrorIDSuffix joins a provider event id with the start timestamp
// so a mirror event is addressable (provider id and month shard) from
// its composite id alone.
const mirrorIDSuffix = "@google.com-"

// DefaultMirrorService is the production mirror.
type DefaultMirrorService struct {
	Store    docstore.Client
	Shards   event.ShardStore
	Provider Provider
	Cache    *redis.Client
}

func (s *DefaultMirrorService) Save(ctx context.Context, ev models.EventInput, calendarRef string, activities []string) (string, error) {
	calID, err := s.resolveCalendarID(ctx, calendarRef)
	if err != nil {
		return "", err
	}

	providerEventID, err := s.Provider.CreateEvent(ctx, calID, ev)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderRejected, err)
	}

	compositeID := fmt.Sprintf("%s%s%d", providerEventID, mirrorIDSuffix, ev.StartTime.UnixMilli())
	doc := mirrorEventDoc(ev, providerEventID, activities)
	if err := s.Shards.MergeMirrorEvent(ctx, calendarRef, compositeID, doc, ev.StartTime); err != nil {
		// The provider already accepted the event; the mirror is now
		// behind. Surface the divergence instead of hiding it.
		return compositeID, fmt.Errorf("event %s created with provider but mirror write failed: %w", compositeID, err)
	}
	return compositeID, nil
}

func (s *DefaultMirrorService) Delete(ctx context.Context, eventID, calendarRef string) error {
	calID, err := s.resolveCalendarID(ctx, calendarRef)
	if err != nil {
		return err
	}

	providerEventID, startTime, err := splitMirrorEventID(eventID)
	if err != nil {
		return err
	}

	if err := s.Provider.DeleteEvent(ctx, calID, providerEventID); err != nil {
		return fmt.Errorf("%w: %v", ErrProviderRejected, err)
	}
	return s.Shards.RemoveMirrorEvent(ctx, calendarRef, eventID, startTime)
}

func mirrorEventDoc(ev models.EventInput, providerEventID string, activities []string) map[string]any {
	doc := map[string]any{
		"title":           ev.Title,
		"startTime":       ev.StartTime.UTC(),
		"endTime":         ev.EndTime.UTC(),
		"providerEventId": providerEventID,
	}
	if ev.Description != "" {
		doc["description"] = ev.Description
	}
	if ev.Location != "" {
		doc["location"] = ev.Location
	}
	if len(activities) > 0 {
		doc["activities"] = activities
	}
	return doc
}

// splitMirrorEventID recovers the provider event id and the start
// time from a composite mirror event id.
func splitMirrorEventID(eventID string) (string, time.Time, error) {
	providerEventID, rest, ok := strings.Cut(eventID, "@")
	if !ok || providerEventID == "" {
		return "", time.Time{}, fmt.Errorf("malformed mirror event id %q", eventID)
	}
	idx := strings.LastIndex(rest, "-")
	if idx < 0 {
		return "", time.Time{}, fmt.Errorf("malformed mirror event id %q", eventID)
	}
	millis, err := strconv.ParseInt(rest[idx+1:], 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("malformed mirror event id %q: %w", eventID, err)
	}
	return providerEventID, time.UnixMilli(millis).UTC(), nil
}
