package event

import (
	"context"
	"fmt"
	"time"

	"hearth/database/repository/docstore"
	"hearth/models"
)

// monthEventsCollection holds one document per (owner entity, month).
// Document ids are "<ownerEntityId>_<yearMonth>"; the events live in a
// map under "items" keyed by event id.
const monthEventsCollection = "monthEvents"

// ShardKeyFor is the sole sharding function: an event with start
// timestamp T always lives in, and is looked up from, the shard for
// T's UTC calendar month.
func ShardKeyFor(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func shardDocID(ownerEntityID string, t time.Time) string {
	return fmt.Sprintf("%s_%s", ownerEntityID, ShardKeyFor(t))
}

// DefaultShardStore implements ShardStore on the document store.
type DefaultShardStore struct {
	Store docstore.Client
}

func NewDefaultShardStore(store docstore.Client) *DefaultShardStore {
	return &DefaultShardStore{Store: store}
}

func (s *DefaultShardStore) SaveInternalEvent(ctx context.Context, ownerEntityID string, ev models.InternalEvent) error {
	doc := map[string]any{
		"title":     ev.Title,
		"startTime": ev.StartTime,
		"endTime":   ev.EndTime,
	}
	if ev.Description != "" {
		doc["description"] = ev.Description
	}
	if ev.Location != "" {
		doc["location"] = ev.Location
	}
	if ev.CreatedBy != "" {
		doc["createdBy"] = ev.CreatedBy
	}
	if len(ev.Activities) > 0 {
		doc["activities"] = ev.Activities
	}
	return s.merge(ctx, ownerEntityID, ev.Key, doc, ev.StartTime)
}

func (s *DefaultShardStore) DeleteInternalEvent(ctx context.Context, eventKey string, startTime time.Time, ownerEntityID string) error {
	return s.remove(ctx, ownerEntityID, eventKey, startTime)
}

func (s *DefaultShardStore) MergeMirrorEvent(ctx context.Context, ownerEntityID, eventID string, doc map[string]any, startTime time.Time) error {
	return s.merge(ctx, ownerEntityID, eventID, doc, startTime)
}

func (s *DefaultShardStore) RemoveMirrorEvent(ctx context.Context, ownerEntityID, eventID string, startTime time.Time) error {
	return s.remove(ctx, ownerEntityID, eventID, startTime)
}

func (s *DefaultShardStore) merge(ctx context.Context, ownerEntityID, eventID string, doc map[string]any, startTime time.Time) error {
	shardID := shardDocID(ownerEntityID, startTime)
	data := map[string]any{
		"items":     map[string]any{eventID: doc},
		"updatedAt": time.Now().UTC(),
	}
	if err := s.Store.SetDocument(ctx, monthEventsCollection, shardID, data, true); err != nil {
		return fmt.Errorf("failed to merge event %s into shard %s: %w", eventID, shardID, err)
	}
	return nil
}

func (s *DefaultShardStore) remove(ctx context.Context, ownerEntityID, eventID string, startTime time.Time) error {
	shardID := shardDocID(ownerEntityID, startTime)
	updates := []docstore.FieldUpdate{
		{Path: []string{"items", eventID}, Value: docstore.DeleteField},
		{Path: []string{"updatedAt"}, Value: time.Now().UTC()},
	}
	if err := s.Store.UpdateFields(ctx, monthEventsCollection, shardID, updates); err != nil {
		return fmt.Errorf("failed to remove event %s from shard %s: %w", eventID, shardID, err)
	}
	return nil
}
