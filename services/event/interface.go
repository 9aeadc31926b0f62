package event

import (
	"context"
	"time"

	"hearth/models"
)

// ShardStore maintains the per-entity, per-month event documents used
// for internally authored events and for the external calendar
// mirror. Every mutation is field-level: shards are never read whole
// and written back whole, so concurrent writers of unrelated keys in
// the same month cannot lose each other's updates.
type ShardStore interface {
	// SaveInternalEvent merges an authored event into the owner's
	// shard for the event's start month.
	SaveInternalEvent(ctx context.Context, ownerEntityID string, ev models.InternalEvent) error

	// DeleteInternalEvent removes one event key from the shard
	// addressed by its start time.
	DeleteInternalEvent(ctx context.Context, eventKey string, startTime time.Time, ownerEntityID string) error

	// MergeMirrorEvent writes a provider-backed mirror event into the
	// calendar's shard for the given start time.
	MergeMirrorEvent(ctx context.Context, ownerEntityID, eventID string, doc map[string]any, startTime time.Time) error

	// RemoveMirrorEvent removes a mirror event from the shard its
	// start time addresses.
	RemoveMirrorEvent(ctx context.Context, ownerEntityID, eventID string, startTime time.Time) error
}
