package models

import "time"

// Notification is a derived, single-recipient scheduled delivery
// record. Notifications are never edited by users directly; the
// projector and the binding manager own their lifecycle.
type Notification struct {
	ID     string         `json:"id"`
	UserID string         `json:"userId"`
	Title  string         `json:"title"`
	Body   string         `json:"body"`
	Data   map[string]any `json:"data,omitempty"`

	// ScheduledFor is normalized to RFC 3339 regardless of how the
	// store materialized the timestamp.
	ScheduledFor    string          `json:"scheduledFor"`
	IsRecurring     bool            `json:"isRecurring"`
	RecurringConfig RecurringConfig `json:"recurringConfig,omitempty"`

	// LinkID points back at the originating standalone reminder or
	// bound activity.
	LinkID string `json:"linkId,omitempty"`

	// NotificationID is the caller-computed idempotency/display key:
	// "<eventId>-<activityType>-<activityId>" when the binding hangs
	// off a calendar event, otherwise the raw activity or reminder id.
	NotificationID string `json:"notificationId"`
}

// ReminderData is the schedule payload of a binding update. A nil
// ReminderData means "remove the binding".
type ReminderData struct {
	ScheduledFor    time.Time       `json:"scheduledFor"`
	IsRecurring     bool            `json:"isRecurring"`
	RecurringConfig RecurringConfig `json:"recurringConfig,omitempty"`
}
