package models

import "time"

// RecurringConfig is passed through to notifications verbatim. The
// engine never interprets it except for the optional "rrule" key,
// which the delivery worker uses to compute the next occurrence.
type RecurringConfig map[string]any

// ReminderSchedule is when (and how often) a reminder fires.
type ReminderSchedule struct {
	ScheduledFor    time.Time       `json:"scheduledFor"`
	IsRecurring     bool            `json:"isRecurring"`
	RecurringConfig RecurringConfig `json:"recurringConfig,omitempty"`
}

// RoutingData tells the client which screen of which app a
// notification opens. Opaque to the engine.
type RoutingData struct {
	Screen string `json:"screen"`
	App    App    `json:"app"`
}

// Reminder is a user-authored scheduling intent addressed to one or
// more household members. It lives as one entry, keyed by ID, in the
// owner's reminder map document.
type Reminder struct {
	ID         string           `json:"id"`
	Recipients []string         `json:"recipients"`
	Schedule   ReminderSchedule `json:"schedule"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Data       RoutingData      `json:"data"`
	IsActive   bool             `json:"isActive"`
}
