package models

import "time"

// EventInput is an authored calendar event before it has an id.
type EventInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
}

// InternalEvent is an event authored inside the app, stored in the
// owner entity's month shard under its event key.
type InternalEvent struct {
	Key         string    `json:"key"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	CreatedBy   string    `json:"createdBy,omitempty"`
	Activities  []string  `json:"activities,omitempty"`
}

// CalendarDescriptor is the stored representation of a linked
// external calendar. Two schema generations coexist: current
// descriptors carry Source.CalendarID, legacy ones only the
// address-style CalendarAddress from which the provider id must be
// parsed.
type CalendarDescriptor struct {
	Name            string         `json:"name,omitempty"`
	CalendarAddress string         `json:"calendarAddress,omitempty"`
	Source          CalendarSource `json:"source,omitempty"`
}

type CalendarSource struct {
	CalendarID string `json:"calendarId,omitempty"`
}
