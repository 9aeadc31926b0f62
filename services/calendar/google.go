package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"hearth/models"
)

// GoogleCalendarProvider implements Provider on the Google Calendar
// API.
type GoogleCalendarProvider struct {
	svc *gcal.Service
}

func NewGoogleCalendarProvider(ctx context.Context, credentialsFile string) (*GoogleCalendarProvider, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(gcal.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize google calendar client: %w", err)
	}
	return &GoogleCalendarProvider{svc: svc}, nil
}

func (p *GoogleCalendarProvider) CreateEvent(ctx context.Context, calendarID string, ev models.EventInput) (string, error) {
	created, err := p.svc.Events.Insert(calendarID, &gcal.Event{
		Summary:     ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		Start:       &gcal.EventDateTime{DateTime: ev.StartTime.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: ev.EndTime.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("google calendar insert failed: %w", err)
	}
	return created.Id, nil
}

func (p *GoogleCalendarProvider) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := p.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("google calendar delete failed: %w", err)
	}
	return nil
}
