package reminder

import (
	"fmt"
	"time"

	"hearth/models"
	"hearth/utils"
)

// reminderEntry renders the reminder as its map-document field value.
func reminderEntry(rem models.Reminder) map[string]any {
	schedule := map[string]any{
		"scheduledFor": rem.Schedule.ScheduledFor.UTC(),
		"isRecurring":  rem.Schedule.IsRecurring,
	}
	if rem.Schedule.IsRecurring && len(rem.Schedule.RecurringConfig) > 0 {
		schedule["recurringConfig"] = map[string]any(rem.Schedule.RecurringConfig)
	}
	return map[string]any{
		"id":         rem.ID,
		"recipients": rem.Recipients,
		"schedule":   schedule,
		"title":      rem.Title,
		"message":    rem.Message,
		"data": map[string]any{
			"screen": rem.Data.Screen,
			"app":    string(rem.Data.App),
		},
		"isActive":  rem.IsActive,
		"updatedAt": time.Now().UTC(),
	}
}

// reminderFromEntry rebuilds a reminder from its stored field value.
func reminderFromEntry(id string, entry map[string]any) (models.Reminder, error) {
	rem := models.Reminder{ID: id}
	rem.Recipients = stringSlice(entry["recipients"])
	rem.Title, _ = entry["title"].(string)
	rem.Message, _ = entry["message"].(string)
	rem.IsActive, _ = entry["isActive"].(bool)

	if data, ok := entry["data"].(map[string]any); ok {
		rem.Data.Screen, _ = data["screen"].(string)
		if app, ok := data["app"].(string); ok {
			rem.Data.App = models.App(app)
		}
	}

	schedule, ok := entry["schedule"].(map[string]any)
	if !ok {
		return rem, fmt.Errorf("reminder %s has no schedule", id)
	}
	at, ok := utils.AsTime(schedule["scheduledFor"])
	if !ok {
		return rem, fmt.Errorf("reminder %s has no scheduled time", id)
	}
	rem.Schedule.ScheduledFor = at
	rem.Schedule.IsRecurring, _ = schedule["isRecurring"].(bool)
	if cfg, ok := schedule["recurringConfig"].(map[string]any); ok {
		rem.Schedule.RecurringConfig = models.RecurringConfig(cfg)
	}
	return rem, nil
}

// notificationDoc builds one recipient's projected notification.
func notificationDoc(rem models.Reminder, userID string, now time.Time) map[string]any {
	doc := map[string]any{
		"userId":       userID,
		"title":        rem.Title,
		"message":      rem.Message,
		"scheduledFor": rem.Schedule.ScheduledFor.UTC(),
		"isRecurring":  rem.Schedule.IsRecurring,
		linkField:      rem.ID,
		// Standalone reminders use their own id as the display key.
		"notificationId": rem.ID,
		"data": map[string]any{
			"screen": rem.Data.Screen,
			"app":    string(rem.Data.App),
		},
		"createdAt": now,
	}
	if rem.Schedule.IsRecurring && len(rem.Schedule.RecurringConfig) > 0 {
		doc["recurringConfig"] = map[string]any(rem.Schedule.RecurringConfig)
	}
	return doc
}

func stringSlice(v any) []string {
	switch vals := v.(type) {
	case []string:
		return vals
	case []any:
		out := make([]string, 0, len(vals))
		for _, e := range vals {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
