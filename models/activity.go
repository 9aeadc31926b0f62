package models

import "fmt"

// ActivityType is the bounded set of activities that can carry a
// reminder binding. The set is closed on purpose: notification data
// fields are derived from it, and an open set would reintroduce
// unbounded dynamic field paths in the store.
type ActivityType string

const (
	ActivityChecklist ActivityType = "checklist"
	ActivityWorkout   ActivityType = "workout"
	ActivityMeal      ActivityType = "meal"
	ActivityChore     ActivityType = "chore"
)

var activityTypes = map[ActivityType]bool{
	ActivityChecklist: true,
	ActivityWorkout:   true,
	ActivityMeal:      true,
	ActivityChore:     true,
}

func ParseActivityType(s string) (ActivityType, error) {
	t := ActivityType(s)
	if !activityTypes[t] {
		return "", fmt.Errorf("unknown activity type %q", s)
	}
	return t, nil
}

// LinkField is the notification data field holding the bound activity
// id for this type ("checklistId", "workoutId", ...).
func (t ActivityType) LinkField() string {
	return string(t) + "Id"
}

// App is the bounded set of client apps a notification can route to.
// Push tokens are stored per app under these keys.
type App string

const (
	AppHousehold App = "household"
	AppFitness   App = "fitness"
)

func ParseApp(s string) (App, error) {
	switch App(s) {
	case AppHousehold, AppFitness:
		return App(s), nil
	}
	return "", fmt.Errorf("unknown app %q", s)
}
