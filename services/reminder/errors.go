package reminder

import (
	"errors"
	"fmt"
)

// ErrReminderNotFound is returned when the referenced reminder entry
// (or its owning map document) does not exist.
var ErrReminderNotFound = errors.New("reminder not found")

// PartialWriteError reports a recipient fan-out that only partly
// succeeded. Created notifications are left in place; a retried Save
// tears them down and rebuilds the full set.
type PartialWriteError struct {
	Created int
	Failed  int
	Err     error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("created %d of %d notifications: %v", e.Created, e.Created+e.Failed, e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}
