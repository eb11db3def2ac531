package notify

import (
	"context"
	"errors"

	"gamenight/internal/ports/output"
)

var _ output.Notifier = Multi(nil)

// Multi fans a notification out to every notifier. One failing target does not
// stop the others; all failures are joined.
type Multi []output.Notifier

func (m Multi) NotifyStatusChange(ctx context.Context, change output.StatusChange) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyStatusChange(ctx, change); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) NotifyReminder(ctx context.Context, reminder output.Reminder) error {
	var errs []error
	for _, n := range m {
		if err := n.NotifyReminder(ctx, reminder); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
