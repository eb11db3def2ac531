package output

import (
	"context"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
	"gamenight/internal/domain/ranking"
)

// StatusChange announces an applied event transition. Leaderboard is filled
// when an event completes with visible results.
type StatusChange struct {
	Event       entities.Event
	From        domain.EventStatus
	To          domain.EventStatus
	Leaderboard []ranking.Entry
}

type Reminder struct {
	Event entities.Event
	Kind  domain.ReminderKind
}

// Notifier delivers lifecycle notifications. Delivery is best effort: callers
// log failures and never fail a transition because of them.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, change StatusChange) error
	NotifyReminder(ctx context.Context, reminder Reminder) error
}
