package notify

import (
	"context"
	"log/slog"
	"time"

	"gamenight/internal/domain/entities"
	"gamenight/internal/ports/output"
	"gamenight/pkg/discord"
)

var _ output.Notifier = (*Log)(nil)

// Log writes the rendered notification text to the logger. It is the notifier
// of last resort when no delivery channel is configured.
type Log struct {
	logger *slog.Logger
	t      output.T
	locale string
	loc    *time.Location
}

func NewLog(logger *slog.Logger, t output.T, locale string, loc *time.Location) *Log {
	return &Log{logger: logger, t: t, locale: locale, loc: loc}
}

func (l *Log) NotifyStatusChange(ctx context.Context, change output.StatusChange) error {
	l.logger.InfoContext(ctx, "event status notification",
		"event_id", change.Event.ID,
		"from", change.From,
		"to", change.To,
		"message", l.t.T(l.locale, "notify.status."+string(change.To), l.data(change.Event)),
		"leaderboard_size", len(change.Leaderboard),
	)
	return nil
}

func (l *Log) NotifyReminder(ctx context.Context, reminder output.Reminder) error {
	l.logger.InfoContext(ctx, "event reminder",
		"event_id", reminder.Event.ID,
		"kind", reminder.Kind,
		"message", l.t.T(l.locale, "notify.reminder."+string(reminder.Kind), l.data(reminder.Event)),
	)
	return nil
}

func (l *Log) data(event entities.Event) map[string]any {
	return map[string]any{
		"Title": event.Title,
		"Start": discord.FormatEventDateTime(event.StartTime, l.loc),
	}
}
