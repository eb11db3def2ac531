package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"gamenight/internal/ports/output"
)

var _ output.Notifier = (*NATS)(nil)

const (
	subjectStatusChanged = "event.status_changed"
	subjectReminder      = "event.reminder"
)

// Publisher is the part of *nats.Conn used to publish.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Connect dials NATS with unlimited reconnects.
func Connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("gamenight"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

type LeaderboardEntry struct {
	UserID    string   `json:"userId"`
	Name      string   `json:"name"`
	Position  int      `json:"position"`
	Label     string   `json:"label"`
	Score     *float64 `json:"score,omitempty"`
	Placement *int     `json:"placement,omitempty"`
}

type StatusChangedMessage struct {
	EventID     uuid.UUID          `json:"eventId"`
	Title       string             `json:"title"`
	From        string             `json:"from"`
	To          string             `json:"to"`
	StartTime   *time.Time         `json:"startTime,omitempty"`
	EndTime     *time.Time         `json:"endTime,omitempty"`
	ChannelID   string             `json:"channelId,omitempty"`
	Leaderboard []LeaderboardEntry `json:"leaderboard,omitempty"`
}

type ReminderMessage struct {
	EventID   uuid.UUID  `json:"eventId"`
	Title     string     `json:"title"`
	Kind      string     `json:"kind"`
	StartTime *time.Time `json:"startTime,omitempty"`
	ChannelID string     `json:"channelId,omitempty"`
}

// NATS publishes lifecycle notifications as JSON on <prefix>.event.*.
type NATS struct {
	pub    Publisher
	prefix string
	logger *slog.Logger
}

func NewNATS(pub Publisher, prefix string, logger *slog.Logger) *NATS {
	return &NATS{pub: pub, prefix: prefix, logger: logger}
}

func (n *NATS) subject(name string) string {
	if n.prefix == "" {
		return name
	}
	return n.prefix + "." + name
}

func (n *NATS) NotifyStatusChange(ctx context.Context, change output.StatusChange) error {
	msg := StatusChangedMessage{
		EventID:   change.Event.ID,
		Title:     change.Event.Title,
		From:      string(change.From),
		To:        string(change.To),
		StartTime: optionalTime(change.Event.StartTime),
		EndTime:   optionalTime(change.Event.EndTime),
		ChannelID: change.Event.ChannelID,
	}
	for _, e := range change.Leaderboard {
		msg.Leaderboard = append(msg.Leaderboard, LeaderboardEntry{
			UserID:    e.Participant.UserID,
			Name:      e.Participant.Name(),
			Position:  e.Position,
			Label:     e.Label,
			Score:     e.Participant.Score,
			Placement: e.Participant.Placement,
		})
	}
	return n.publish(ctx, n.subject(subjectStatusChanged), msg)
}

func (n *NATS) NotifyReminder(ctx context.Context, reminder output.Reminder) error {
	return n.publish(ctx, n.subject(subjectReminder), ReminderMessage{
		EventID:   reminder.Event.ID,
		Title:     reminder.Event.Title,
		Kind:      string(reminder.Kind),
		StartTime: optionalTime(reminder.Event.StartTime),
		ChannelID: reminder.Event.ChannelID,
	})
}

func (n *NATS) publish(ctx context.Context, subject string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("nats: marshal %s: %w", subject, err)
	}
	if err := n.pub.Publish(subject, data); err != nil {
		return fmt.Errorf("nats: publish %s: %w", subject, err)
	}
	n.logger.DebugContext(ctx, "nats message published", "subject", subject, "bytes", len(data))
	return nil
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
