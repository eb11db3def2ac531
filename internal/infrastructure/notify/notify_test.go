package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
	"gamenight/internal/domain/ranking"
	"gamenight/internal/ports/output"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type published struct {
	subject string
	data    []byte
}

type FakePublisher struct {
	PublishFunc func(subject string, data []byte) error
	messages    []published
}

func (f *FakePublisher) Publish(subject string, data []byte) error {
	f.messages = append(f.messages, published{subject: subject, data: data})
	if f.PublishFunc != nil {
		return f.PublishFunc(subject, data)
	}
	return nil
}

type FakeNotifier struct {
	Err           error
	statusChanges int
	reminders     int
}

func (f *FakeNotifier) NotifyStatusChange(context.Context, output.StatusChange) error {
	f.statusChanges++
	return f.Err
}

func (f *FakeNotifier) NotifyReminder(context.Context, output.Reminder) error {
	f.reminders++
	return f.Err
}

func TestNATS_StatusChange(t *testing.T) {
	pub := &FakePublisher{}
	n := NewNATS(pub, "gamenight", discardLogger())
	score := 9.5
	event := entities.Event{ID: uuid.New(), Title: "Quiz", StartTime: time.Date(2026, 2, 1, 20, 0, 0, 0, time.UTC)}
	board := ranking.Leaderboard([]entities.Participant{
		{UserID: "u1", Username: "ann", Status: domain.StatusAttended, Score: &score},
	})

	err := n.NotifyStatusChange(context.Background(), output.StatusChange{
		Event: event, From: domain.EventLive, To: domain.EventCompleted, Leaderboard: board,
	})
	require.NoError(t, err)
	require.Len(t, pub.messages, 1)
	assert.Equal(t, "gamenight.event.status_changed", pub.messages[0].subject)

	var msg StatusChangedMessage
	require.NoError(t, json.Unmarshal(pub.messages[0].data, &msg))
	assert.Equal(t, event.ID, msg.EventID)
	assert.Equal(t, "completed", msg.To)
	assert.Nil(t, msg.EndTime)
	require.Len(t, msg.Leaderboard, 1)
	assert.Equal(t, "🥇", msg.Leaderboard[0].Label)
	assert.Equal(t, 9.5, *msg.Leaderboard[0].Score)
}

func TestNATS_Reminder(t *testing.T) {
	pub := &FakePublisher{}
	n := NewNATS(pub, "", discardLogger())
	require.NoError(t, n.NotifyReminder(context.Background(), output.Reminder{Event: entities.Event{ID: uuid.New()}, Kind: domain.Reminder1h}))
	assert.Equal(t, "event.reminder", pub.messages[0].subject)
	assert.Contains(t, string(pub.messages[0].data), `"kind":"1h"`)
}

func TestNATS_Errors(t *testing.T) {
	boom := errors.New("nats: connection closed")
	n := NewNATS(&FakePublisher{PublishFunc: func(string, []byte) error { return boom }}, "p", discardLogger())
	assert.ErrorIs(t, n.NotifyReminder(context.Background(), output.Reminder{}), boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pub := &FakePublisher{}
	assert.ErrorIs(t, NewNATS(pub, "p", discardLogger()).NotifyReminder(ctx, output.Reminder{}), context.Canceled)
	assert.Empty(t, pub.messages)
}

func TestMulti_FansOutAndJoinsErrors(t *testing.T) {
	errA := errors.New("discord down")
	a := &FakeNotifier{Err: errA}
	b := &FakeNotifier{}
	m := Multi{a, b}

	err := m.NotifyStatusChange(context.Background(), output.StatusChange{})
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, 1, a.statusChanges)
	assert.Equal(t, 1, b.statusChanges)

	a.Err = nil
	assert.NoError(t, m.NotifyReminder(context.Background(), output.Reminder{}))
	assert.Equal(t, 1, b.reminders)
	assert.NoError(t, Multi(nil).NotifyReminder(context.Background(), output.Reminder{}))
}

type staticTranslator struct{}

func (staticTranslator) T(_ string, key string, data map[string]any) string {
	return key + ":" + data["Title"].(string)
}

func TestLog_RendersMessage(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(slog.New(slog.NewJSONHandler(&buf, nil)), staticTranslator{}, "en", time.UTC)

	require.NoError(t, l.NotifyStatusChange(context.Background(), output.StatusChange{
		Event: entities.Event{Title: "Quiz"}, From: domain.EventUpcoming, To: domain.EventLive,
	}))
	assert.Contains(t, buf.String(), `"message":"notify.status.live:Quiz"`)

	buf.Reset()
	require.NoError(t, l.NotifyReminder(context.Background(), output.Reminder{Event: entities.Event{Title: "Quiz"}, Kind: domain.ReminderStarting}))
	assert.Contains(t, buf.String(), `"message":"notify.reminder.starting:Quiz"`)
}
