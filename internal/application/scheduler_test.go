package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
	"gamenight/internal/infrastructure/logging"
	"gamenight/internal/ports/input"
	"gamenight/internal/ports/output"
)

func TestRunScheduledTransitions_Idempotent(t *testing.T) {
	h := newHarness(t)
	due := h.seedEvent(t, domain.EventUpcoming, baseNow.Add(-3*time.Minute), time.Time{})
	ended := h.seedEvent(t, domain.EventLive, baseNow.Add(-3*time.Hour), baseNow.Add(-3*time.Minute))

	first := h.scheduler.RunScheduledTransitions(context.Background())
	assert.True(t, first.Success)
	assert.Equal(t, 2, first.Processed)
	assert.Equal(t, input.SweepDetails{TransitionedToLive: 1, TransitionedToCompleted: 1}, first.Details)
	assert.Empty(t, first.Errors)
	assert.Equal(t, domain.EventLive, h.eventStatus(t, due.ID))
	assert.Equal(t, domain.EventCompleted, h.eventStatus(t, ended.ID))

	second := h.scheduler.RunScheduledTransitions(context.Background())
	assert.Equal(t, input.SweepSummary{Success: true, Errors: []string{}}, second)
	assert.Equal(t, 2, h.metrics.Count("sweep"))
}

func TestRunScheduledTransitions_ProcessingBuffer(t *testing.T) {
	h := newHarness(t)
	justStarted := h.seedEvent(t, domain.EventUpcoming, baseNow.Add(-time.Minute), time.Time{})
	started := h.seedEvent(t, domain.EventUpcoming, baseNow.Add(-3*time.Minute), time.Time{})
	justEnded := h.seedEvent(t, domain.EventLive, baseNow.Add(-time.Hour), baseNow.Add(-time.Minute))
	ended := h.seedEvent(t, domain.EventLive, baseNow.Add(-time.Hour), baseNow.Add(-3*time.Minute))

	summary := h.scheduler.RunScheduledTransitions(context.Background())
	assert.Equal(t, 1, summary.Details.TransitionedToLive)
	assert.Equal(t, 1, summary.Details.TransitionedToCompleted)

	assert.Equal(t, domain.EventUpcoming, h.eventStatus(t, justStarted.ID))
	assert.Equal(t, domain.EventLive, h.eventStatus(t, started.ID))
	assert.Equal(t, domain.EventLive, h.eventStatus(t, justEnded.ID))
	assert.Equal(t, domain.EventCompleted, h.eventStatus(t, ended.ID))

	h.clock.Advance(2 * time.Minute)
	summary = h.scheduler.RunScheduledTransitions(context.Background())
	assert.Equal(t, 1, summary.Details.TransitionedToLive)
	assert.Equal(t, 1, summary.Details.TransitionedToCompleted)
}

func TestRunScheduledTransitions_NeverCompletesWithoutEndTime(t *testing.T) {
	h := newHarness(t)
	event := h.seedEvent(t, domain.EventLive, baseNow.Add(-10*time.Hour), time.Time{})

	for i := 0; i < 3; i++ {
		h.clock.Advance(24 * time.Hour)
		summary := h.scheduler.RunScheduledTransitions(context.Background())
		assert.True(t, summary.Success)
		assert.Zero(t, summary.Details.TransitionedToCompleted)
	}
	assert.Equal(t, domain.EventLive, h.eventStatus(t, event.ID))
}

func TestRunScheduledTransitions_Reminders(t *testing.T) {
	h := newHarness(t)
	dayAhead := h.seedEvent(t, domain.EventUpcoming, baseNow.Add(24*time.Hour+time.Minute), time.Time{})
	hourAhead := h.seedEvent(t, domain.EventUpcoming, baseNow.Add(57*time.Minute), time.Time{})
	starting := h.seedEvent(t, domain.EventUpcoming, baseNow.Add(time.Minute), time.Time{})
	h.seedEvent(t, domain.EventUpcoming, baseNow.Add(2*time.Hour), time.Time{})
	h.seedEvent(t, domain.EventDraft, baseNow.Add(time.Hour), time.Time{})

	summary := h.scheduler.RunScheduledTransitions(context.Background())
	assert.True(t, summary.Success)
	assert.Equal(t, 3, summary.Details.RemindersSent)
	assert.Equal(t, 3, summary.Processed)

	got := map[uuid.UUID]domain.ReminderKind{}
	for _, r := range h.notifier.Reminders() {
		got[r.Event.ID] = r.Kind
	}
	assert.Equal(t, map[uuid.UUID]domain.ReminderKind{
		dayAhead.ID:  domain.Reminder24h,
		hourAhead.ID: domain.Reminder1h,
		starting.ID:  domain.ReminderStarting,
	}, got)
	assert.Equal(t, 1, h.metrics.Count("reminder:1h"))

	// Still inside the same windows a minute later: nothing is sent twice.
	h.clock.Advance(time.Minute)
	summary = h.scheduler.RunScheduledTransitions(context.Background())
	assert.Zero(t, summary.Details.RemindersSent)
	assert.Zero(t, summary.Processed)
	assert.Len(t, h.notifier.Reminders(), 3)
}

func TestRunScheduledTransitions_ReminderFailure(t *testing.T) {
	h := newHarness(t)
	h.notifier.ReminderErr = errors.New("channel not found")
	h.seedEvent(t, domain.EventUpcoming, baseNow.Add(time.Hour), time.Time{})

	summary := h.scheduler.RunScheduledTransitions(context.Background())
	assert.False(t, summary.Success)
	assert.Equal(t, 1, summary.Details.Failed)
	assert.Zero(t, summary.Details.RemindersSent)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "channel not found")
	assert.Equal(t, 1, h.metrics.Count("notification:reminder"))

	// The claim stands, so a failed reminder is not retried.
	summary = h.scheduler.RunScheduledTransitions(context.Background())
	assert.True(t, summary.Success)
	assert.Len(t, h.notifier.Reminders(), 1)
}

func TestRunScheduledTransitions_ClaimFailure(t *testing.T) {
	h := newHarness(t)
	h.events.ClaimReminderFunc = func(context.Context, uuid.UUID, domain.ReminderKind, time.Time) (bool, error) {
		return false, errors.New("deadlock detected")
	}
	h.seedEvent(t, domain.EventUpcoming, baseNow.Add(24*time.Hour), time.Time{})

	summary := h.scheduler.RunScheduledTransitions(context.Background())
	assert.False(t, summary.Success)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Details.Failed)
	assert.Empty(t, h.notifier.Reminders())
}

func TestRunScheduledTransitions_IsolatesFailures(t *testing.T) {
	h := newHarness(t)
	broken := h.seedEvent(t, domain.EventUpcoming, baseNow.Add(-10*time.Minute), time.Time{})
	healthy := h.seedEvent(t, domain.EventUpcoming, baseNow.Add(-5*time.Minute), time.Time{})
	h.events.UpdateStatusIfFunc = func(ctx context.Context, id uuid.UUID, from, to domain.EventStatus) (bool, error) {
		if id == broken.ID {
			return false, errors.New("row lock timeout")
		}
		return h.events.EventRepository.UpdateStatusIf(ctx, id, from, to)
	}

	summary := h.scheduler.RunScheduledTransitions(context.Background())
	assert.False(t, summary.Success)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Details.TransitionedToLive)
	assert.Equal(t, 1, summary.Details.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], broken.ID.String())
	assert.Equal(t, domain.EventUpcoming, h.eventStatus(t, broken.ID))
	assert.Equal(t, domain.EventLive, h.eventStatus(t, healthy.ID))
}

func TestRunScheduledTransitions_QueryFailureContinues(t *testing.T) {
	h := newHarness(t)
	h.events.FindReadyToStartFunc = func(context.Context, time.Time) ([]entities.Event, error) {
		return nil, errors.New("statement timeout")
	}
	ended := h.seedEvent(t, domain.EventLive, baseNow.Add(-time.Hour), baseNow.Add(-10*time.Minute))

	summary := h.scheduler.RunScheduledTransitions(context.Background())
	assert.False(t, summary.Success)
	assert.Equal(t, 1, summary.Details.Failed)
	assert.Equal(t, 1, summary.Details.TransitionedToCompleted)
	assert.Equal(t, domain.EventCompleted, h.eventStatus(t, ended.ID))
}

func TestRunScheduledTransitions_SideEffectErrorReported(t *testing.T) {
	h := newHarness(t)
	h.participants.UpdateStatusBulkFunc = func(context.Context, output.BulkStatusUpdate) (int64, error) {
		return 0, errors.New("connection reset")
	}
	due := h.seedEvent(t, domain.EventUpcoming, baseNow.Add(-5*time.Minute), time.Time{})

	summary := h.scheduler.RunScheduledTransitions(context.Background())
	assert.False(t, summary.Success)
	assert.Equal(t, 1, summary.Details.TransitionedToLive)
	assert.Zero(t, summary.Details.Failed)
	require.Len(t, summary.Errors, 1)
	assert.Contains(t, summary.Errors[0], "side effects")
	assert.Equal(t, domain.EventLive, h.eventStatus(t, due.ID))
}

func TestRunScheduledTransitions_OverlappingSweeps(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 5; i++ {
		h.seedEvent(t, domain.EventUpcoming, baseNow.Add(-time.Duration(i+3)*time.Minute), time.Time{})
	}
	h.seedEvent(t, domain.EventUpcoming, baseNow.Add(time.Hour), time.Time{})

	summaries := make([]input.SweepSummary, 4)
	var wg sync.WaitGroup
	for i := range summaries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			summaries[i] = h.scheduler.RunScheduledTransitions(context.Background())
		}(i)
	}
	wg.Wait()

	live, reminders := 0, 0
	for _, s := range summaries {
		assert.True(t, s.Success)
		live += s.Details.TransitionedToLive
		reminders += s.Details.RemindersSent
	}
	assert.Equal(t, 5, live)
	assert.Equal(t, 1, reminders)
	assert.Len(t, h.notifier.Reminders(), 1)
}

// gatedNotifier holds every reminder until parties sends are in flight at once.
type gatedNotifier struct {
	fakeNotifier
	parties  int32
	arrivals atomic.Int32
	release  chan struct{}
}

func (n *gatedNotifier) NotifyReminder(ctx context.Context, reminder output.Reminder) error {
	if n.arrivals.Add(1) == n.parties {
		close(n.release)
	}
	select {
	case <-n.release:
		return n.fakeNotifier.NotifyReminder(ctx, reminder)
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestRunScheduledTransitions_RemindersDispatchConcurrently(t *testing.T) {
	h := newHarness(t)
	h.seedEvent(t, domain.EventUpcoming, baseNow.Add(24*time.Hour), time.Time{})
	h.seedEvent(t, domain.EventUpcoming, baseNow.Add(time.Hour), time.Time{})
	h.seedEvent(t, domain.EventUpcoming, baseNow.Add(time.Minute), time.Time{})

	notifier := &gatedNotifier{parties: 3, release: make(chan struct{})}
	svc := NewSchedulerService(h.events, h.lifecycle, notifier, h.clock, h.metrics, logging.Discard(), SchedulerConfig{
		Buffer:          domain.DefaultProcessingBuffer,
		ReminderTimeout: 2 * time.Second,
	})

	started := time.Now()
	summary := svc.RunScheduledTransitions(context.Background())
	assert.Less(t, time.Since(started), 2*time.Second)
	assert.True(t, summary.Success, summary.Errors)
	assert.Equal(t, 3, summary.Details.RemindersSent)
	assert.Equal(t, 3, summary.Processed)
	assert.Len(t, notifier.Reminders(), 3)
}
