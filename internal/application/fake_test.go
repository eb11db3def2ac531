package application

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
	"gamenight/internal/infrastructure/clock"
	"gamenight/internal/infrastructure/logging"
	"gamenight/internal/infrastructure/memory"
	"gamenight/internal/ports/output"
)

const organizerID = "organizer-1"

var baseNow = time.Date(2026, 3, 6, 20, 0, 0, 0, time.UTC)

// eventRepoStub delegates to the in-memory store unless a Func is set.
type eventRepoStub struct {
	*memory.EventRepository
	UpdateStatusIfFunc   func(ctx context.Context, id uuid.UUID, from, to domain.EventStatus) (bool, error)
	FindReadyToStartFunc func(ctx context.Context, cutoff time.Time) ([]entities.Event, error)
	ClaimReminderFunc    func(ctx context.Context, eventID uuid.UUID, kind domain.ReminderKind, at time.Time) (bool, error)
}

func (r *eventRepoStub) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to domain.EventStatus) (bool, error) {
	if r.UpdateStatusIfFunc != nil {
		return r.UpdateStatusIfFunc(ctx, id, from, to)
	}
	return r.EventRepository.UpdateStatusIf(ctx, id, from, to)
}

func (r *eventRepoStub) FindReadyToStart(ctx context.Context, cutoff time.Time) ([]entities.Event, error) {
	if r.FindReadyToStartFunc != nil {
		return r.FindReadyToStartFunc(ctx, cutoff)
	}
	return r.EventRepository.FindReadyToStart(ctx, cutoff)
}

func (r *eventRepoStub) ClaimReminder(ctx context.Context, eventID uuid.UUID, kind domain.ReminderKind, at time.Time) (bool, error) {
	if r.ClaimReminderFunc != nil {
		return r.ClaimReminderFunc(ctx, eventID, kind, at)
	}
	return r.EventRepository.ClaimReminder(ctx, eventID, kind, at)
}

// barrierEventRepo holds the first parties FindByID calls until all of them
// have read, so concurrent requests observe the same prior status.
type barrierEventRepo struct {
	output.EventRepository
	parties  int32
	arrivals atomic.Int32
	release  chan struct{}
}

func newBarrierEventRepo(inner output.EventRepository, parties int32) *barrierEventRepo {
	return &barrierEventRepo{EventRepository: inner, parties: parties, release: make(chan struct{})}
}

func (r *barrierEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	event, err := r.EventRepository.FindByID(ctx, id)
	if n := r.arrivals.Add(1); n <= r.parties {
		if n == r.parties {
			close(r.release)
		}
		<-r.release
	}
	return event, err
}

type participantRepoStub struct {
	*memory.ParticipantRepository
	UpdateStatusBulkFunc       func(ctx context.Context, update output.BulkStatusUpdate) (int64, error)
	FindByEventIDAndUserIDFunc func(ctx context.Context, eventID uuid.UUID, userID string) (*entities.Participant, error)
}

func (r *participantRepoStub) FindByEventIDAndUserID(ctx context.Context, eventID uuid.UUID, userID string) (*entities.Participant, error) {
	if r.FindByEventIDAndUserIDFunc != nil {
		return r.FindByEventIDAndUserIDFunc(ctx, eventID, userID)
	}
	return r.ParticipantRepository.FindByEventIDAndUserID(ctx, eventID, userID)
}

func (r *participantRepoStub) UpdateStatusBulk(ctx context.Context, update output.BulkStatusUpdate) (int64, error) {
	if r.UpdateStatusBulkFunc != nil {
		return r.UpdateStatusBulkFunc(ctx, update)
	}
	return r.ParticipantRepository.UpdateStatusBulk(ctx, update)
}

type fakeNotifier struct {
	mu            sync.Mutex
	statusChanges []output.StatusChange
	reminders     []output.Reminder

	StatusChangeErr error
	ReminderErr     error
}

func (n *fakeNotifier) NotifyStatusChange(_ context.Context, change output.StatusChange) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.statusChanges = append(n.statusChanges, change)
	return n.StatusChangeErr
}

func (n *fakeNotifier) NotifyReminder(_ context.Context, reminder output.Reminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reminders = append(n.reminders, reminder)
	return n.ReminderErr
}

func (n *fakeNotifier) StatusChanges() []output.StatusChange {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]output.StatusChange(nil), n.statusChanges...)
}

func (n *fakeNotifier) Reminders() []output.Reminder {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]output.Reminder(nil), n.reminders...)
}

// fakeMetrics counts calls by a flattened label key.
type fakeMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{counts: make(map[string]int)}
}

func (m *fakeMetrics) inc(key string) {
	m.mu.Lock()
	m.counts[key]++
	m.mu.Unlock()
}

func (m *fakeMetrics) Count(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[key]
}

func (m *fakeMetrics) RecordTransition(from, to domain.EventStatus, actor domain.ActorKind, outcome string) {
	m.inc(fmt.Sprintf("transition:%s:%s:%s:%s", from, to, actor, outcome))
}

func (m *fakeMetrics) RecordSideEffectFailure(effect string) { m.inc("side_effect:" + effect) }

func (m *fakeMetrics) RecordNotificationFailure(kind string) { m.inc("notification:" + kind) }

func (m *fakeMetrics) RecordReminderSent(kind domain.ReminderKind) { m.inc("reminder:" + string(kind)) }

func (m *fakeMetrics) RecordSweep(time.Duration, int) { m.inc("sweep") }

type harness struct {
	clock          *clock.Fake
	events         *eventRepoStub
	participants   *participantRepoStub
	notifier       *fakeNotifier
	metrics        *fakeMetrics
	participantSvc *ParticipantService
	lifecycle      *LifecycleService
	scheduler      *SchedulerService
	leaderboard    *LeaderboardService
}

// newHarness wires the services over in-memory stores. wrap, when given,
// decorates the event repository seen by the services.
func newHarness(t *testing.T, wrap ...func(output.EventRepository) output.EventRepository) *harness {
	t.Helper()
	h := &harness{
		clock:        clock.NewFake(baseNow),
		events:       &eventRepoStub{EventRepository: memory.NewEventRepository()},
		participants: &participantRepoStub{ParticipantRepository: memory.NewParticipantRepository()},
		notifier:     &fakeNotifier{},
		metrics:      newFakeMetrics(),
	}
	var events output.EventRepository = h.events
	for _, w := range wrap {
		events = w(events)
	}
	logger := logging.Discard()
	h.participantSvc = NewParticipantService(h.participants, events, h.clock, logger)
	h.lifecycle = NewLifecycleService(events, h.participantSvc, h.notifier, h.clock, h.metrics, logger, DefaultLifecycleConfig())
	h.scheduler = NewSchedulerService(events, h.lifecycle, h.notifier, h.clock, h.metrics, logger, SchedulerConfig{
		Buffer: domain.DefaultProcessingBuffer,
	})
	h.leaderboard = NewLeaderboardService(events, h.participants)
	t.Cleanup(h.lifecycle.WaitNotifications)
	return h
}

func (h *harness) seedEvent(t *testing.T, status domain.EventStatus, start, end time.Time) *entities.Event {
	t.Helper()
	event := &entities.Event{
		OrganizerID:     organizerID,
		Title:           "Friday board games",
		Status:          status,
		StartTime:       start,
		EndTime:         end,
		MaxParticipants: 0,
	}
	require.NoError(t, h.events.Create(context.Background(), event))
	return event
}

func (h *harness) seedParticipant(t *testing.T, eventID uuid.UUID, userID string, status domain.ParticipantStatus, statusUpdatedAt time.Time) *entities.Participant {
	t.Helper()
	p := &entities.Participant{
		EventID:         eventID,
		UserID:          userID,
		Username:        userID,
		Role:            domain.RoleParticipant,
		Status:          status,
		StatusUpdatedAt: statusUpdatedAt,
	}
	require.NoError(t, h.participants.Create(context.Background(), p))
	return p
}

func (h *harness) eventStatus(t *testing.T, id uuid.UUID) domain.EventStatus {
	t.Helper()
	e, err := h.events.FindByID(context.Background(), id)
	require.NoError(t, err)
	return e.Status
}

func (h *harness) participantStatus(t *testing.T, id uuid.UUID) domain.ParticipantStatus {
	t.Helper()
	p, err := h.participants.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.Status
}

func boolPtr(v bool) *bool        { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
