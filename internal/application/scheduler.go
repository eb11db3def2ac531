package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
	"gamenight/internal/ports/input"
	"gamenight/internal/ports/output"
)

var _ input.SchedulerUseCase = (*SchedulerService)(nil)

type SchedulerConfig struct {
	// Buffer is subtracted from now before checking automatic transitions.
	Buffer time.Duration
	// ReminderTimeout bounds each reminder dispatch. Dispatches run
	// concurrently and the sweep waits for all of them.
	ReminderTimeout time.Duration
}

// SchedulerService is the stateless time-driven sweep. Each run re-queries the
// store, so overlapping or repeated runs only ever apply a transition once.
type SchedulerService struct {
	eventRepo output.EventRepository
	lifecycle input.LifecycleUseCase
	notifier  output.Notifier
	clock     output.Clock
	metrics   output.Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
	cfg       SchedulerConfig
}

func NewSchedulerService(
	eventRepo output.EventRepository,
	lifecycle input.LifecycleUseCase,
	notifier output.Notifier,
	clock output.Clock,
	metrics output.Metrics,
	logger *slog.Logger,
	cfg SchedulerConfig,
) *SchedulerService {
	if cfg.Buffer < 0 {
		cfg.Buffer = 0
	}
	if cfg.ReminderTimeout <= 0 {
		cfg.ReminderTimeout = 10 * time.Second
	}
	return &SchedulerService{
		eventRepo: eventRepo,
		lifecycle: lifecycle,
		notifier:  notifier,
		clock:     clock,
		metrics:   metrics,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
		cfg:       cfg,
	}
}

type sweep struct {
	summary input.SweepSummary
}

func (w *sweep) fail(format string, args ...any) {
	w.summary.Errors = append(w.summary.Errors, fmt.Sprintf(format, args...))
	w.summary.Details.Failed++
}

// RunScheduledTransitions starts due events, completes ended ones and sends
// reminders. A failing event never aborts the sweep.
func (s *SchedulerService) RunScheduledTransitions(ctx context.Context) input.SweepSummary {
	ctx, span := s.tracer.Start(ctx, "SchedulerService.RunScheduledTransitions")
	defer span.End()

	started := time.Now()
	now := s.clock.Now()
	effectiveNow := now.Add(-s.cfg.Buffer)
	w := &sweep{summary: input.SweepSummary{Errors: []string{}}}

	s.logger.InfoContext(ctx, "scheduled sweep started",
		"now", now,
		"effective_now", effectiveNow,
	)

	s.startDueEvents(ctx, w, effectiveNow)
	s.completeEndedEvents(ctx, w, effectiveNow)
	s.sendReminders(ctx, w, now)

	w.summary.Success = len(w.summary.Errors) == 0
	s.metrics.RecordSweep(time.Since(started), w.summary.Details.Failed)
	span.SetAttributes(
		attribute.Int("processed", w.summary.Processed),
		attribute.Int("failed", w.summary.Details.Failed),
	)

	s.logger.InfoContext(ctx, "scheduled sweep finished",
		"processed", w.summary.Processed,
		"to_live", w.summary.Details.TransitionedToLive,
		"to_completed", w.summary.Details.TransitionedToCompleted,
		"reminders", w.summary.Details.RemindersSent,
		"failed", w.summary.Details.Failed,
	)
	return w.summary
}

func (s *SchedulerService) startDueEvents(ctx context.Context, w *sweep, effectiveNow time.Time) {
	events, err := s.eventRepo.FindReadyToStart(ctx, effectiveNow)
	if err != nil {
		s.logger.ErrorContext(ctx, "query events ready to start failed", "error", err)
		w.fail("query events ready to start: %v", err)
		return
	}
	for _, e := range events {
		if s.transition(ctx, w, e, domain.EventLive) {
			w.summary.Details.TransitionedToLive++
		}
	}
}

func (s *SchedulerService) completeEndedEvents(ctx context.Context, w *sweep, effectiveNow time.Time) {
	events, err := s.eventRepo.FindReadyToComplete(ctx, effectiveNow)
	if err != nil {
		s.logger.ErrorContext(ctx, "query events ready to complete failed", "error", err)
		w.fail("query events ready to complete: %v", err)
		return
	}
	for _, e := range events {
		// The query already requires an end time; events without one are
		// completed by their organizer only.
		if !e.HasEndTime() {
			continue
		}
		if s.transition(ctx, w, e, domain.EventCompleted) {
			w.summary.Details.TransitionedToCompleted++
		}
	}
}

// transition reports whether the status was actually changed by this sweep.
func (s *SchedulerService) transition(ctx context.Context, w *sweep, e entities.Event, to domain.EventStatus) bool {
	w.summary.Processed++
	result, err := s.lifecycle.RequestTransition(ctx, e.ID, to, domain.SystemActor(), nil)
	var invalid *domain.InvalidTransitionError
	if errors.As(err, &invalid) && invalid.From != e.Status {
		// Moved by another writer after the query ran.
		s.logger.DebugContext(ctx, "scheduled transition skipped",
			"event_id", e.ID,
			"queried_status", e.Status,
			"current_status", invalid.From,
		)
		return false
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled transition failed",
			"event_id", e.ID,
			"to", to,
			"error", err,
		)
		w.fail("event %s -> %s: %v", e.ID, to, err)
		return false
	}
	if result.SideEffectErr != nil {
		w.summary.Errors = append(w.summary.Errors, fmt.Sprintf("event %s -> %s side effects: %v", e.ID, to, result.SideEffectErr))
	}
	return result.Applied
}

type claimedReminder struct {
	event entities.Event
	kind  domain.ReminderKind
	err   error
}

func (s *SchedulerService) sendReminders(ctx context.Context, w *sweep, now time.Time) {
	var claimed []*claimedReminder
	for _, window := range domain.ReminderWindows {
		from, to := window.Bounds(now)
		events, err := s.eventRepo.FindUpcomingStartingBetween(ctx, from, to)
		if err != nil {
			s.logger.ErrorContext(ctx, "query reminder window failed",
				"kind", window.Kind,
				"error", err,
			)
			w.fail("query %s reminders: %v", window.Kind, err)
			continue
		}
		for _, e := range events {
			if s.claim(ctx, w, e, window.Kind, now) {
				claimed = append(claimed, &claimedReminder{event: e, kind: window.Kind})
			}
		}
	}

	// Sends run concurrently so one slow channel costs at most one timeout.
	var wg sync.WaitGroup
	for _, r := range claimed {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rctx, cancel := context.WithTimeout(ctx, s.cfg.ReminderTimeout)
			defer cancel()
			r.err = s.notifier.NotifyReminder(rctx, output.Reminder{Event: r.event, Kind: r.kind})
		}()
	}
	wg.Wait()

	for _, r := range claimed {
		if r.err != nil {
			s.metrics.RecordNotificationFailure("reminder")
			s.logger.WarnContext(ctx, "reminder dispatch failed",
				"event_id", r.event.ID,
				"kind", r.kind,
				"error", r.err,
			)
			w.fail("event %s %s reminder: %v", r.event.ID, r.kind, r.err)
			continue
		}
		s.metrics.RecordReminderSent(r.kind)
		w.summary.Details.RemindersSent++
	}
}

// claim reports whether this sweep owns the (event, kind) reminder.
func (s *SchedulerService) claim(ctx context.Context, w *sweep, e entities.Event, kind domain.ReminderKind, now time.Time) bool {
	claimed, err := s.eventRepo.ClaimReminder(ctx, e.ID, kind, now)
	if err != nil {
		w.summary.Processed++
		s.logger.ErrorContext(ctx, "claim reminder failed",
			"event_id", e.ID,
			"kind", kind,
			"error", err,
		)
		w.fail("event %s %s reminder: %v", e.ID, kind, err)
		return false
	}
	if claimed {
		w.summary.Processed++
	}
	return claimed
}
