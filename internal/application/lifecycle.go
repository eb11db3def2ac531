package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
	"gamenight/internal/domain/ranking"
	"gamenight/internal/ports/input"
	"gamenight/internal/ports/output"
)

const tracerName = "gamenight/application"

var _ input.LifecycleUseCase = (*LifecycleService)(nil)

type LifecycleConfig struct {
	// Buffer is the scheduler processing buffer used by the system start window.
	Buffer time.Duration
	// NoShowGrace protects recently updated participants from no-show marking.
	NoShowGrace time.Duration
	// NotifyTimeout bounds each asynchronous notification dispatch.
	NotifyTimeout time.Duration
}

func DefaultLifecycleConfig() LifecycleConfig {
	return LifecycleConfig{
		Buffer:        domain.DefaultProcessingBuffer,
		NoShowGrace:   domain.DefaultNoShowGrace,
		NotifyTimeout: 10 * time.Second,
	}
}

// LifecycleService is the event status state machine. Every status change,
// organizer or scheduler driven, goes through RequestTransition.
type LifecycleService struct {
	eventRepo    output.EventRepository
	participants *ParticipantService
	notifier     output.Notifier
	clock        output.Clock
	metrics      output.Metrics
	logger       *slog.Logger
	tracer       trace.Tracer
	rules        domain.TransitionRules
	cfg          LifecycleConfig

	notifications sync.WaitGroup
}

func NewLifecycleService(
	eventRepo output.EventRepository,
	participants *ParticipantService,
	notifier output.Notifier,
	clock output.Clock,
	metrics output.Metrics,
	logger *slog.Logger,
	cfg LifecycleConfig,
) *LifecycleService {
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = DefaultLifecycleConfig().NotifyTimeout
	}
	return &LifecycleService{
		eventRepo:    eventRepo,
		participants: participants,
		notifier:     notifier,
		clock:        clock,
		metrics:      metrics,
		logger:       logger,
		tracer:       otel.Tracer(tracerName),
		rules:        domain.NewTransitionRules(cfg.Buffer),
		cfg:          cfg,
	}
}

// RequestTransition validates and applies a status change. The write is guarded
// on the status read at the start; losing that race is reported as a no-op.
func (s *LifecycleService) RequestTransition(
	ctx context.Context,
	eventID uuid.UUID,
	to domain.EventStatus,
	actor domain.Actor,
	opts *domain.CompletionOptions,
) (*input.TransitionResult, error) {
	ctx, span := s.tracer.Start(ctx, "LifecycleService.RequestTransition", trace.WithAttributes(
		attribute.String("event_id", eventID.String()),
		attribute.String("to", string(to)),
		attribute.String("actor", string(actor.Kind)),
	))
	defer span.End()

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load event")
		return nil, err
	}
	from := event.Status
	span.SetAttributes(attribute.String("from", string(from)))

	if actor.Kind == domain.ActorOrganizer && !event.IsOrganizer(actor.UserID) {
		return nil, domain.ErrNotOrganizer
	}

	now := s.clock.Now()
	if err := s.rules.Check(from, to, actor.Kind, event.StartTime, event.EndTime, now); err != nil {
		s.metrics.RecordTransition(from, to, actor.Kind, output.TransitionRejected)
		s.logger.InfoContext(ctx, "transition rejected",
			"event_id", eventID,
			"from", from,
			"to", to,
			"actor", actor.Kind,
			"error", err,
		)
		return nil, err
	}

	applied, err := s.eventRepo.UpdateStatusIf(ctx, eventID, from, to)
	if err != nil {
		s.metrics.RecordTransition(from, to, actor.Kind, output.TransitionFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "apply transition")
		return nil, fmt.Errorf("apply transition %s -> %s: %w", from, to, err)
	}
	if !applied {
		s.metrics.RecordTransition(from, to, actor.Kind, output.TransitionNoOp)
		s.logger.InfoContext(ctx, "transition already applied by another writer",
			"event_id", eventID,
			"from", from,
			"to", to,
			"actor", actor.Kind,
		)
		current, err := s.eventRepo.FindByID(ctx, eventID)
		if err != nil {
			s.logger.WarnContext(ctx, "reload after concurrent transition failed",
				"event_id", eventID,
				"error", err,
			)
			current = event
		}
		return &input.TransitionResult{Event: current, From: from, To: to}, nil
	}

	s.metrics.RecordTransition(from, to, actor.Kind, output.TransitionApplied)
	s.logger.InfoContext(ctx, "event transitioned",
		"event_id", eventID,
		"from", from,
		"to", to,
		"actor", actor.Kind,
	)
	event.Status = to
	event.UpdatedAt = now

	result := &input.TransitionResult{Event: event, From: from, To: to, Applied: true}
	result.SideEffectErr = s.runSideEffects(ctx, event, to, opts)
	if result.SideEffectErr != nil {
		span.RecordError(result.SideEffectErr)
	}

	if opts.ShouldNotify() {
		s.dispatchStatusChange(ctx, *event, from, to)
	}

	if to == domain.EventCompleted && opts != nil && opts.Archive && actor.Kind == domain.ActorOrganizer {
		archived, err := s.RequestTransition(ctx, eventID, domain.EventArchived, actor, &domain.CompletionOptions{Notify: opts.Notify})
		if err != nil {
			s.logger.WarnContext(ctx, "archive after completion failed",
				"event_id", eventID,
				"error", err,
			)
			result.SideEffectErr = errors.Join(result.SideEffectErr, fmt.Errorf("%w: archive: %w", domain.ErrSideEffect, err))
		} else {
			result.Event = archived.Event
		}
	}

	return result, nil
}

// runSideEffects performs the participant bookkeeping tied to the target status.
// Failures are returned for reporting only; the status write stands.
func (s *LifecycleService) runSideEffects(ctx context.Context, event *entities.Event, to domain.EventStatus, opts *domain.CompletionOptions) error {
	var errs []error
	switch to {
	case domain.EventLive:
		if _, err := s.participants.AutoConfirmParticipants(ctx, event.ID); err != nil {
			s.sideEffectFailed(ctx, event.ID, "auto_confirm", err)
			errs = append(errs, fmt.Errorf("%w: %w", domain.ErrSideEffect, err))
		}
	case domain.EventCompleted:
		if opts != nil && opts.ResultsVisible != nil {
			if err := s.eventRepo.SetResultsVisibility(ctx, event.ID, *opts.ResultsVisible); err != nil {
				s.sideEffectFailed(ctx, event.ID, "results_visibility", err)
				errs = append(errs, fmt.Errorf("%w: results visibility: %w", domain.ErrSideEffect, err))
			} else {
				event.ResultsVisible = *opts.ResultsVisible
			}
		}
		if _, err := s.participants.MarkNoShows(ctx, event.ID, s.cfg.NoShowGrace); err != nil {
			s.sideEffectFailed(ctx, event.ID, "mark_no_shows", err)
			errs = append(errs, fmt.Errorf("%w: %w", domain.ErrSideEffect, err))
		}
	}
	return errors.Join(errs...)
}

func (s *LifecycleService) sideEffectFailed(ctx context.Context, eventID uuid.UUID, effect string, err error) {
	s.metrics.RecordSideEffectFailure(effect)
	s.logger.ErrorContext(ctx, "transition side effect failed",
		"event_id", eventID,
		"effect", effect,
		"error", err,
	)
}

// ReconcileSideEffects re-runs the bulk participant update matching the event's
// current status. It repairs bookkeeping that failed after a transition.
func (s *LifecycleService) ReconcileSideEffects(ctx context.Context, eventID uuid.UUID, actor domain.Actor) (int64, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return 0, err
	}
	if actor.Kind == domain.ActorOrganizer && !event.IsOrganizer(actor.UserID) {
		return 0, domain.ErrNotOrganizer
	}

	switch event.Status {
	case domain.EventLive:
		return s.participants.AutoConfirmParticipants(ctx, eventID)
	case domain.EventCompleted, domain.EventArchived:
		return s.participants.MarkNoShows(ctx, eventID, s.cfg.NoShowGrace)
	}
	return 0, nil
}

// dispatchStatusChange notifies in the background once the status is durable.
// The dispatch outlives the request context but is bounded by NotifyTimeout.
func (s *LifecycleService) dispatchStatusChange(ctx context.Context, event entities.Event, from, to domain.EventStatus) {
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()
		defer func() {
			if r := recover(); r != nil {
				s.metrics.RecordNotificationFailure("status_change")
				s.logger.Error("status change notification panicked",
					"event_id", event.ID,
					"panic", r,
				)
			}
		}()

		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
		defer cancel()

		change := output.StatusChange{Event: event, From: from, To: to}
		if to == domain.EventCompleted && event.ResultsVisible {
			participants, err := s.participants.ListByEvent(nctx, event.ID)
			if err != nil {
				s.logger.WarnContext(nctx, "load leaderboard for notification failed",
					"event_id", event.ID,
					"error", err,
				)
			} else {
				change.Leaderboard = ranking.Leaderboard(participants)
			}
		}

		if err := s.notifier.NotifyStatusChange(nctx, change); err != nil {
			s.metrics.RecordNotificationFailure("status_change")
			s.logger.WarnContext(nctx, "status change notification failed",
				"event_id", event.ID,
				"to", to,
				"error", err,
			)
		}
	}()
}

// WaitNotifications blocks until every in-flight notification has finished.
func (s *LifecycleService) WaitNotifications() {
	s.notifications.Wait()
}
