package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
	"gamenight/internal/infrastructure/database/sqlc_generated"
	"gamenight/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	q *sqlc_generated.Queries
}

func NewEventRepository(q *sqlc_generated.Queries) *EventRepository {
	return &EventRepository{q: q}
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	status := event.Status
	if status == "" {
		status = domain.EventDraft
	}
	row, err := r.q.CreateEvent(ctx, sqlc_generated.CreateEventParams{
		OrganizerID:     event.OrganizerID,
		Title:           event.Title,
		Status:          string(status),
		StartTime:       timeToTimestamptz(event.StartTime),
		EndTime:         timeToTimestamptz(event.EndTime),
		MaxParticipants: int32(event.MaxParticipants),
		MinParticipants: int32(event.MinParticipants),
		ResultsVisible:  event.ResultsVisible,
		ChannelID:       event.ChannelID,
	})
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	event.ID = row.ID
	event.Status = status
	event.CreatedAt = pgtypeTimestamptzToTime(row.CreatedAt)
	event.UpdatedAt = pgtypeTimestamptzToTime(row.UpdatedAt)
	return nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	row, err := r.q.GetEventByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	e := eventToDomain(row)
	return &e, nil
}

func (r *EventRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to domain.EventStatus) (bool, error) {
	n, err := r.q.UpdateEventStatusIf(ctx, sqlc_generated.UpdateEventStatusIfParams{
		ToStatus:   string(to),
		ID:         id,
		FromStatus: string(from),
	})
	if err != nil {
		return false, fmt.Errorf("update event status: %w", err)
	}
	return n == 1, nil
}

func (r *EventRepository) SetResultsVisibility(ctx context.Context, id uuid.UUID, visible bool) error {
	n, err := r.q.SetEventResultsVisibility(ctx, sqlc_generated.SetEventResultsVisibilityParams{
		ID:             id,
		ResultsVisible: visible,
	})
	if err != nil {
		return fmt.Errorf("set results visibility: %w", err)
	}
	if n == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) FindReadyToStart(ctx context.Context, cutoff time.Time) ([]entities.Event, error) {
	rows, err := r.q.ListEventsReadyToStart(ctx, timeToTimestamptz(cutoff))
	if err != nil {
		return nil, fmt.Errorf("list events ready to start: %w", err)
	}
	return eventsToDomain(rows), nil
}

func (r *EventRepository) FindReadyToComplete(ctx context.Context, cutoff time.Time) ([]entities.Event, error) {
	rows, err := r.q.ListEventsReadyToComplete(ctx, timeToTimestamptz(cutoff))
	if err != nil {
		return nil, fmt.Errorf("list events ready to complete: %w", err)
	}
	return eventsToDomain(rows), nil
}

func (r *EventRepository) FindUpcomingStartingBetween(ctx context.Context, from, to time.Time) ([]entities.Event, error) {
	rows, err := r.q.ListUpcomingEventsStartingBetween(ctx, sqlc_generated.ListUpcomingEventsStartingBetweenParams{
		WindowStart: timeToTimestamptz(from),
		WindowEnd:   timeToTimestamptz(to),
	})
	if err != nil {
		return nil, fmt.Errorf("list upcoming events in window: %w", err)
	}
	return eventsToDomain(rows), nil
}

func (r *EventRepository) ClaimReminder(ctx context.Context, eventID uuid.UUID, kind domain.ReminderKind, at time.Time) (bool, error) {
	n, err := r.q.ClaimEventReminder(ctx, sqlc_generated.ClaimEventReminderParams{
		EventID: eventID,
		Kind:    string(kind),
		SentAt:  timeToTimestamptz(at),
	})
	if err != nil {
		return false, fmt.Errorf("claim %s reminder: %w", kind, err)
	}
	return n == 1, nil
}
