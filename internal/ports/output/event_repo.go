package output

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
)

// EventRepository is the event store. FindByID returns domain.ErrEventNotFound
// when the event does not exist.
type EventRepository interface {
	Create(ctx context.Context, event *entities.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Event, error)
	// UpdateStatusIf sets the status only while the stored status still equals
	// from. It reports false, without error, when another writer got there first.
	UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to domain.EventStatus) (bool, error)
	SetResultsVisibility(ctx context.Context, id uuid.UUID, visible bool) error
	// FindReadyToStart returns upcoming events whose start time is at or before cutoff.
	FindReadyToStart(ctx context.Context, cutoff time.Time) ([]entities.Event, error)
	// FindReadyToComplete returns live events with an end time at or before cutoff.
	FindReadyToComplete(ctx context.Context, cutoff time.Time) ([]entities.Event, error)
	// FindUpcomingStartingBetween returns upcoming events starting in [from, to].
	FindUpcomingStartingBetween(ctx context.Context, from, to time.Time) ([]entities.Event, error)
	// ClaimReminder records that a reminder kind was sent for an event. It
	// reports false when the reminder had already been claimed.
	ClaimReminder(ctx context.Context, eventID uuid.UUID, kind domain.ReminderKind, at time.Time) (bool, error)
}
