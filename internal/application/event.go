package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
	"gamenight/internal/ports/input"
	"gamenight/internal/ports/output"
)

var _ input.EventUseCase = (*EventService)(nil)

type EventService struct {
	eventRepo output.EventRepository
	logger    *slog.Logger
}

func NewEventService(eventRepo output.EventRepository, logger *slog.Logger) *EventService {
	return &EventService{eventRepo: eventRepo, logger: logger}
}

// CreateEvent stores a new event in draft. The organizer publishes it with a
// draft -> upcoming transition.
func (s *EventService) CreateEvent(ctx context.Context, in input.NewEvent) (*entities.Event, error) {
	if strings.TrimSpace(in.OrganizerID) == "" {
		return nil, fmt.Errorf("%w: organizer is required", domain.ErrInvalidInput)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if !in.EndTime.IsZero() && (in.StartTime.IsZero() || !in.EndTime.After(in.StartTime)) {
		return nil, fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidInput)
	}
	if in.MaxParticipants < 0 || in.MinParticipants < 0 {
		return nil, fmt.Errorf("%w: participant limits cannot be negative", domain.ErrInvalidInput)
	}
	if in.MaxParticipants > 0 && in.MinParticipants > in.MaxParticipants {
		return nil, fmt.Errorf("%w: minimum exceeds maximum participants", domain.ErrInvalidInput)
	}

	event := &entities.Event{
		OrganizerID:     in.OrganizerID,
		Title:           title,
		Status:          domain.EventDraft,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		MaxParticipants: in.MaxParticipants,
		MinParticipants: in.MinParticipants,
		ChannelID:       in.ChannelID,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "event created",
		"event_id", event.ID,
		"organizer_id", event.OrganizerID,
	)
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	return s.eventRepo.FindByID(ctx, id)
}
