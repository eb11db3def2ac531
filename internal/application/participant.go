package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
	"gamenight/internal/ports/input"
	"gamenight/internal/ports/output"
)

var _ input.ParticipantUseCase = (*ParticipantService)(nil)

// ParticipantService owns participant attendance: the bulk side effects run by
// event transitions and the organizer's manual edits.
type ParticipantService struct {
	participantRepo output.ParticipantRepository
	eventRepo       output.EventRepository
	clock           output.Clock
	logger          *slog.Logger
}

func NewParticipantService(
	participantRepo output.ParticipantRepository,
	eventRepo output.EventRepository,
	clock output.Clock,
	logger *slog.Logger,
) *ParticipantService {
	return &ParticipantService{
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		clock:           clock,
		logger:          logger,
	}
}

// AutoConfirmParticipants confirms every registered participant of the event.
// Re-running it is a no-op once nobody is left in registered.
func (s *ParticipantService) AutoConfirmParticipants(ctx context.Context, eventID uuid.UUID) (int64, error) {
	n, err := s.participantRepo.UpdateStatusBulk(ctx, output.BulkStatusUpdate{
		EventID: eventID,
		From:    []domain.ParticipantStatus{domain.StatusRegistered},
		To:      domain.StatusConfirmed,
		At:      s.clock.Now(),
	})
	if err != nil {
		return 0, fmt.Errorf("auto-confirm participants: %w", err)
	}
	s.logger.InfoContext(ctx, "participants auto-confirmed",
		"event_id", eventID,
		"count", n,
	)
	return n, nil
}

// MarkNoShows marks registered or confirmed participants as no_show, skipping
// anyone whose status changed within the grace period.
func (s *ParticipantService) MarkNoShows(ctx context.Context, eventID uuid.UUID, grace time.Duration) (int64, error) {
	if grace < 0 {
		grace = 0
	}
	now := s.clock.Now()
	n, err := s.participantRepo.UpdateStatusBulk(ctx, output.BulkStatusUpdate{
		EventID:       eventID,
		From:          []domain.ParticipantStatus{domain.StatusRegistered, domain.StatusConfirmed},
		To:            domain.StatusNoShow,
		UpdatedBefore: now.Add(-grace),
		At:            now,
	})
	if err != nil {
		return 0, fmt.Errorf("mark no-shows: %w", err)
	}
	s.logger.InfoContext(ctx, "no-shows marked",
		"event_id", eventID,
		"count", n,
		"grace", grace,
	)
	return n, nil
}

func (s *ParticipantService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entities.Participant, error) {
	return s.participantRepo.FindByEventID(ctx, eventID)
}

// Register adds a user to an event in the registered status.
func (s *ParticipantService) Register(ctx context.Context, reg input.Registration) (*entities.Participant, error) {
	if strings.TrimSpace(reg.UserID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}
	role := reg.Role
	if role == "" {
		role = domain.RoleParticipant
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	event, err := s.eventRepo.FindByID(ctx, reg.EventID)
	if err != nil {
		return nil, err
	}
	switch event.Status {
	case domain.EventDraft, domain.EventUpcoming, domain.EventLive:
	default:
		return nil, domain.ErrRegistrationClosed
	}

	_, err = s.participantRepo.FindByEventIDAndUserID(ctx, reg.EventID, reg.UserID)
	switch {
	case err == nil:
		return nil, domain.ErrParticipantExists
	case !errors.Is(err, domain.ErrParticipantNotFound):
		return nil, fmt.Errorf("find participant: %w", err)
	}

	username := strings.TrimSpace(reg.Username)
	if username == "" {
		username = reg.UserID
	}
	now := s.clock.Now()
	participant := &entities.Participant{
		EventID:         reg.EventID,
		UserID:          reg.UserID,
		Username:        username,
		DisplayName:     strings.TrimSpace(reg.DisplayName),
		Role:            role,
		Status:          domain.StatusRegistered,
		StatusUpdatedAt: now,
		JoinedAt:        now,
	}
	if role != domain.RoleSpectator && event.MaxParticipants > 0 {
		err = s.participantRepo.CreateWithinCapacity(ctx, participant, event.MaxParticipants)
	} else {
		err = s.participantRepo.Create(ctx, participant)
	}
	if err != nil {
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return participant, nil
}

// CheckIn marks a participant as attended while the event is live.
func (s *ParticipantService) CheckIn(ctx context.Context, eventID uuid.UUID, userID string) (*entities.Participant, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.EventLive {
		return nil, domain.ErrCheckInClosed
	}
	participant, err := s.participantRepo.FindByEventIDAndUserID(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}
	switch participant.Status {
	case domain.StatusAttended:
		return participant, nil
	case domain.StatusNoShow:
		return nil, domain.ErrCheckInClosed
	}

	now := s.clock.Now()
	if err := s.participantRepo.UpdateStatus(ctx, participant.ID, domain.StatusAttended, now); err != nil {
		return nil, fmt.Errorf("update participant: %w", err)
	}
	participant.Status = domain.StatusAttended
	participant.StatusUpdatedAt = now
	return participant, nil
}

// RecordResult sets the score and/or placement of an attended participant.
// Nil arguments leave the stored value unchanged. Status is never touched.
func (s *ParticipantService) RecordResult(ctx context.Context, participantID uuid.UUID, organizerID string, score *float64, placement *int) (*entities.Participant, error) {
	if score == nil && placement == nil {
		return nil, domain.ErrEmptyResult
	}
	if placement != nil && *placement < 1 {
		return nil, domain.ErrInvalidPlacement
	}
	participant, err := s.organizerParticipant(ctx, participantID, organizerID)
	if err != nil {
		return nil, err
	}
	if participant.Status != domain.StatusAttended {
		return nil, domain.ErrNotAttended
	}

	if score != nil {
		v := *score
		participant.Score = &v
	}
	if placement != nil {
		v := *placement
		participant.Placement = &v
	}
	if err := s.participantRepo.UpdateResult(ctx, participant.ID, participant.Score, participant.Placement); err != nil {
		return nil, fmt.Errorf("update result: %w", err)
	}
	return participant, nil
}

// OverrideStatus lets the organizer set any participant status, bypassing the
// automatic rules.
func (s *ParticipantService) OverrideStatus(ctx context.Context, participantID uuid.UUID, organizerID string, status domain.ParticipantStatus) (*entities.Participant, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	participant, err := s.organizerParticipant(ctx, participantID, organizerID)
	if err != nil {
		return nil, err
	}
	if participant.Status == status {
		return participant, nil
	}

	now := s.clock.Now()
	if err := s.participantRepo.UpdateStatus(ctx, participant.ID, status, now); err != nil {
		return nil, fmt.Errorf("update participant: %w", err)
	}
	s.logger.InfoContext(ctx, "participant status overridden",
		"participant_id", participant.ID,
		"event_id", participant.EventID,
		"from", participant.Status,
		"to", status,
		"organizer_id", organizerID,
	)
	participant.Status = status
	participant.StatusUpdatedAt = now
	return participant, nil
}

func (s *ParticipantService) organizerParticipant(ctx context.Context, participantID uuid.UUID, organizerID string) (*entities.Participant, error) {
	participant, err := s.participantRepo.FindByID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.FindByID(ctx, participant.EventID)
	if err != nil {
		return nil, err
	}
	if !event.IsOrganizer(organizerID) {
		return nil, domain.ErrNotOrganizer
	}
	return participant, nil
}
