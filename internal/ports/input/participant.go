package input

import (
	"context"

	"github.com/google/uuid"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
)

type Registration struct {
	EventID     uuid.UUID
	UserID      string
	Username    string
	DisplayName string
	Role        domain.Role
}

type ParticipantUseCase interface {
	Register(ctx context.Context, reg Registration) (*entities.Participant, error)
	CheckIn(ctx context.Context, eventID uuid.UUID, userID string) (*entities.Participant, error)
	RecordResult(ctx context.Context, participantID uuid.UUID, organizerID string, score *float64, placement *int) (*entities.Participant, error)
	OverrideStatus(ctx context.Context, participantID uuid.UUID, organizerID string, status domain.ParticipantStatus) (*entities.Participant, error)
}
