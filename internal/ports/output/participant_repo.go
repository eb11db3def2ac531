package output

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
)

// BulkStatusUpdate moves every participant of an event whose status is in From
// to To. A non-zero UpdatedBefore further restricts the update to participants
// whose status last changed strictly before it.
type BulkStatusUpdate struct {
	EventID       uuid.UUID
	From          []domain.ParticipantStatus
	To            domain.ParticipantStatus
	UpdatedBefore time.Time
	At            time.Time
}

type ParticipantRepository interface {
	// Create returns domain.ErrParticipantExists for a duplicate (event, user).
	Create(ctx context.Context, participant *entities.Participant) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Participant, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]entities.Participant, error)
	FindByEventIDAndUserID(ctx context.Context, eventID uuid.UUID, userID string) (*entities.Participant, error)
	// CreateWithinCapacity creates a participant only while fewer than capacity
	// slot-taking participants (everyone but spectators) are registered, and
	// returns domain.ErrEventFull otherwise. The count and the insert are atomic.
	CreateWithinCapacity(ctx context.Context, participant *entities.Participant, capacity int) error
	UpdateStatusBulk(ctx context.Context, update BulkStatusUpdate) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ParticipantStatus, at time.Time) error
	UpdateResult(ctx context.Context, id uuid.UUID, score *float64, placement *int) error
}
