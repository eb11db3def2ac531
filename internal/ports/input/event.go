package input

import (
	"context"
	"time"

	"github.com/google/uuid"

	"gamenight/internal/domain/entities"
)

type NewEvent struct {
	OrganizerID     string
	Title           string
	StartTime       time.Time
	EndTime         time.Time
	MaxParticipants int
	MinParticipants int
	ChannelID       string
}

type EventUseCase interface {
	CreateEvent(ctx context.Context, in NewEvent) (*entities.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*entities.Event, error)
}
