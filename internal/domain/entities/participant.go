package entities

import (
	"time"

	"github.com/google/uuid"

	"gamenight/internal/domain"
)

// Participant represents a user's participation in an event. Participants are
// never deleted; attendance history survives completion and archival.
type Participant struct {
	ID              uuid.UUID
	EventID         uuid.UUID
	UserID          string
	Username        string
	DisplayName     string
	Role            domain.Role
	Status          domain.ParticipantStatus
	Score           *float64
	Placement       *int
	StatusUpdatedAt time.Time
	JoinedAt        time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Name is the display name when present, else the username.
func (p Participant) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}

func (p Participant) HasResult() bool {
	return p.Score != nil || p.Placement != nil
}
