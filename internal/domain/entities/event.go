package entities

import (
	"time"

	"github.com/google/uuid"

	"gamenight/internal/domain"
)

type Event struct {
	ID              uuid.UUID
	OrganizerID     string
	Title           string
	Status          domain.EventStatus
	StartTime       time.Time // zero = not set
	EndTime         time.Time // zero = not set, never auto-completes
	MaxParticipants int       // 0 = unlimited
	MinParticipants int
	ResultsVisible  bool
	ChannelID       string // notification target, empty = default channel
	Participants    []Participant
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (e *Event) IsOrganizer(userID string) bool {
	return userID != "" && e.OrganizerID == userID
}

func (e *Event) HasEndTime() bool {
	return !e.EndTime.IsZero()
}
