package http

import (
	"time"

	"github.com/google/uuid"

	"gamenight/internal/domain/entities"
	"gamenight/internal/ports/input"
)

type createEventRequest struct {
	Title           string     `json:"title" validate:"required,max=200"`
	StartTime       *time.Time `json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	MaxParticipants int        `json:"maxParticipants" validate:"gte=0"`
	MinParticipants int        `json:"minParticipants" validate:"gte=0"`
	ChannelID       string     `json:"channelId" validate:"omitempty,numeric"`
}

type transitionRequest struct {
	To             string `json:"to" validate:"required,oneof=draft upcoming live completed cancelled archived"`
	Archive        bool   `json:"archive"`
	Notify         *bool  `json:"notify"`
	ResultsVisible *bool  `json:"resultsVisible"`
}

type registerRequest struct {
	Username    string `json:"username" validate:"max=100"`
	DisplayName string `json:"displayName" validate:"max=100"`
	Role        string `json:"role" validate:"omitempty,oneof=organizer moderator participant spectator"`
}

type resultRequest struct {
	Score     *float64 `json:"score"`
	Placement *int     `json:"placement"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type eventResponse struct {
	ID              uuid.UUID  `json:"id"`
	OrganizerID     string     `json:"organizerId"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	StartTime       *time.Time `json:"startTime,omitempty"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	MaxParticipants int        `json:"maxParticipants"`
	MinParticipants int        `json:"minParticipants"`
	ResultsVisible  bool       `json:"resultsVisible"`
	ChannelID       string     `json:"channelId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type participantResponse struct {
	ID              uuid.UUID `json:"id"`
	EventID         uuid.UUID `json:"eventId"`
	UserID          string    `json:"userId"`
	Username        string    `json:"username"`
	DisplayName     string    `json:"displayName,omitempty"`
	Role            string    `json:"role"`
	Status          string    `json:"status"`
	Score           *float64  `json:"score,omitempty"`
	Placement       *int      `json:"placement,omitempty"`
	StatusUpdatedAt time.Time `json:"statusUpdatedAt"`
	JoinedAt        time.Time `json:"joinedAt"`
}

type transitionResponse struct {
	Event           eventResponse `json:"event"`
	From            string        `json:"from"`
	To              string        `json:"to"`
	Applied         bool          `json:"applied"`
	SideEffectError string        `json:"sideEffectError,omitempty"`
}

type leaderboardEntry struct {
	Position    int                 `json:"position"`
	Label       string              `json:"label"`
	Participant participantResponse `json:"participant"`
}

type leaderboardResponse struct {
	EventID uuid.UUID          `json:"eventId"`
	Status  string             `json:"status"`
	View    string             `json:"view"`
	Entries []leaderboardEntry `json:"entries"`
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func toEventResponse(e *entities.Event) eventResponse {
	return eventResponse{
		ID:              e.ID,
		OrganizerID:     e.OrganizerID,
		Title:           e.Title,
		Status:          string(e.Status),
		StartTime:       timePtr(e.StartTime),
		EndTime:         timePtr(e.EndTime),
		MaxParticipants: e.MaxParticipants,
		MinParticipants: e.MinParticipants,
		ResultsVisible:  e.ResultsVisible,
		ChannelID:       e.ChannelID,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}
}

func toParticipantResponse(p *entities.Participant) participantResponse {
	return participantResponse{
		ID:              p.ID,
		EventID:         p.EventID,
		UserID:          p.UserID,
		Username:        p.Username,
		DisplayName:     p.DisplayName,
		Role:            string(p.Role),
		Status:          string(p.Status),
		Score:           p.Score,
		Placement:       p.Placement,
		StatusUpdatedAt: p.StatusUpdatedAt,
		JoinedAt:        p.JoinedAt,
	}
}

func toTransitionResponse(res *input.TransitionResult) transitionResponse {
	out := transitionResponse{
		Event:   toEventResponse(res.Event),
		From:    string(res.From),
		To:      string(res.To),
		Applied: res.Applied,
	}
	if res.SideEffectErr != nil {
		out.SideEffectError = res.SideEffectErr.Error()
	}
	return out
}

func toLeaderboardResponse(b *input.Leaderboard) leaderboardResponse {
	out := leaderboardResponse{
		EventID: b.EventID,
		Status:  string(b.Status),
		View:    string(b.View),
		Entries: make([]leaderboardEntry, len(b.Entries)),
	}
	for i, e := range b.Entries {
		out.Entries[i] = leaderboardEntry{
			Position:    e.Position,
			Label:       e.Label,
			Participant: toParticipantResponse(&e.Participant),
		}
	}
	return out
}
