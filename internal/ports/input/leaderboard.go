package input

import (
	"context"

	"github.com/google/uuid"

	"gamenight/internal/domain"
	"gamenight/internal/domain/ranking"
)

type LeaderboardView string

const (
	ViewLeaderboard LeaderboardView = "leaderboard"
	ViewRoster      LeaderboardView = "roster"
)

type Leaderboard struct {
	EventID uuid.UUID
	Status  domain.EventStatus
	View    LeaderboardView
	Entries []ranking.Entry
}

type LeaderboardUseCase interface {
	GetLeaderboard(ctx context.Context, eventID uuid.UUID, viewerID string, view LeaderboardView) (*Leaderboard, error)
}
