package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gamenight/internal/domain"
	"gamenight/internal/domain/ranking"
	"gamenight/internal/ports/input"
	"gamenight/internal/ports/output"
)

var _ input.LeaderboardUseCase = (*LeaderboardService)(nil)

type LeaderboardService struct {
	eventRepo       output.EventRepository
	participantRepo output.ParticipantRepository
}

func NewLeaderboardService(eventRepo output.EventRepository, participantRepo output.ParticipantRepository) *LeaderboardService {
	return &LeaderboardService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
	}
}

// GetLeaderboard ranks an event's participants. Hidden results are only shown
// to the organizer.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, eventID uuid.UUID, viewerID string, view input.LeaderboardView) (*input.Leaderboard, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.ResultsVisible && !event.IsOrganizer(viewerID) {
		return nil, domain.ErrResultsHidden
	}

	participants, err := s.participantRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}

	board := &input.Leaderboard{EventID: eventID, Status: event.Status, View: view}
	switch view {
	case input.ViewRoster:
		board.Entries = ranking.Roster(participants)
	default:
		board.View = input.ViewLeaderboard
		board.Entries = ranking.Leaderboard(participants)
	}
	return board, nil
}
