package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamenight/internal/domain"
	"gamenight/internal/ports/input"
)

func TestGetLeaderboard(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	event := h.seedEvent(t, domain.EventLive, baseNow.Add(-time.Hour), time.Time{})
	first := h.seedParticipant(t, event.ID, "first", domain.StatusAttended, baseNow)
	second := h.seedParticipant(t, event.ID, "second", domain.StatusAttended, baseNow)
	h.seedParticipant(t, event.ID, "idle", domain.StatusConfirmed, baseNow)
	_, err := h.participantSvc.RecordResult(ctx, first.ID, organizerID, floatPtr(30), nil)
	require.NoError(t, err)
	_, err = h.participantSvc.RecordResult(ctx, second.ID, organizerID, floatPtr(20), nil)
	require.NoError(t, err)

	_, err = h.leaderboard.GetLeaderboard(ctx, event.ID, "first", input.ViewLeaderboard)
	assert.ErrorIs(t, err, domain.ErrResultsHidden)

	board, err := h.leaderboard.GetLeaderboard(ctx, event.ID, organizerID, "")
	require.NoError(t, err)
	assert.Equal(t, input.ViewLeaderboard, board.View)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "first", board.Entries[0].Participant.UserID)
	assert.Equal(t, "🥈", board.Entries[1].Label)

	_, err = h.lifecycle.RequestTransition(ctx, event.ID, domain.EventCompleted,
		domain.OrganizerActor(organizerID), &domain.CompletionOptions{ResultsVisible: boolPtr(true), Notify: boolPtr(false)})
	require.NoError(t, err)

	roster, err := h.leaderboard.GetLeaderboard(ctx, event.ID, "anyone", input.ViewRoster)
	require.NoError(t, err)
	assert.Equal(t, domain.EventCompleted, roster.Status)
	assert.Len(t, roster.Entries, 3)
	assert.Equal(t, "idle", roster.Entries[2].Participant.UserID)
}
