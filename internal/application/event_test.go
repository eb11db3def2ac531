package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamenight/internal/domain"
	"gamenight/internal/infrastructure/logging"
	"gamenight/internal/ports/input"
)

func TestCreateEvent(t *testing.T) {
	h := newHarness(t)
	svc := NewEventService(h.events, logging.Discard())
	ctx := context.Background()

	event, err := svc.CreateEvent(ctx, input.NewEvent{
		OrganizerID: organizerID,
		Title:       "  Chess blitz ",
		StartTime:   baseNow.Add(24 * time.Hour),
		EndTime:     baseNow.Add(26 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, "Chess blitz", event.Title)
	assert.Equal(t, domain.EventDraft, event.Status)

	got, err := svc.GetEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)

	tests := []struct {
		name string
		in   input.NewEvent
	}{
		{"no organizer", input.NewEvent{Title: "x"}},
		{"no title", input.NewEvent{OrganizerID: organizerID}},
		{"end without start", input.NewEvent{OrganizerID: organizerID, Title: "x", EndTime: baseNow}},
		{"end before start", input.NewEvent{OrganizerID: organizerID, Title: "x", StartTime: baseNow, EndTime: baseNow.Add(-time.Hour)}},
		{"negative limit", input.NewEvent{OrganizerID: organizerID, Title: "x", MaxParticipants: -1}},
		{"min above max", input.NewEvent{OrganizerID: organizerID, Title: "x", MaxParticipants: 2, MinParticipants: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEvent(ctx, tt.in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
