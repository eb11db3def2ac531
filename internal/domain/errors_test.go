package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unknown", errors.New("boom"), ""},
		{"sentinel", ErrEventNotFound, "event_not_found"},
		{"wrapped", fmt.Errorf("load: %w", ErrNotOrganizer), "not_organizer"},
		{"typed transition error", &InvalidTransitionError{From: EventDraft, To: EventLive}, "invalid_transition"},
		{"joined side effect", errors.Join(ErrSideEffect, errors.New("db down")), "side_effect_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}

func TestInvalidTransitionError_Message(t *testing.T) {
	err := &InvalidTransitionError{From: EventDraft, To: EventLive, Actor: ActorSystem, Reason: "edge is not part of the status graph"}
	assert.Equal(t, "invalid transition draft -> live (system): edge is not part of the status graph", err.Error())
	assert.Equal(t, "invalid transition draft -> live (organizer)",
		(&InvalidTransitionError{From: EventDraft, To: EventLive, Actor: ActorOrganizer}).Error())
}
