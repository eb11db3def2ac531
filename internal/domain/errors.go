package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantExists   = errors.New("participant already registered")
	ErrNotOrganizer        = errors.New("only the organizer can perform this action")
	ErrInvalidTransition   = errors.New("invalid transition")
	ErrSideEffect          = errors.New("transition side effect failed")
	ErrEventFull           = errors.New("event is full")
	ErrRegistrationClosed  = errors.New("registration is closed for this event")
	ErrCheckInClosed       = errors.New("check-in is not open")
	ErrNotAttended         = errors.New("participant has not attended")
	ErrInvalidPlacement    = errors.New("placement must be a positive integer")
	ErrEmptyResult         = errors.New("score or placement is required")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrResultsHidden       = errors.New("results are not visible yet")
	ErrInvalidInput        = errors.New("invalid input")
)

// InvalidTransitionError names the rejected edge. It matches ErrInvalidTransition
// with errors.Is.
type InvalidTransitionError struct {
	From   EventStatus
	To     EventStatus
	Actor  ActorKind
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid transition %s -> %s (%s)", e.From, e.To, e.Actor)
	}
	return fmt.Sprintf("invalid transition %s -> %s (%s): %s", e.From, e.To, e.Actor, e.Reason)
}

func (e *InvalidTransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

var codes = []struct {
	err  error
	code string
}{
	{ErrEventNotFound, "event_not_found"},
	{ErrParticipantNotFound, "participant_not_found"},
	{ErrParticipantExists, "participant_exists"},
	{ErrNotOrganizer, "not_organizer"},
	{ErrInvalidTransition, "invalid_transition"},
	{ErrSideEffect, "side_effect_failed"},
	{ErrEventFull, "event_full"},
	{ErrRegistrationClosed, "registration_closed"},
	{ErrCheckInClosed, "check_in_closed"},
	{ErrNotAttended, "not_attended"},
	{ErrInvalidPlacement, "invalid_placement"},
	{ErrEmptyResult, "empty_result"},
	{ErrInvalidStatus, "invalid_status"},
	{ErrResultsHidden, "results_hidden"},
	{ErrInvalidInput, "invalid_input"},
}

// Code returns the stable code of a domain error, or "" when err is not one.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}
