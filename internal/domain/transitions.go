package domain

import "time"

const (
	// OrganizerStartLead is how early an organizer may start an upcoming event.
	OrganizerStartLead = 30 * time.Minute
	// DefaultProcessingBuffer absorbs scheduler jitter on automatic transitions.
	DefaultProcessingBuffer = 2 * time.Minute
	// DefaultNoShowGrace protects participants whose status changed just before completion.
	DefaultNoShowGrace = 15 * time.Minute
)

// Edge is a (from, to) pair in the event status graph.
type Edge struct {
	From EventStatus
	To   EventStatus
}

type edgeRule struct {
	organizer bool
	system    bool
}

var transitionTable = map[Edge]edgeRule{
	{EventDraft, EventUpcoming}:     {organizer: true},
	{EventDraft, EventCancelled}:    {organizer: true},
	{EventUpcoming, EventLive}:      {organizer: true, system: true},
	{EventUpcoming, EventCancelled}: {organizer: true},
	{EventLive, EventCompleted}:     {organizer: true, system: true},
	{EventLive, EventCancelled}:     {organizer: true},
	{EventCompleted, EventArchived}: {organizer: true},
}

// Allowed reports whether the edge exists for the actor kind, ignoring timing.
func Allowed(from, to EventStatus, actor ActorKind) bool {
	rule, ok := transitionTable[Edge{From: from, To: to}]
	if !ok {
		return false
	}
	switch actor {
	case ActorOrganizer:
		return rule.organizer
	case ActorSystem:
		return rule.system
	}
	return false
}

// Edges returns every legal edge of the graph.
func Edges() []Edge {
	out := make([]Edge, 0, len(transitionTable))
	for _, from := range EventStatuses {
		for _, to := range EventStatuses {
			if _, ok := transitionTable[Edge{From: from, To: to}]; ok {
				out = append(out, Edge{From: from, To: to})
			}
		}
	}
	return out
}

// TransitionRules validates edges together with their wall-clock preconditions.
// It is the only place the organizer and scheduler start windows are defined.
type TransitionRules struct {
	// Buffer is the scheduler's processing buffer for automatic starts.
	Buffer time.Duration
}

func NewTransitionRules(buffer time.Duration) TransitionRules {
	if buffer < 0 {
		buffer = 0
	}
	return TransitionRules{Buffer: buffer}
}

// Check returns an *InvalidTransitionError when the actor may not move an event
// from one status to another at now. A zero start or end means "not set".
func (r TransitionRules) Check(from, to EventStatus, actor ActorKind, start, end, now time.Time) error {
	if _, ok := transitionTable[Edge{From: from, To: to}]; !ok {
		return invalid(from, to, actor, "edge is not part of the status graph")
	}
	if actor != ActorOrganizer && actor != ActorSystem {
		return invalid(from, to, actor, "unknown actor")
	}
	if !Allowed(from, to, actor) {
		return invalid(from, to, actor, "edge is organizer-only")
	}

	switch {
	case from == EventUpcoming && to == EventLive && actor == ActorOrganizer:
		// TODO: confirm with product whether the 30 minute organizer lead is meant
		// to differ from the scheduler buffer; both are kept as-is until then.
		if !start.IsZero() && now.Before(start.Add(-OrganizerStartLead)) {
			return invalid(from, to, actor, "cannot start event more than 30 minutes before its start time")
		}
	case from == EventUpcoming && to == EventLive && actor == ActorSystem:
		if start.IsZero() {
			return invalid(from, to, actor, "event has no start time")
		}
		if now.Before(start.Add(-r.Buffer)) {
			return invalid(from, to, actor, "event start time not reached")
		}
	case from == EventLive && to == EventCompleted && actor == ActorSystem:
		if end.IsZero() {
			return invalid(from, to, actor, "event has no end time")
		}
		if now.Before(end) {
			return invalid(from, to, actor, "event end time not reached")
		}
	}
	return nil
}

func invalid(from, to EventStatus, actor ActorKind, reason string) error {
	return &InvalidTransitionError{From: from, To: to, Actor: actor, Reason: reason}
}

// CompletionOptions are supplied by an organizer completing an event. The state
// machine forwards them without validation.
type CompletionOptions struct {
	// Archive chains a completed -> archived transition.
	Archive bool `json:"archive"`
	// Notify defaults to true; false suppresses the status-change notification.
	Notify *bool `json:"notify,omitempty"`
	// ResultsVisible, when set, is stored on the event.
	ResultsVisible *bool `json:"resultsVisible,omitempty"`
}

// ShouldNotify reports whether a status-change notification is wanted.
func (o *CompletionOptions) ShouldNotify() bool {
	return o == nil || o.Notify == nil || *o.Notify
}

// ReminderWindow is centred on Offset before an event's start time.
type ReminderWindow struct {
	Kind      ReminderKind
	Offset    time.Duration
	Tolerance time.Duration
}

// ReminderWindows are evaluated against the real current time, not the buffered one.
var ReminderWindows = []ReminderWindow{
	{Kind: Reminder24h, Offset: 24 * time.Hour, Tolerance: 5 * time.Minute},
	{Kind: Reminder1h, Offset: time.Hour, Tolerance: 5 * time.Minute},
	{Kind: ReminderStarting, Offset: 0, Tolerance: 2 * time.Minute},
}

// Bounds returns the inclusive start-time range matched by the window at now.
func (w ReminderWindow) Bounds(now time.Time) (time.Time, time.Time) {
	return now.Add(w.Offset - w.Tolerance), now.Add(w.Offset + w.Tolerance)
}
