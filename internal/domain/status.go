package domain

// EventStatus is the lifecycle status of an event.
type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventUpcoming  EventStatus = "upcoming"
	EventLive      EventStatus = "live"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
	EventArchived  EventStatus = "archived"
)

// EventStatuses lists every event status in lifecycle order.
var EventStatuses = []EventStatus{
	EventDraft, EventUpcoming, EventLive, EventCompleted, EventCancelled, EventArchived,
}

func (s EventStatus) Valid() bool {
	for _, v := range EventStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no automatic transition can leave s.
func (s EventStatus) IsTerminal() bool {
	return s == EventCompleted || s == EventCancelled || s == EventArchived
}

// ParticipantStatus is the attendance status of a participant within an event.
type ParticipantStatus string

const (
	StatusRegistered ParticipantStatus = "registered"
	StatusConfirmed  ParticipantStatus = "confirmed"
	StatusAttended   ParticipantStatus = "attended"
	StatusNoShow     ParticipantStatus = "no_show"
)

var ParticipantStatuses = []ParticipantStatus{
	StatusRegistered, StatusConfirmed, StatusAttended, StatusNoShow,
}

func (s ParticipantStatus) Valid() bool {
	for _, v := range ParticipantStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Role is a participant's role within an event.
type Role string

const (
	RoleOrganizer   Role = "organizer"
	RoleModerator   Role = "moderator"
	RoleParticipant Role = "participant"
	RoleSpectator   Role = "spectator"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOrganizer, RoleModerator, RoleParticipant, RoleSpectator:
		return true
	}
	return false
}

// ActorKind distinguishes organizer-initiated from system-initiated transitions.
type ActorKind string

const (
	ActorOrganizer ActorKind = "organizer"
	ActorSystem    ActorKind = "system"
)

// Actor is whoever requests a transition. UserID is empty for the system.
type Actor struct {
	Kind   ActorKind
	UserID string
}

func SystemActor() Actor {
	return Actor{Kind: ActorSystem}
}

func OrganizerActor(userID string) Actor {
	return Actor{Kind: ActorOrganizer, UserID: userID}
}

// ReminderKind tags a reminder notification with the window that produced it.
type ReminderKind string

const (
	Reminder24h      ReminderKind = "24h"
	Reminder1h       ReminderKind = "1h"
	ReminderStarting ReminderKind = "starting"
)
