// Package memory holds mutex-guarded in-process repositories. They honour the
// same guarded-write contracts as the Postgres store and back STORE=memory.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
	"gamenight/internal/ports/output"
)

var (
	_ output.EventRepository       = (*EventRepository)(nil)
	_ output.ParticipantRepository = (*ParticipantRepository)(nil)
)

type reminderKey struct {
	eventID uuid.UUID
	kind    domain.ReminderKind
}

type EventRepository struct {
	mu        sync.RWMutex
	events    map[uuid.UUID]entities.Event
	reminders map[reminderKey]time.Time
}

func NewEventRepository() *EventRepository {
	return &EventRepository{
		events:    make(map[uuid.UUID]entities.Event),
		reminders: make(map[reminderKey]time.Time),
	}
}

func (r *EventRepository) Create(_ context.Context, event *entities.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	now := time.Now()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = now
	}
	event.UpdatedAt = now
	stored := *event
	stored.Participants = nil
	r.events[event.ID] = stored
	return nil
}

func (r *EventRepository) FindByID(_ context.Context, id uuid.UUID) (*entities.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &e, nil
}

func (r *EventRepository) UpdateStatusIf(_ context.Context, id uuid.UUID, from, to domain.EventStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	e.UpdatedAt = time.Now()
	r.events[id] = e
	return true, nil
}

func (r *EventRepository) SetResultsVisibility(_ context.Context, id uuid.UUID, visible bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.ResultsVisible = visible
	e.UpdatedAt = time.Now()
	r.events[id] = e
	return nil
}

func (r *EventRepository) FindReadyToStart(_ context.Context, cutoff time.Time) ([]entities.Event, error) {
	return r.filter(func(e entities.Event) bool {
		return e.Status == domain.EventUpcoming && !e.StartTime.IsZero() && !e.StartTime.After(cutoff)
	}), nil
}

func (r *EventRepository) FindReadyToComplete(_ context.Context, cutoff time.Time) ([]entities.Event, error) {
	return r.filter(func(e entities.Event) bool {
		return e.Status == domain.EventLive && e.HasEndTime() && !e.EndTime.After(cutoff)
	}), nil
}

func (r *EventRepository) FindUpcomingStartingBetween(_ context.Context, from, to time.Time) ([]entities.Event, error) {
	return r.filter(func(e entities.Event) bool {
		return e.Status == domain.EventUpcoming && !e.StartTime.IsZero() &&
			!e.StartTime.Before(from) && !e.StartTime.After(to)
	}), nil
}

func (r *EventRepository) ClaimReminder(_ context.Context, eventID uuid.UUID, kind domain.ReminderKind, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := reminderKey{eventID: eventID, kind: kind}
	if _, ok := r.reminders[key]; ok {
		return false, nil
	}
	r.reminders[key] = at
	return true, nil
}

// filter returns matches ordered by start time, then ID.
func (r *EventRepository) filter(match func(entities.Event) bool) []entities.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entities.Event
	for _, e := range r.events {
		if match(e) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b entities.Event) int {
		if c := a.StartTime.Compare(b.StartTime); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return out
}

type ParticipantRepository struct {
	mu           sync.RWMutex
	participants map[uuid.UUID]entities.Participant
}

func NewParticipantRepository() *ParticipantRepository {
	return &ParticipantRepository{participants: make(map[uuid.UUID]entities.Participant)}
}

func (r *ParticipantRepository) Create(_ context.Context, participant *entities.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insert(participant)
}

func (r *ParticipantRepository) CreateWithinCapacity(_ context.Context, participant *entities.Participant, capacity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants {
		if p.EventID == participant.EventID && p.UserID == participant.UserID {
			return domain.ErrParticipantExists
		}
	}
	if r.countActive(participant.EventID) >= int64(capacity) {
		return domain.ErrEventFull
	}
	return r.insert(participant)
}

// insert must be called with mu held.
func (r *ParticipantRepository) insert(participant *entities.Participant) error {
	for _, p := range r.participants {
		if p.EventID == participant.EventID && p.UserID == participant.UserID {
			return domain.ErrParticipantExists
		}
	}
	if participant.ID == uuid.Nil {
		participant.ID = uuid.New()
	}
	now := time.Now()
	if participant.JoinedAt.IsZero() {
		participant.JoinedAt = now
	}
	if participant.StatusUpdatedAt.IsZero() {
		participant.StatusUpdatedAt = now
	}
	participant.CreatedAt = now
	participant.UpdatedAt = now
	r.participants[participant.ID] = clone(*participant)
	return nil
}

func (r *ParticipantRepository) FindByID(_ context.Context, id uuid.UUID) (*entities.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.participants[id]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}
	p = clone(p)
	return &p, nil
}

func (r *ParticipantRepository) FindByEventID(_ context.Context, eventID uuid.UUID) ([]entities.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entities.Participant
	for _, p := range r.participants {
		if p.EventID == eventID {
			out = append(out, clone(p))
		}
	}
	slices.SortFunc(out, func(a, b entities.Participant) int {
		if c := a.JoinedAt.Compare(b.JoinedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}

func (r *ParticipantRepository) FindByEventIDAndUserID(_ context.Context, eventID uuid.UUID, userID string) (*entities.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.participants {
		if p.EventID == eventID && p.UserID == userID {
			p = clone(p)
			return &p, nil
		}
	}
	return nil, domain.ErrParticipantNotFound
}

// countActive must be called with mu held.
func (r *ParticipantRepository) countActive(eventID uuid.UUID) int64 {
	var n int64
	for _, p := range r.participants {
		if p.EventID == eventID && p.Role != domain.RoleSpectator {
			n++
		}
	}
	return n
}

func (r *ParticipantRepository) UpdateStatusBulk(_ context.Context, update output.BulkStatusUpdate) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.participants {
		if p.EventID != update.EventID || !slices.Contains(update.From, p.Status) {
			continue
		}
		if !update.UpdatedBefore.IsZero() && !p.StatusUpdatedAt.Before(update.UpdatedBefore) {
			continue
		}
		p.Status = update.To
		p.StatusUpdatedAt = update.At
		p.UpdatedAt = update.At
		r.participants[id] = p
		n++
	}
	return n, nil
}

func (r *ParticipantRepository) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ParticipantStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return domain.ErrParticipantNotFound
	}
	p.Status = status
	p.StatusUpdatedAt = at
	p.UpdatedAt = at
	r.participants[id] = p
	return nil
}

func (r *ParticipantRepository) UpdateResult(_ context.Context, id uuid.UUID, score *float64, placement *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.participants[id]
	if !ok {
		return domain.ErrParticipantNotFound
	}
	p.Score = copyPtr(score)
	p.Placement = copyPtr(placement)
	p.UpdatedAt = time.Now()
	r.participants[id] = p
	return nil
}

// clone detaches pointer fields so callers never share state with the store.
func clone(p entities.Participant) entities.Participant {
	p.Score = copyPtr(p.Score)
	p.Placement = copyPtr(p.Placement)
	return p
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
