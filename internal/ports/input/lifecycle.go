package input

import (
	"context"

	"github.com/google/uuid"

	"gamenight/internal/domain"
	"gamenight/internal/domain/entities"
)

// TransitionResult is the outcome of a transition request. Applied is false
// when a concurrent writer had already moved the event; that is not an error.
// SideEffectErr reports bookkeeping that failed after the status was written.
type TransitionResult struct {
	Event         *entities.Event
	From          domain.EventStatus
	To            domain.EventStatus
	Applied       bool
	SideEffectErr error
}

type LifecycleUseCase interface {
	RequestTransition(ctx context.Context, eventID uuid.UUID, to domain.EventStatus, actor domain.Actor, opts *domain.CompletionOptions) (*TransitionResult, error)
	ReconcileSideEffects(ctx context.Context, eventID uuid.UUID, actor domain.Actor) (int64, error)
}
