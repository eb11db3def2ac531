package output

import (
	"time"

	"gamenight/internal/domain"
)

// Transition outcomes recorded by Metrics.
const (
	TransitionApplied  = "applied"
	TransitionNoOp     = "noop"
	TransitionRejected = "rejected"
	TransitionFailed   = "failed"
)

type Metrics interface {
	RecordTransition(from, to domain.EventStatus, actor domain.ActorKind, outcome string)
	RecordSideEffectFailure(effect string)
	RecordNotificationFailure(kind string)
	RecordReminderSent(kind domain.ReminderKind)
	RecordSweep(duration time.Duration, failed int)
}
