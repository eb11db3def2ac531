package input

import "context"

type SweepDetails struct {
	TransitionedToLive      int `json:"transitionedToLive"`
	TransitionedToCompleted int `json:"transitionedToCompleted"`
	RemindersSent           int `json:"remindersSent"`
	Failed                  int `json:"failed"`
}

// SweepSummary reports one scheduler run.
type SweepSummary struct {
	Success   bool         `json:"success"`
	Processed int          `json:"processed"`
	Errors    []string     `json:"errors"`
	Details   SweepDetails `json:"details"`
}

type SchedulerUseCase interface {
	RunScheduledTransitions(ctx context.Context) SweepSummary
}
