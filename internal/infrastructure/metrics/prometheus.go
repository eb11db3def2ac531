// Package metrics exposes lifecycle measurements to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"gamenight/internal/domain"
	"gamenight/internal/ports/output"
)

const namespace = "gamenight"

var _ output.Metrics = (*Prometheus)(nil)

type Prometheus struct {
	transitions          *prometheus.CounterVec
	sideEffectFailures   *prometheus.CounterVec
	notificationFailures *prometheus.CounterVec
	reminders            *prometheus.CounterVec
	sweepDuration        prometheus.Histogram
	sweepFailures        prometheus.Counter
}

// NewPrometheus registers the collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	m := &Prometheus{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_transitions_total",
			Help:      "Event status transition requests by edge, actor and outcome.",
		}, []string{"from", "to", "actor", "outcome"}),
		sideEffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transition_side_effect_failures_total",
			Help:      "Participant bookkeeping failures after an applied transition.",
		}, []string{"effect"}),
		notificationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Notification dispatches that failed.",
		}, []string{"kind"}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Reminders dispatched by window.",
		}, []string{"kind"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scheduler_sweep_duration_seconds",
			Help:      "Duration of scheduler sweeps.",
			Buckets:   prometheus.DefBuckets,
		}),
		sweepFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scheduler_sweep_item_failures_total",
			Help:      "Failed items across scheduler sweeps.",
		}),
	}
	reg.MustRegister(
		m.transitions,
		m.sideEffectFailures,
		m.notificationFailures,
		m.reminders,
		m.sweepDuration,
		m.sweepFailures,
	)
	return m
}

func (m *Prometheus) RecordTransition(from, to domain.EventStatus, actor domain.ActorKind, outcome string) {
	m.transitions.WithLabelValues(string(from), string(to), string(actor), outcome).Inc()
}

func (m *Prometheus) RecordSideEffectFailure(effect string) {
	m.sideEffectFailures.WithLabelValues(effect).Inc()
}

func (m *Prometheus) RecordNotificationFailure(kind string) {
	m.notificationFailures.WithLabelValues(kind).Inc()
}

func (m *Prometheus) RecordReminderSent(kind domain.ReminderKind) {
	m.reminders.WithLabelValues(string(kind)).Inc()
}

func (m *Prometheus) RecordSweep(duration time.Duration, failed int) {
	m.sweepDuration.Observe(duration.Seconds())
	if failed > 0 {
		m.sweepFailures.Add(float64(failed))
	}
}
