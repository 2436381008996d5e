package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for screening and the event log.
// All methods are safe on a nil receiver.
type Metrics struct {
	// Screening outcomes by channel and decision
	Decisions *prometheus.CounterVec

	// Decisions that failed open because the store could not answer
	FailOpen *prometheus.CounterVec

	// Event log appends that failed and were isolated from the caller
	EventLogFailures *prometheus.CounterVec

	// Time spent deciding, including the store lookup
	DecideLatency prometheus.Histogram
}

// New creates a Metrics instance registered with reg.
// A nil reg creates unregistered collectors, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hush_screen_decisions_total",
			Help: "Total screening decisions by channel and outcome",
		}, []string{"channel", "decision"}), // channel: "call", "message", "lookup"

		FailOpen: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hush_screen_fail_open_total",
			Help: "Screening decisions that allowed because the block list could not be read",
		}, []string{"channel"}),

		EventLogFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hush_eventlog_failures_total",
			Help: "Blocked call/message events that could not be recorded",
		}, []string{"kind"}), // kind: "call", "message"

		DecideLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "hush_screen_decide_duration_seconds",
			Help:    "Duration of a screening decision including the block list lookup",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5, 2},
		}),
	}
}

// IncrementDecision records a screening outcome.
func (m *Metrics) IncrementDecision(channel, decision string) {
	if m != nil {
		m.Decisions.WithLabelValues(channel, decision).Inc()
	}
}

// IncrementFailOpen records a decision that fell back to allow.
func (m *Metrics) IncrementFailOpen(channel string) {
	if m != nil {
		m.FailOpen.WithLabelValues(channel).Inc()
	}
}

// IncrementEventLogFailure records an event that could not be appended.
func (m *Metrics) IncrementEventLogFailure(kind string) {
	if m != nil {
		m.EventLogFailures.WithLabelValues(kind).Inc()
	}
}

// ObserveDecideLatency records the duration of one decision.
func (m *Metrics) ObserveDecideLatency(d time.Duration) {
	if m != nil {
		m.DecideLatency.Observe(d.Seconds())
	}
}
