// Package metrics holds the prometheus instruments for the payment
// reconciliation flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	SessionModeSingle = "single"
	SessionModeBatch  = "batch"
)

const (
	SessionOutcomeSettled   = "settled"
	SessionOutcomeCancelled = "cancelled"
	SessionOutcomeFailed    = "failed"
)

const (
	RegistrationOK     = "ok"
	RegistrationFailed = "failed"
)

// PaymentMetrics captures PIX session lifecycle signals. A nil receiver is
// valid and drops every observation, so callers never guard.
type PaymentMetrics struct {
	sessionsStarted  *prometheus.CounterVec
	sessionsFinished *prometheus.CounterVec
	polls            prometheus.Counter
	pollErrors       prometheus.Counter
	registrations    *prometheus.CounterVec
}

// NewPaymentMetrics builds and registers the payment instruments. A nil
// registerer falls back to the default prometheus registry.
func NewPaymentMetrics(registerer prometheus.Registerer) *PaymentMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	sessionsStarted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenda_payment_sessions_started_total",
		Help: "PIX payment sessions opened, by single or batch mode.",
	}, []string{"mode"})
	sessionsFinished := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenda_payment_sessions_finished_total",
		Help: "PIX payment sessions finished, by outcome.",
	}, []string{"outcome"})
	polls := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revenda_payment_status_polls_total",
		Help: "Gateway status polls issued by live sessions.",
	})
	pollErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "revenda_payment_status_poll_errors_total",
		Help: "Gateway status polls that failed in transport.",
	})
	registrations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "revenda_payment_registrations_total",
		Help: "Payment registration attempts against the gateway, by result.",
	}, []string{"result"})

	registerer.MustRegister(
		sessionsStarted,
		sessionsFinished,
		polls,
		pollErrors,
		registrations,
	)

	return &PaymentMetrics{
		sessionsStarted:  sessionsStarted,
		sessionsFinished: sessionsFinished,
		polls:            polls,
		pollErrors:       pollErrors,
		registrations:    registrations,
	}
}

func (m *PaymentMetrics) SessionStarted(mode string) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(mode).Inc()
}

func (m *PaymentMetrics) SessionFinished(outcome string) {
	if m == nil {
		return
	}
	m.sessionsFinished.WithLabelValues(outcome).Inc()
}

func (m *PaymentMetrics) PollObserved(failed bool) {
	if m == nil {
		return
	}
	m.polls.Inc()
	if failed {
		m.pollErrors.Inc()
	}
}

func (m *PaymentMetrics) RegistrationAttempt(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}
