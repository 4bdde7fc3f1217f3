package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Checkouts *prometheus.CounterVec
	// Webhooks is labelled by event type and outcome (applied, ignored,
	// duplicate, rejected).
	Webhooks *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Checkouts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prooflayer_checkout_sessions_total",
			Help: "Checkout sessions created by target plan",
		}, []string{"plan"}),
		Webhooks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prooflayer_billing_webhooks_total",
			Help: "Billing webhooks received by type and outcome",
		}, []string{"type", "outcome"}),
	}
}
