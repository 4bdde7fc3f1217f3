package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks plan gating outcomes and usage resets.
type Metrics struct {
	LimitRejections *prometheus.CounterVec
	PlanChanges     *prometheus.CounterVec
	PeriodsReset    prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		LimitRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prooflayer_entitlement_limit_rejections_total",
			Help: "Requests rejected by plan limits",
		}, []string{"plan", "check"}),
		PlanChanges: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prooflayer_entitlement_plan_changes_total",
			Help: "Plan changes by target plan",
		}, []string{"plan"}),
		PeriodsReset: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prooflayer_entitlement_periods_reset_total",
			Help: "Usage periods rolled forward by the reset job",
		}),
	}
}

func (m *Metrics) IncrementLimitRejection(plan, check string) {
	m.LimitRejections.WithLabelValues(plan, check).Inc()
}

func (m *Metrics) IncrementPlanChange(plan string) {
	m.PlanChanges.WithLabelValues(plan).Inc()
}

func (m *Metrics) AddPeriodsReset(n int) {
	m.PeriodsReset.Add(float64(n))
}
