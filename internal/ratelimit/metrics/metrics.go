package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejections    *prometheus.CounterVec
	StoreFailures prometheus.Counter
	Degraded      prometheus.Gauge
}

func New() *Metrics {
	return &Metrics{
		Rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prooflayer_ratelimit_rejections_total",
			Help: "Requests rejected by the rate limiter, by endpoint class",
		}, []string{"class"}),
		StoreFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prooflayer_ratelimit_store_failures_total",
			Help: "Errors returned by the primary rate limit store",
		}),
		Degraded: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "prooflayer_ratelimit_degraded",
			Help: "1 while the limiter is serving from its in-memory fallback",
		}),
	}
}

func (m *Metrics) IncrementRejections(class string) {
	m.Rejections.WithLabelValues(class).Inc()
}

func (m *Metrics) IncrementStoreFailures() {
	m.StoreFailures.Inc()
}

func (m *Metrics) SetDegraded(on bool) {
	if on {
		m.Degraded.Set(1)
		return
	}
	m.Degraded.Set(0)
}
