package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts intake and moderation outcomes.
type Metrics struct {
	Received  *prometheus.CounterVec
	Rejected  *prometheus.CounterVec
	Moderated *prometheus.CounterVec
	Intake    prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Received: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prooflayer_submissions_received_total",
			Help: "Submissions accepted by public intake, by kind",
		}, []string{"kind"}),
		Rejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prooflayer_submissions_intake_rejected_total",
			Help: "Intake attempts refused, by error code",
		}, []string{"code"}),
		Moderated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prooflayer_submissions_moderated_total",
			Help: "Moderation decisions, by resulting status",
		}, []string{"status"}),
		Intake: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "prooflayer_submission_intake_duration_seconds",
			Help:    "Time spent accepting a submission",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
