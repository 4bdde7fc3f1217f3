package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	WidgetsCreated prometheus.Counter
	// FeedReads is labelled by cache outcome: hit, miss or off.
	FeedReads *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		WidgetsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prooflayer_widgets_created_total",
			Help: "Total number of widgets created",
		}),
		FeedReads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prooflayer_widget_feed_reads_total",
			Help: "Public widget feed reads by cache outcome",
		}, []string{"cache"}),
	}
}
