package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts workspace lifecycle events.
type Metrics struct {
	WorkspacesCreated prometheus.Counter
	WorkspacesDeleted prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		WorkspacesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prooflayer_workspaces_created_total",
			Help: "Total number of workspaces created",
		}),
		WorkspacesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prooflayer_workspaces_deleted_total",
			Help: "Total number of workspaces deleted",
		}),
	}
}
