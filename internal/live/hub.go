// Package live fans moderation events out to dashboard websocket clients,
// one topic per workspace.
package live

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	id "prooflayer/pkg/domain"
)

const (
	EventSubmissionCreated   = "submission.created"
	EventSubmissionModerated = "submission.moderated"
	EventSubmissionDeleted   = "submission.deleted"

	defaultBuffer = 32
)

// Event is one message pushed to subscribers of a workspace.
type Event struct {
	Type        string         `json:"type"`
	WorkspaceID id.WorkspaceID `json:"workspace_id"`
	Data        any            `json:"data,omitempty"`
	At          time.Time      `json:"at"`
}

// Metrics tracks hub fan-out.
type Metrics struct {
	Subscribers prometheus.Gauge
	Dropped     prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		Subscribers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "prooflayer_live_subscribers",
			Help: "Number of connected live feed subscribers",
		}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "prooflayer_live_dropped_subscribers_total",
			Help: "Subscribers disconnected because they fell behind",
		}),
	}
}

// Hub routes events to subscribers. Publish never blocks: a subscriber whose
// buffer is full is dropped and its channel closed.
type Hub struct {
	mu      sync.Mutex
	subs    map[id.WorkspaceID]map[*Subscription]struct{}
	buffer  int
	metrics *Metrics
}

type HubOption func(*Hub)

func WithBuffer(n int) HubOption {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

func WithMetrics(m *Metrics) HubOption {
	return func(h *Hub) { h.metrics = m }
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subs:   make(map[id.WorkspaceID]map[*Subscription]struct{}),
		buffer: defaultBuffer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Subscription receives events for one workspace until closed or dropped.
type Subscription struct {
	C <-chan Event

	ch          chan Event
	hub         *Hub
	workspaceID id.WorkspaceID
	closed      bool
}

func (h *Hub) Subscribe(workspaceID id.WorkspaceID) *Subscription {
	ch := make(chan Event, h.buffer)
	sub := &Subscription{C: ch, ch: ch, hub: h, workspaceID: workspaceID}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[workspaceID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[workspaceID] = set
	}
	set[sub] = struct{}{}
	if h.metrics != nil {
		h.metrics.Subscribers.Inc()
	}
	return sub
}

// Close unsubscribes. Safe to call after the hub dropped the subscription.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.hub.removeLocked(s)
}

func (h *Hub) removeLocked(sub *Subscription) {
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.ch)
	if set := h.subs[sub.workspaceID]; set != nil {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, sub.workspaceID)
		}
	}
	if h.metrics != nil {
		h.metrics.Subscribers.Dec()
	}
}

// Publish delivers ev to every subscriber of workspaceID.
func (h *Hub) Publish(workspaceID id.WorkspaceID, ev Event) {
	ev.WorkspaceID = workspaceID
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs[workspaceID] {
		select {
		case sub.ch <- ev:
		default:
			h.removeLocked(sub)
			if h.metrics != nil {
				h.metrics.Dropped.Inc()
			}
		}
	}
}

// Subscribers returns the number of live subscriptions for workspaceID.
func (h *Hub) Subscribers(workspaceID id.WorkspaceID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[workspaceID])
}
