package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"prooflayer/internal/platform/kafka"
	"prooflayer/pkg/platform/tx"
)

// Publisher is the subset of the Kafka producer the relay needs.
type Publisher interface {
	Publish(ctx context.Context, msgs ...kafka.Message) error
}

var (
	relayPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prooflayer_outbox_published_total",
		Help: "Outbox entries published to Kafka",
	})
	relayFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "prooflayer_outbox_publish_failures_total",
		Help: "Outbox relay batches that failed to publish",
	})
)

// Relay moves unpublished entries to Kafka. A batch is fetched, published
// and marked inside one transaction, so a failed publish leaves the rows
// pending for the next tick.
type Relay struct {
	store     Store
	publisher Publisher
	runner    tx.Runner
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	now       func() time.Time
}

type RelayOption func(*Relay)

func WithInterval(d time.Duration) RelayOption {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) RelayOption {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) RelayOption {
	return func(r *Relay) { r.logger = logger }
}

func WithClock(now func() time.Time) RelayOption {
	return func(r *Relay) { r.now = now }
}

func NewRelay(store Store, publisher Publisher, runner tx.Runner, opts ...RelayOption) *Relay {
	r := &Relay{
		store:     store,
		publisher: publisher,
		runner:    runner,
		interval:  2 * time.Second,
		batchSize: 100,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run publishes on every tick until ctx is canceled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			for {
				n, err := r.PublishBatch(ctx)
				if err != nil {
					relayFailures.Inc()
					r.logger.ErrorContext(ctx, "outbox relay batch failed", "error", err)
					break
				}
				if n < r.batchSize {
					break
				}
			}
		}
	}
}

// PublishBatch relays one batch and returns how many entries it published.
func (r *Relay) PublishBatch(ctx context.Context) (int, error) {
	published := 0
	err := r.runner.RunInTx(ctx, func(txCtx context.Context) error {
		entries, err := r.store.FetchUnpublished(txCtx, r.batchSize)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}

		msgs := make([]kafka.Message, len(entries))
		ids := make([]uuid.UUID, len(entries))
		for i, e := range entries {
			msgs[i] = kafka.Message{
				Topic: e.Topic,
				Key:   []byte(e.AggregateID),
				Value: e.Payload,
				Headers: map[string]string{
					"event_type":     e.EventType,
					"aggregate_type": e.AggregateType,
					"outbox_id":      e.ID.String(),
				},
			}
			ids[i] = e.ID
		}
		if err := r.publisher.Publish(txCtx, msgs...); err != nil {
			return err
		}
		if err := r.store.MarkPublished(txCtx, ids, r.now()); err != nil {
			return err
		}
		published = len(entries)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if published > 0 {
		relayPublished.Add(float64(published))
		r.logger.DebugContext(ctx, "outbox batch published", "count", published)
	}
	return published, nil
}
