// Package publisher emits audit events to a store, either synchronously or
// through a bounded async buffer drained by a worker.
package publisher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	id "prooflayer/pkg/domain"
	audit "prooflayer/pkg/platform/audit"
	"prooflayer/pkg/platform/audit/worker"
	"prooflayer/pkg/requestcontext"
)

// ErrBufferFull is returned when the async buffer cannot accept an event.
var ErrBufferFull = errors.New("audit buffer full")

var droppedEvents = promauto.NewCounter(prometheus.CounterOpts{
	Name: "prooflayer_audit_events_dropped_total",
	Help: "Audit events dropped because the async buffer was full",
})

type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	buffer   chan audit.Event
	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	closeOne sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer enables async mode with a buffer of n events.
func WithAsyncBuffer(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.buffer = make(chan audit.Event, n)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) { p.logger = logger }
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		w := worker.NewWorker(store, p.buffer, p.logger)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.Run(context.Background())
		}()
	}
	return p
}

// Emit enriches the event with timestamp, category and request ID, then
// persists it (sync) or enqueues it (async).
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	if p.buffer == nil {
		return p.store.Append(ctx, event)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return p.store.Append(ctx, event)
	}
	select {
	case p.buffer <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		droppedEvents.Inc()
		p.logger.WarnContext(ctx, "audit buffer full, dropping event", "action", event.Action)
		return ErrBufferFull
	}
}

func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	return p.store.ListByUser(ctx, userID)
}

// Close stops accepting async events and waits for the buffer to drain.
func (p *Publisher) Close() {
	p.closeOne.Do(func() {
		p.mu.Lock()
		p.closed = true
		if p.buffer != nil {
			close(p.buffer)
		}
		p.mu.Unlock()
		p.wg.Wait()
	})
}
