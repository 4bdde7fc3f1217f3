package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"prooflayer/internal/ratelimit/metrics"
	"prooflayer/internal/ratelimit/models"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/platform/circuit"
)

// BucketStore counts requests per key.
type BucketStore interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error)
}

// Limiter checks per-IP limits against a primary store. After repeated
// primary failures it answers from the fallback store until the primary
// recovers.
type Limiter struct {
	primary  BucketStore
	fallback BucketStore
	breaker  *circuit.Breaker
	limits   map[models.EndpointClass]models.Limit
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(*Limiter)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Limiter) { l.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Limiter) { l.metrics = m }
}

func WithFallback(store BucketStore) Option {
	return func(l *Limiter) { l.fallback = store }
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(l *Limiter) { l.breaker = b }
}

// WithLimit overrides the limit for one class.
func WithLimit(class models.EndpointClass, limit models.Limit) Option {
	return func(l *Limiter) { l.limits[class] = limit }
}

// DefaultLimits are used for classes without an explicit WithLimit.
func DefaultLimits() map[models.EndpointClass]models.Limit {
	return map[models.EndpointClass]models.Limit{
		models.ClassSubmit: models.PerMinute(10),
		models.ClassFeed:   models.PerMinute(120),
		models.ClassAuth:   models.PerMinute(20),
	}
}

func New(primary BucketStore, opts ...Option) *Limiter {
	l := &Limiter{
		primary: primary,
		breaker: circuit.New("ratelimit"),
		limits:  DefaultLimits(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error) {
	limit, ok := l.limits[class]
	if !ok || limit.RequestsPerWindow <= 0 {
		return nil, dErrors.New(dErrors.CodeInternal, fmt.Sprintf("no rate limit configured for %q", class))
	}
	key := models.NewIPKey(class, ip)

	res, err := l.primary.Allow(ctx, key, limit.RequestsPerWindow, limit.Window)
	if err == nil {
		if _, change := l.breaker.RecordSuccess(); change.Closed {
			l.logger.InfoContext(ctx, "rate limit store recovered", "breaker", l.breaker.Name())
			l.setDegraded(false)
		}
		l.countRejection(res, class)
		return res, nil
	}

	if l.metrics != nil {
		l.metrics.IncrementStoreFailures()
	}
	useFallback, change := l.breaker.RecordFailure()
	if change.Opened {
		l.logger.WarnContext(ctx, "rate limit store failing, using fallback", "breaker", l.breaker.Name(), "error", err)
		l.setDegraded(true)
	}
	if !useFallback || l.fallback == nil {
		return nil, fmt.Errorf("rate limit check: %w", err)
	}

	res, err = l.fallback.Allow(ctx, key, limit.RequestsPerWindow, limit.Window)
	if err != nil {
		return nil, fmt.Errorf("fallback rate limit check: %w", err)
	}
	res.Degraded = true
	l.countRejection(res, class)
	return res, nil
}

func (l *Limiter) countRejection(res *models.RateLimitResult, class models.EndpointClass) {
	if l.metrics != nil && !res.Allowed {
		l.metrics.IncrementRejections(string(class))
	}
}

func (l *Limiter) setDegraded(on bool) {
	if l.metrics != nil {
		l.metrics.SetDegraded(on)
	}
}
