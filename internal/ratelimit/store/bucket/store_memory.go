package bucket

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"prooflayer/internal/ratelimit/models"
)

// InMemoryBucketStore keeps one token bucket per key. The bucket holds
// limit tokens and refills one token every window/limit.
type InMemoryBucketStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func New() *InMemoryBucketStore {
	return &InMemoryBucketStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// NewWithClock is New with an injectable clock for tests.
func NewWithClock(now func() time.Time) *InMemoryBucketStore {
	s := New()
	s.now = now
	return s
}

// Allow takes one token from the key's bucket.
func (s *InMemoryBucketStore) Allow(_ context.Context, key string, limit int, window time.Duration) (*models.RateLimitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	interval := window / time.Duration(max(limit, 1))
	b := s.buckets[key]
	if b == nil {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(interval), limit)}
		s.buckets[key] = b
	}
	b.lastSeen = now

	if b.limiter.AllowN(now, 1) {
		tokens := b.limiter.TokensAt(now)
		missing := float64(limit) - tokens
		return &models.RateLimitResult{
			Allowed:   true,
			Limit:     limit,
			Remaining: int(math.Floor(tokens)),
			ResetAt:   now.Add(time.Duration(missing * float64(interval))),
		}, nil
	}

	r := b.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return &models.RateLimitResult{
		Allowed:    false,
		Limit:      limit,
		Remaining:  0,
		ResetAt:    now.Add(delay),
		RetryAfter: int(math.Ceil(delay.Seconds())),
	}, nil
}

// Sweep drops buckets idle for longer than idle and returns how many went.
func (s *InMemoryBucketStore) Sweep(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-idle)
	n := 0
	for key, b := range s.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(s.buckets, key)
			n++
		}
	}
	return n
}

func (s *InMemoryBucketStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.buckets, key)
	return nil
}
