package store

import (
	"context"
	"sync"
	"time"

	"prooflayer/pkg/platform/sentinel"
)

// InMemory remembers processed webhook event IDs.
type InMemory struct {
	mu     sync.Mutex
	events map[string]time.Time
}

func NewInMemory() *InMemory {
	return &InMemory{events: make(map[string]time.Time)}
}

func (s *InMemory) Seen(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.events[eventID]
	return ok, nil
}

// Record stores eventID once; a second call returns sentinel.ErrConflict.
func (s *InMemory) Record(_ context.Context, eventID, _ string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[eventID]; ok {
		return sentinel.ErrConflict
	}
	s.events[eventID] = at
	return nil
}
