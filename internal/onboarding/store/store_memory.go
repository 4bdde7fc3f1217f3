package store

import (
	"context"
	"slices"
	"sync"

	"prooflayer/internal/onboarding/models"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/platform/sentinel"
)

type InMemory struct {
	mu       sync.RWMutex
	progress map[id.UserID]*models.Progress
}

func NewInMemory() *InMemory {
	return &InMemory{progress: make(map[id.UserID]*models.Progress)}
}

func (s *InMemory) Find(_ context.Context, userID id.UserID) (*models.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.progress[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *p
	cp.Completed = slices.Clone(p.Completed)
	return &cp, nil
}

func (s *InMemory) Save(_ context.Context, p *models.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	cp.Completed = slices.Clone(p.Completed)
	s.progress[p.UserID] = &cp
	return nil
}
