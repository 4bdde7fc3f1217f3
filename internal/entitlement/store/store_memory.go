// Package store persists entitlements. Every store returns sentinel errors;
// the service translates them.
package store

import (
	"context"
	"sync"
	"time"

	"prooflayer/internal/entitlement/models"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded entitlement store.
type InMemory struct {
	mu   sync.Mutex
	byID map[id.UserID]*models.Entitlement
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[id.UserID]*models.Entitlement)}
}

func (s *InMemory) GetOrCreate(_ context.Context, e *models.Entitlement) (*models.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byID[e.UserID]; ok {
		cp := *existing
		return &cp, nil
	}
	cp := *e
	s.byID[e.UserID] = &cp
	out := cp
	return &out, nil
}

func (s *InMemory) FindByUserID(_ context.Context, userID id.UserID) (*models.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

// Execute runs validate then apply under the store lock. apply mutates a
// copy that replaces the stored value only when validate passes.
func (s *InMemory) Execute(_ context.Context, userID id.UserID, validate func(*models.Entitlement) error, apply func(*models.Entitlement)) (*models.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *e
	if err := validate(&cp); err != nil {
		return nil, err
	}
	apply(&cp)
	s.byID[userID] = &cp
	out := cp
	return &out, nil
}

func (s *InMemory) ResetPeriods(_ context.Context, now time.Time) ([]id.UserID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var reset []id.UserID
	for uid, e := range s.byID {
		if e.IsPeriodExpired(now) {
			e.ApplyPeriodRoll(now)
			reset = append(reset, uid)
		}
	}
	return reset, nil
}
