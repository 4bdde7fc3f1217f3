package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"prooflayer/internal/workspace/models"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/platform/sentinel"
)

type InMemory struct {
	mu         sync.RWMutex
	workspaces map[id.WorkspaceID]*models.Workspace
}

func NewInMemory() *InMemory {
	return &InMemory{workspaces: make(map[id.WorkspaceID]*models.Workspace)}
}

// Create inserts w; a slug already used by the same owner returns
// sentinel.ErrConflict.
func (s *InMemory) Create(_ context.Context, w *models.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.workspaces {
		if existing.OwnerID == w.OwnerID && existing.Slug == w.Slug {
			return sentinel.ErrConflict
		}
	}
	cp := *w
	s.workspaces[w.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, workspaceID id.WorkspaceID) (*models.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.workspaces[workspaceID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

// ListByOwner returns the owner's workspaces, oldest first.
func (s *InMemory) ListByOwner(_ context.Context, ownerID id.UserID) ([]*models.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Workspace
	for _, w := range s.workspaces {
		if w.OwnerID == ownerID {
			cp := *w
			out = append(out, &cp)
		}
	}
	slices.SortFunc(out, func(a, b *models.Workspace) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Slug, b.Slug)
	})
	return out, nil
}

func (s *InMemory) CountByOwner(_ context.Context, ownerID id.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, w := range s.workspaces {
		if w.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) Update(_ context.Context, w *models.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[w.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *w
	s.workspaces[w.ID] = &cp
	return nil
}

func (s *InMemory) Delete(_ context.Context, workspaceID id.WorkspaceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workspaces[workspaceID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.workspaces, workspaceID)
	return nil
}
